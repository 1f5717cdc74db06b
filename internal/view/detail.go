package view

import (
	"fmt"

	"github.com/BinkaDev/gachabox/internal/catalog"
	"github.com/BinkaDev/gachabox/internal/fetch"
	"github.com/BinkaDev/gachabox/internal/i18n"
)

// PanelState selects how the detail panel is styled.
type PanelState string

const (
	PanelPlaceholder PanelState = "placeholder"
	PanelLoading     PanelState = "loading"
	PanelError       PanelState = "error"
	PanelReady       PanelState = "ready"
)

// DetailPanel is the item-detail area. Message is set for every state but PanelReady.
type DetailPanel struct {
	State   PanelState
	Message string

	ImageURL     string
	Title        string
	DropRate     string
	TableLines   []string
	Compoundable []string
	Attributes   []string
	NoAttributes string
}

// Class returns the CSS modifier class for the panel state.
func (p DetailPanel) Class() string {
	switch p.State {
	case PanelPlaceholder:
		return "muted"
	case PanelError:
		return "error"
	default:
		return ""
	}
}

// Placeholder is the muted prompt shown before any item is picked.
func (r *Renderer) Placeholder() DetailPanel {
	return DetailPanel{State: PanelPlaceholder, Message: r.msgs.T("detail.placeholder")}
}

// Loading is shown while a detail fetch is in flight.
func (r *Renderer) Loading() DetailPanel {
	return DetailPanel{State: PanelLoading, Message: r.msgs.T("detail.loading")}
}

// Failed renders a detail fetch failure.
func (r *Renderer) Failed(err error) DetailPanel {
	return DetailPanel{State: PanelError, Message: r.msgs.Tf("detail.failed", fetch.Detail(err))}
}

// Detail renders a fetched item detail together with the summary row it came from.
func (r *Renderer) Detail(detail catalog.ItemDetail, summary catalog.BoxItemSummary) DetailPanel {
	p := DetailPanel{State: PanelReady}

	switch {
	case detail.ImageFile != "":
		p.ImageURL = r.imageURL(detail.ImageFile)
	case summary.ImgFile != "":
		p.ImageURL = r.imageURL(summary.ImgFile)
	}

	switch {
	case detail.Title != "":
		p.Title = detail.Title
	case summary.Name != "":
		p.Title = summary.Name
	default:
		p.Title = r.msgs.T("item.no_name")
	}

	if summary.Rate.Truthy() {
		p.DropRate = r.msgs.Tf("detail.drop_rate", summary.Rate.String())
	}

	// Falsy fields (including 0) are dropped here, unlike box stats.
	if t := detail.Table; t != nil {
		for _, f := range []struct {
			label string
			value catalog.Value
		}{
			{"stat.level", t.Level},
			{"stat.value", t.Value},
			{"stat.weight", t.Weight},
			{"stat.slots", t.Slots},
		} {
			if !f.value.Truthy() {
				continue
			}
			p.TableLines = append(p.TableLines, r.msgs.Tf("detail.table_line", r.msgs.T(f.label), f.value.String()))
		}
	}

	for _, code := range detail.Compoundable {
		p.Compoundable = append(p.Compoundable, i18n.Label(r.labels.Stats, code))
	}

	for _, attr := range detail.Attributes {
		p.Attributes = append(p.Attributes, fmt.Sprintf("%s (%s) : %s", i18n.Label(r.labels.Stats, attr.Code), attr.Code, attr.Value.String()))
	}
	if len(p.Attributes) == 0 {
		p.NoAttributes = r.msgs.T("detail.no_attributes")
	}
	return p
}
