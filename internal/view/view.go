// Package view turns catalog records into view models. Renderers are pure
// functions of their inputs plus the label dictionaries and message bundle;
// templates in httpserver apply the models to the page.
package view

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/BinkaDev/gachabox/internal/catalog"
	"github.com/BinkaDev/gachabox/internal/i18n"
)

// Translator resolves UI message keys for one language.
type Translator interface {
	T(key string) string
	Tf(key string, args ...any) string
}

// Renderer builds view models.
type Renderer struct {
	msgs      Translator
	labels    i18n.Labels
	imageBase string
	text      TextFormatter
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithImageBase sets the URL prefix prepended to image file names.
func WithImageBase(prefix string) Option {
	return func(r *Renderer) {
		r.imageBase = prefix
	}
}

// WithTextFormatter sets the description formatter.
func WithTextFormatter(f TextFormatter) Option {
	return func(r *Renderer) {
		if f != nil {
			r.text = f
		}
	}
}

// New constructs a Renderer.
func New(msgs Translator, labels i18n.Labels, opts ...Option) *Renderer {
	r := &Renderer{
		msgs:      msgs,
		labels:    labels,
		imageBase: "/data/images/",
		text:      PlainText(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithMessages returns a copy of r bound to msgs.
func (r *Renderer) WithMessages(msgs Translator) *Renderer {
	cp := *r
	cp.msgs = msgs
	return &cp
}

func (r *Renderer) imageURL(file string) string {
	if file == "" {
		return ""
	}
	segs := strings.Split(file, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return r.imageBase + strings.Join(segs, "/")
}

// DetailURL is the fragment route for one item row.
func DetailURL(box, row int) string {
	return fmt.Sprintf("/boxes/%d/items/%d", box, row)
}

// BoxURL is the fragment route for one box.
func BoxURL(box int) string {
	return fmt.Sprintf("/boxes?box=%d", box)
}

// SelectOption is one entry of the box selection control.
type SelectOption struct {
	Value    int
	Label    string
	Selected bool
}

// Options builds the selection control: label is the box title or "Box {n}".
func (r *Renderer) Options(boxes []catalog.Box, selected int) []SelectOption {
	out := make([]SelectOption, 0, len(boxes))
	for i, b := range boxes {
		label := b.Title
		if label == "" {
			label = r.msgs.Tf("box.fallback_option", i+1)
		}
		out = append(out, SelectOption{Value: i, Label: label, Selected: i == selected})
	}
	return out
}

// StatusView is the load status line.
type StatusView struct {
	Text    string
	Error   bool
	Pending bool
}

// Status renders the status line for snap.
func (r *Renderer) Status(snap catalog.Snapshot) StatusView {
	switch snap.Status {
	case catalog.StatusLoading:
		return StatusView{Text: r.msgs.T("status.loading"), Pending: true}
	case catalog.StatusEmpty:
		return StatusView{Text: r.msgs.T("status.empty")}
	case catalog.StatusFailed:
		return StatusView{Text: r.msgs.Tf("status.failed", snap.ErrorDetail()), Error: true}
	default:
		return StatusView{}
	}
}
