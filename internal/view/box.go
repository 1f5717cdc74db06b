package view

import (
	"html/template"

	"github.com/BinkaDev/gachabox/internal/catalog"
	"github.com/BinkaDev/gachabox/internal/i18n"
)

// Image is an image slot that keeps its layout when empty.
type Image struct {
	URL     string
	Visible bool
}

// Stat is one stat block of a box.
type Stat struct {
	Key   string
	Label string
	Value string
}

// BoxView is the rendered box section. Detail is always the placeholder.
type BoxView struct {
	Index       int
	Image       Image
	Title       string
	Tags        []string
	Stats       []Stat
	Description template.HTML
	Price       string
	Items       ItemTable
	Detail      DetailPanel
}

// Box renders box at index.
func (r *Renderer) Box(index int, box catalog.Box) BoxView {
	v := BoxView{
		Index:  index,
		Title:  box.Title,
		Price:  box.Price,
		Items:  r.Items(index, box.Items),
		Detail: r.Placeholder(),
	}
	if box.ImageFile != "" {
		v.Image = Image{URL: r.imageURL(box.ImageFile), Visible: true}
	}
	if v.Title == "" {
		v.Title = r.msgs.T("box.no_title")
	}
	if v.Price == "" {
		v.Price = r.msgs.T("box.no_price")
	}
	if box.Description != "" {
		v.Description = r.text.Format(box.Description)
	} else {
		v.Description = template.HTML(template.HTMLEscapeString(r.msgs.T("box.no_description")))
	}

	for _, tag := range box.Tags {
		v.Tags = append(v.Tags, i18n.Label(r.labels.Tags, tag))
	}

	// Only null or absent fields are skipped here; zero still renders.
	if t := box.Table; t != nil {
		for _, f := range []struct {
			key   string
			label string
			value catalog.Value
		}{
			{"Level", "stat.level", t.Level},
			{"Value", "stat.value", t.Value},
			{"Weight", "stat.weight", t.Weight},
		} {
			if f.value.IsNull() {
				continue
			}
			v.Stats = append(v.Stats, Stat{Key: f.key, Label: r.msgs.T(f.label), Value: f.value.String()})
		}
	}
	return v
}
