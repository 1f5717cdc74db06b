package view

import "github.com/BinkaDev/gachabox/internal/catalog"

// ItemColumns is the column count of the item table.
const ItemColumns = 4

// ItemTable is the rendered item list of one box.
type ItemTable struct {
	CountLabel string
	Empty      string
	Rows       []ItemRow
}

// ItemRow is one clickable item line.
type ItemRow struct {
	Index     int
	IconURL   string
	Name      string
	Count     string
	Rate      string
	DetailURL string
}

// Items renders the item table of the box at boxIndex.
func (r *Renderer) Items(boxIndex int, items []catalog.BoxItemSummary) ItemTable {
	t := ItemTable{CountLabel: r.msgs.Tf("items.count", len(items))}
	if len(items) == 0 {
		t.Empty = r.msgs.T("items.empty")
		return t
	}
	t.Rows = make([]ItemRow, 0, len(items))
	for i, item := range items {
		row := ItemRow{
			Index:     i,
			IconURL:   r.imageURL(item.ImgFile),
			Name:      item.Name,
			DetailURL: DetailURL(boxIndex, i),
		}
		if row.Name == "" {
			row.Name = r.msgs.T("item.no_name")
		}
		if item.Count.Truthy() {
			row.Count = item.Count.String()
		}
		if item.Rate.Truthy() {
			row.Rate = item.Rate.String()
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
