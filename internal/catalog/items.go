package catalog

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/BinkaDev/gachabox/internal/fetch"
)

// ItemPath builds the detail resource path for id under dir. An absent id
// gives an empty segment ("items/.json"), which the source reports as missing.
func ItemPath(dir string, id Value) (string, error) {
	seg := id.String()
	name := path.Join(dir, seg+".json")
	if strings.ContainsAny(seg, `/\`) {
		return name, &fetch.Error{Path: name, Status: http.StatusBadRequest, Message: "invalid item id"}
	}
	return name, nil
}

// ItemLoader fetches item detail records. Results are never cached.
type ItemLoader struct {
	fetcher JSONFetcher
	dir     string
}

// NewItemLoader returns an ItemLoader reading {dir}/{id}.json.
func NewItemLoader(fetcher JSONFetcher, dir string) *ItemLoader {
	return &ItemLoader{fetcher: fetcher, dir: dir}
}

// LoadItem fetches the detail record joined to summary by its id.
func (l *ItemLoader) LoadItem(ctx context.Context, summary BoxItemSummary) (ItemDetail, error) {
	name, err := ItemPath(l.dir, summary.ID)
	if err != nil {
		return ItemDetail{}, err
	}
	var detail ItemDetail
	if err := l.fetcher.JSON(ctx, name, &detail); err != nil {
		return ItemDetail{}, err
	}
	return detail, nil
}
