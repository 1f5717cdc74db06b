package httpserver

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BinkaDev/gachabox/internal/catalog"
	"github.com/BinkaDev/gachabox/internal/fetch"
	"github.com/BinkaDev/gachabox/internal/httpserver/middleware"
	"github.com/BinkaDev/gachabox/internal/i18n"
	"github.com/BinkaDev/gachabox/internal/observability"
	"github.com/BinkaDev/gachabox/internal/view"
)

type handlers struct {
	catalog   CatalogReader
	items     ItemLoader
	images    ImageSource
	imagesDir string
	bundle    *i18n.Bundle
	renderer  *view.Renderer
	tmpl      *templates
}

type pageData struct {
	Lang    string
	Langs   []string
	Msgs    i18n.Messages
	Status  view.StatusView
	Options []view.SelectOption
	Box     *view.BoxView
	Detail  view.DetailPanel
	// Loading is what app.js puts in the detail area while a row fetch runs.
	Loading view.DetailPanel
}

func (h *handlers) messages(r *http.Request) (i18n.Messages, *view.Renderer) {
	msgs := h.bundle.For(middleware.Lang(r.Context()))
	return msgs, h.renderer.WithMessages(msgs)
}

func (h *handlers) write(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := h.tmpl.render(w, status, name, data); err != nil {
		observability.FromContext(r.Context()).Error("render template", zap.String("template", name), zap.Error(err))
	}
}

// page renders the whole document. ?box and ?item reproduce a selection without JavaScript.
func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	msgs, rd := h.messages(r)
	snap := h.catalog.Snapshot()

	data := pageData{
		Lang:    msgs.Lang(),
		Langs:   h.bundle.Supported(),
		Msgs:    msgs,
		Status:  rd.Status(snap),
		Detail:  rd.Placeholder(),
		Loading: rd.Loading(),
	}
	if len(snap.Boxes) > 0 {
		idx, ok := parseIndex(r.URL.Query().Get("box"))
		if _, exists := snap.Box(idx); !ok || !exists {
			idx = 0
		}
		box, _ := snap.Box(idx)
		bv := rd.Box(idx, box)
		data.Box = &bv
		data.Options = rd.Options(snap.Boxes, idx)
		data.Detail = bv.Detail

		if row, ok := parseIndex(r.URL.Query().Get("item")); ok && row < len(box.Items) {
			data.Detail = h.loadDetail(r, rd, box.Items[row])
		}
	}
	h.write(w, r, http.StatusOK, "base", data)
}

// box renders the box section and resets the detail panel out of band.
func (h *handlers) box(w http.ResponseWriter, r *http.Request) {
	_, rd := h.messages(r)
	snap := h.catalog.Snapshot()
	idx, ok := parseIndex(r.URL.Query().Get("box"))
	box, exists := snap.Box(idx)
	if !ok || !exists {
		http.NotFound(w, r)
		return
	}
	h.write(w, r, http.StatusOK, "box_fragment", rd.Box(idx, box))
}

// itemDetail fetches one item detail. Fetch failures render the error panel with 200 so htmx swaps it.
func (h *handlers) itemDetail(w http.ResponseWriter, r *http.Request) {
	_, rd := h.messages(r)
	snap := h.catalog.Snapshot()
	boxIdx, okBox := parseIndex(chi.URLParam(r, "box"))
	row, okRow := parseIndex(chi.URLParam(r, "row"))
	box, exists := snap.Box(boxIdx)
	if !okBox || !okRow || !exists || row >= len(box.Items) {
		http.NotFound(w, r)
		return
	}
	h.write(w, r, http.StatusOK, "detail_panel", panelView{Panel: h.loadDetail(r, rd, box.Items[row])})
}

func (h *handlers) loadDetail(r *http.Request, rd *view.Renderer, summary catalog.BoxItemSummary) view.DetailPanel {
	detail, err := h.items.LoadItem(r.Context(), summary)
	if err != nil {
		observability.FromContext(r.Context()).Warn("item detail fetch failed",
			zap.String("item_id", summary.ID.String()),
			zap.Error(err),
		)
		return rd.Failed(err)
	}
	return rd.Detail(detail, summary)
}

// status is polled while the first load is pending and asks htmx for a full
// refresh once boxes are available.
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	_, rd := h.messages(r)
	snap := h.catalog.Snapshot()
	if len(snap.Boxes) > 0 {
		w.Header().Set("HX-Refresh", "true")
	}
	h.write(w, r, http.StatusOK, "status", rd.Status(snap))
}

func (h *handlers) image(w http.ResponseWriter, r *http.Request) {
	// chi routes on RawPath when it is set, so only then is the param still escaped.
	name := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		name = unescaped
	}
	if name == "" || path.Clean("/"+name) != "/"+name {
		http.NotFound(w, r)
		return
	}
	rc, err := h.images.Open(r.Context(), path.Join(h.imagesDir, name))
	if err != nil {
		var fe *fetch.Error
		switch {
		case fetch.IsNotFound(err), errors.As(err, &fe) && fe.Status == http.StatusBadRequest:
			http.NotFound(w, r)
		default:
			observability.FromContext(r.Context()).Warn("image fetch failed", zap.String("image", name), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		}
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = io.Copy(w, rc)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func parseIndex(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
