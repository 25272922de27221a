package catalog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/safari-quote/internal/common"
)

// Handler exposes the read-only catalog surface consumed by the trip builder UI.
type Handler struct {
	Service *Service
}

// Items lists catalog items, optionally filtered by category and park scope.
// With a park filter the result is global items plus items scoped to that park.
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshot(w, r)
	if snapshot == nil {
		_ = err
		return
	}
	category := ParseCategory(r.URL.Query().Get("category"))
	park := strings.TrimSpace(r.URL.Query().Get("park"))

	var items []Item
	switch {
	case category != "" && !category.Known():
		common.RenderError(w, common.BadRequest("category", "unknown category", nil))
		return
	case category != "" && park != "":
		items = snapshot.ApplicableToPark(category, park)
	case category != "":
		items = snapshot.byCategoryItems(category)
	default:
		items = snapshot.Items()
	}
	if items == nil {
		items = []Item{}
	}
	common.DataResponse(w, http.StatusOK, items)
}

// ParkItems lists the items applicable to one park: global items plus items
// scoped to exactly that park, optionally restricted to a category.
func (h *Handler) ParkItems(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshot(w, r)
	if snapshot == nil {
		_ = err
		return
	}
	park := chi.URLParam(r, "parkID")
	category := ParseCategory(r.URL.Query().Get("category"))
	if category != "" && !category.Known() {
		common.RenderError(w, common.BadRequest("category", "unknown category", nil))
		return
	}

	items := []Item{}
	if category != "" {
		items = append(items, snapshot.ApplicableToPark(category, park)...)
	} else {
		for _, item := range snapshot.Items() {
			if item.Global() || item.ScopedTo(park) {
				items = append(items, item)
			}
		}
	}
	common.DataResponse(w, http.StatusOK, items)
}

// ItemByID returns a single catalog item.
func (h *Handler) ItemByID(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshot(w, r)
	if snapshot == nil {
		_ = err
		return
	}
	id := chi.URLParam(r, "id")
	item, ok := snapshot.FindByID(id)
	if !ok {
		common.RenderError(w, common.NotFound("catalog item not found", nil))
		return
	}
	common.DataResponse(w, http.StatusOK, item)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (*Snapshot, error) {
	if h == nil || h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return nil, nil
	}
	snapshot, err := h.Service.Snapshot(r.Context())
	if err != nil {
		common.RenderError(w, err)
		return nil, err
	}
	return snapshot, nil
}

func (s *Snapshot) byCategoryItems(category Category) []Item {
	var out []Item
	for _, idx := range s.byCategory[category] {
		out = append(out, s.items[idx])
	}
	return out
}
