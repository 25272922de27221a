package tier

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/safari-quote/internal/catalog"
	"github.com/noah-isme/safari-quote/internal/common"
	"github.com/noah-isme/safari-quote/internal/trip"
)

// SnapshotProvider supplies the catalog snapshot suggestions are scored against.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// DraftSource loads trip drafts for trip-scoped suggestions.
type DraftSource interface {
	Get(ctx context.Context, id string) (trip.Draft, error)
}

// Handler serves tier-based catalog suggestions for one-click population.
type Handler struct {
	Catalog SnapshotProvider
	Drafts  DraftSource
}

// Suggest ranks catalog items for the tier in the URL. Filters: ?category=
// restricts to one category (default lodging), ?park= scopes to a park, and
// ?limit= caps the result count.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "tier handler not configured", nil)
		return
	}
	t := trip.ParseTier(chi.URLParam(r, "tier"))
	if !t.Known() {
		common.RenderError(w, common.BadRequest("tier", "unknown tier", nil))
		return
	}
	category := catalog.ParseCategory(r.URL.Query().Get("category"))
	if category == "" {
		category = catalog.CategoryLodging
	}
	if !category.Known() {
		common.RenderError(w, common.BadRequest("category", "unknown category", nil))
		return
	}
	snapshot, err := h.Catalog.Snapshot(r.Context())
	if err != nil {
		common.RenderError(w, err)
		return
	}

	var parkID *string
	if park := strings.TrimSpace(r.URL.Query().Get("park")); park != "" {
		parkID = &park
	}
	ranked := Recommended(activeByScope(snapshot, category, parkID), t)
	if ranked == nil {
		ranked = []Scored{}
	}
	common.DataResponse(w, http.StatusOK, ranked)
}

// TripSuggestion is the one-click population payload for a trip day.
type TripSuggestion struct {
	Tier        trip.Tier     `json:"tier"`
	Day         int           `json:"day"`
	BestLodging *catalog.Item `json:"bestLodging,omitempty"`
	Activities  []Scored      `json:"activities"`
}

// SuggestForTrip ranks lodging and activities for one day of a draft using
// the draft's own tier and the day's park scope. ?day=N defaults to 1.
func (h *Handler) SuggestForTrip(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Catalog == nil || h.Drafts == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "tier handler not configured", nil)
		return
	}
	d, err := h.Drafts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, trip.ErrDraftNotFound) {
			common.RenderError(w, common.NotFound("trip draft not found", err))
			return
		}
		common.RenderError(w, err)
		return
	}
	day := 1
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > len(d.TripDays) {
			common.RenderError(w, common.BadRequest("day", "day out of range", err))
			return
		}
		day = parsed
	}
	snapshot, err := h.Catalog.Snapshot(r.Context())
	if err != nil {
		common.RenderError(w, err)
		return
	}

	dayState := d.TripDays[day-1]
	lodgingItems := activeByScope(snapshot, catalog.CategoryLodging, dayState.ParkID)
	activityItems := activeByScope(snapshot, catalog.CategoryActivities, dayState.ParkID)

	suggestion := TripSuggestion{Tier: d.Tier, Day: day, Activities: Recommended(activityItems, d.Tier)}
	if best, ok := BestForTier(lodgingItems, d.Tier); ok {
		suggestion.BestLodging = &best
	}
	if suggestion.Activities == nil {
		suggestion.Activities = []Scored{}
	}
	common.DataResponse(w, http.StatusOK, suggestion)
}

func activeByScope(snapshot *catalog.Snapshot, category catalog.Category, parkID *string) []catalog.Item {
	var items []catalog.Item
	if parkID != nil && strings.TrimSpace(*parkID) != "" {
		items = snapshot.ApplicableToPark(category, *parkID)
	} else {
		for _, item := range snapshot.Items() {
			if item.Category == category {
				items = append(items, item)
			}
		}
	}
	active := items[:0]
	for _, item := range items {
		if item.Active {
			active = append(active, item)
		}
	}
	return active
}
