package trip

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/safari-quote/internal/catalog"
	"github.com/noah-isme/safari-quote/internal/common"
	"github.com/noah-isme/safari-quote/internal/lock"
	"github.com/noah-isme/safari-quote/internal/lodging"
	"github.com/noah-isme/safari-quote/internal/obs"
)

// DraftStore is the persistence surface the handler needs.
type DraftStore interface {
	Create(ctx context.Context, d Draft) error
	Get(ctx context.Context, id string) (Draft, error)
	Save(ctx context.Context, d Draft) error
}

// SnapshotProvider supplies the catalog snapshot intents are applied against.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// DraftLocker serialises concurrent intent applications on the same draft.
type DraftLocker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Handler wires draft CRUD and the intent endpoint to HTTP.
type Handler struct {
	Store    DraftStore
	Catalog  SnapshotProvider
	Validate *validator.Validate
	Lock     DraftLocker
}

// CreateRequest is the payload for starting a new draft.
type CreateRequest struct {
	Travelers int    `json:"travelers" validate:"required,min=1,max=99"`
	Days      int    `json:"days" validate:"required,min=1,max=60"`
	Tier      string `json:"tier" validate:"omitempty,oneof=budget standard luxury ultra_luxury"`
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
}

// IntentRequest is the envelope for one reducer transition. Only the fields
// relevant to the intent type are read.
type IntentRequest struct {
	Type          string   `json:"type" validate:"required"`
	Day           int      `json:"day"`
	ParkID        *string  `json:"parkId"`
	ItemID        *string  `json:"itemId"`
	ItemIDs       []string `json:"itemIds"`
	NotApplicable bool     `json:"notApplicable"`
	RoomTypeID    string   `json:"roomTypeId"`
	SeasonID      string   `json:"seasonId"`
	OccupancyKey  string   `json:"occupancyKey"`
	Quantity      int      `json:"quantity"`
	Guests        int      `json:"guests"`
	Index         int      `json:"index"`
	Description   string   `json:"description"`
	Amount        int64    `json:"amount"`
	Excluded      bool     `json:"excluded"`
	Notes         string   `json:"notes"`
	Travelers     int      `json:"travelers"`
	Days          int      `json:"days"`
	Tier          string   `json:"tier"`
	StartDate     string   `json:"startDate"`
}

// Create starts an empty draft.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "trip store not configured", nil)
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RenderError(w, common.BadRequest("body", "invalid JSON payload", err))
		return
	}
	if err := h.validate(req); err != nil {
		common.RenderError(w, common.BadRequest("body", err.Error(), err))
		return
	}
	tier := ParseTier(req.Tier)
	if req.Tier == "" {
		tier = TierStandard
	}
	d := NewDraft(uuid.NewString(), req.Travelers, req.Days, tier)
	d.StartDate = req.StartDate
	if err := h.Store.Create(r.Context(), d); err != nil {
		common.RenderError(w, err)
		return
	}
	common.DataResponse(w, http.StatusCreated, d)
}

// Get returns the current draft state.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "trip store not configured", nil)
		return
	}
	d, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderDraftError(w, err)
		return
	}
	common.DataResponse(w, http.StatusOK, d)
}

// ApplyIntent loads the draft, applies one reducer transition against the
// current catalog snapshot, persists the result, and returns the new state.
func (h *Handler) ApplyIntent(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil || h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "trip handler not configured", nil)
		return
	}
	var req IntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RenderError(w, common.BadRequest("body", "invalid JSON payload", err))
		return
	}
	if err := h.validate(req); err != nil {
		common.RenderError(w, common.BadRequest("body", err.Error(), err))
		return
	}

	id := chi.URLParam(r, "id")
	var next Draft
	run := func(ctx context.Context) error {
		d, err := h.Store.Get(ctx, id)
		if err != nil {
			return err
		}
		snapshot, err := h.Catalog.Snapshot(ctx)
		if err != nil {
			return err
		}
		next, err = applyIntent(&Reducer{Catalog: snapshot}, d, req)
		countIntent(req.Type, err)
		if err != nil {
			return err
		}
		return h.Store.Save(ctx, next)
	}

	var err error
	if h.Lock != nil {
		err = h.Lock.WithLock(r.Context(), lock.KeyForDraft(id), 10*time.Second, run)
	} else {
		err = run(r.Context())
	}
	if err != nil {
		h.renderDraftError(w, err)
		return
	}
	common.DataResponse(w, http.StatusOK, next)
}

func applyIntent(r *Reducer, d Draft, req IntentRequest) (Draft, error) {
	switch req.Type {
	case "select_park":
		return r.SelectPark(d, req.Day, req.ParkID)
	case "select_arrival":
		return r.SelectArrival(d, req.Day, req.ItemID)
	case "toggle_arrival_na":
		return r.ToggleArrivalNA(d, req.Day, req.NotApplicable)
	case "toggle_activities_na":
		return r.ToggleActivitiesNA(d, req.Day, req.NotApplicable)
	case "set_lodging":
		return r.SetLodging(d, req.Day, req.ItemID)
	case "add_lodging_allocation":
		return r.AddLodgingAllocation(d, req.Day, req.RoomTypeID, req.SeasonID, req.OccupancyKey, req.Quantity, req.Guests)
	case "remove_lodging_allocation":
		return r.RemoveLodgingAllocation(d, req.Day, req.Index)
	case "set_activities":
		return r.SetActivities(d, req.Day, req.ItemIDs)
	case "set_extras":
		return r.SetExtras(d, req.Day, req.ItemIDs)
	case "set_vehicle":
		return r.SetVehicle(d, req.Day, req.ItemID)
	case "set_internal_movements":
		return r.SetInternalMovements(d, req.Day, req.ItemIDs)
	case "set_notes":
		return r.SetNotes(d, req.Day, req.Notes)
	case "add_free_hand_line":
		return r.AddFreeHandLine(d, req.Day, req.Description, req.Amount)
	case "update_free_hand_line":
		return r.UpdateFreeHandLine(d, req.Day, req.Index, req.Description, req.Amount)
	case "remove_free_hand_line":
		return r.RemoveFreeHandLine(d, req.Day, req.Index)
	case "add_park_fee":
		return r.AddParkFee(d, req.Day, stringValue(req.ItemID))
	case "set_park_fee_excluded":
		return r.SetParkFeeExcluded(d, req.Day, stringValue(req.ItemID), req.Excluded)
	case "set_quantity":
		return r.SetQuantity(d, stringValue(req.ItemID), req.Quantity)
	case "set_travelers":
		return r.SetTravelers(d, req.Travelers)
	case "set_days":
		return r.SetDays(d, req.Days)
	case "set_tier":
		return r.SetTier(d, Tier(req.Tier))
	case "set_start_date":
		return r.SetStartDate(d, req.StartDate)
	default:
		return d, common.BadRequest("type", "unknown intent type", nil)
	}
}

func (h *Handler) validate(v any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(v)
}

func (h *Handler) renderDraftError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDraftNotFound):
		common.RenderError(w, common.NotFound("trip draft not found", err))
	case errors.Is(err, ErrDayOutOfRange),
		errors.Is(err, ErrInvalidTravelers),
		errors.Is(err, ErrInvalidDays),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrLineOutOfRange),
		errors.Is(err, ErrNoLodgingSelected),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrFeeNotFound),
		errors.Is(err, ErrUnknownTier),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, lodging.ErrRoomNotFound),
		errors.Is(err, lodging.ErrRateNotFound),
		errors.Is(err, lodging.ErrInvalidQuantity):
		common.RenderError(w, common.NewAppError("UNPROCESSABLE", err.Error(), http.StatusUnprocessableEntity, err))
	default:
		common.RenderError(w, err)
	}
}

func countIntent(intentType string, err error) {
	if obs.TripIntentTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	obs.TripIntentTotal.WithLabelValues(intentType, result).Inc()
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
