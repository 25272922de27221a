package quote

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/safari-quote/internal/common"
	"github.com/noah-isme/safari-quote/internal/trip"
)

// Handler exposes pricing previews and quote freezing.
type Handler struct {
	Svc *Service
}

// Price returns a speculative pricing breakdown for the draft.
func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	preview, err := h.Svc.Price(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, err)
		return
	}
	common.DataResponse(w, http.StatusOK, preview)
}

// Freeze prices the draft and persists an immutable quote snapshot.
func (h *Handler) Freeze(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	q, err := h.Svc.Freeze(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, err)
		return
	}
	common.DataResponse(w, http.StatusCreated, q)
}

// Get returns a frozen quote.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	q, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, err)
		return
	}
	common.DataResponse(w, http.StatusOK, q)
}

func (h *Handler) renderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trip.ErrDraftNotFound):
		common.RenderError(w, common.NotFound("trip draft not found", err))
	case errors.Is(err, ErrQuoteNotFound):
		common.RenderError(w, common.NotFound("quote not found", err))
	default:
		common.RenderError(w, err)
	}
}
