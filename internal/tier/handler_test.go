package tier_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/safari-quote/internal/catalog"
	"github.com/noah-isme/safari-quote/internal/tier"
	"github.com/noah-isme/safari-quote/internal/trip"
)

type fakeCatalog struct {
	snapshot *catalog.Snapshot
}

func (f fakeCatalog) Snapshot(context.Context) (*catalog.Snapshot, error) {
	return f.snapshot, nil
}

type memDrafts map[string]trip.Draft

func (m memDrafts) Get(_ context.Context, id string) (trip.Draft, error) {
	d, ok := m[id]
	if !ok {
		return trip.Draft{}, fmt.Errorf("%w: %s", trip.ErrDraftNotFound, id)
	}
	return d, nil
}

func strp(v string) *string { return &v }

func fixtureHandler() *tier.Handler {
	items := []catalog.Item{
		{ID: "hostel", Name: "Public Campsite", Category: catalog.CategoryLodging, BasePrice: 8000, CostModel: catalog.CostPerNightPerPerson, Active: true},
		{ID: "lodge", Name: "Serengeti Lodge", Category: catalog.CategoryLodging, ParkID: strp("serengeti"), BasePrice: 25000, CostModel: catalog.CostPerNightPerPerson, Active: true},
		{ID: "villa", Name: "Exclusive Private Villa", Category: catalog.CategoryLodging, ParkID: strp("serengeti"), BasePrice: 140000, CostModel: catalog.CostPerNightFixed, Active: true},
		{ID: "closed", Name: "Closed Lodge", Category: catalog.CategoryLodging, BasePrice: 25000, CostModel: catalog.CostPerNightPerPerson, Active: false},
		{ID: "walk", Name: "Village Walk", Category: catalog.CategoryActivities, BasePrice: 5000, CostModel: catalog.CostPerPerson, Active: true},
		{ID: "balloon", Name: "Balloon Safari", Category: catalog.CategoryActivities, BasePrice: 55000, CostModel: catalog.CostPerPerson, Active: true},
	}
	d := trip.NewDraft("t1", 2, 3, trip.TierUltraLux)
	d.TripDays[0].ParkID = strp("serengeti")
	return &tier.Handler{
		Catalog: fakeCatalog{snapshot: catalog.NewSnapshot(items)},
		Drafts:  memDrafts{"t1": d},
	}
}

func withParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestSuggestRanksForTier(t *testing.T) {
	h := fixtureHandler()

	req := withParam(httptest.NewRequest(http.MethodGet, "/api/v1/tiers/standard/suggest", nil), "tier", "standard")
	rec := httptest.NewRecorder()
	h.Suggest(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []tier.Scored `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3, "inactive lodging must be filtered out")
	require.Equal(t, "lodge", resp.Data[0].Item.ID)
}

func TestSuggestRejectsUnknownTier(t *testing.T) {
	h := fixtureHandler()
	req := withParam(httptest.NewRequest(http.MethodGet, "/api/v1/tiers/opulent/suggest", nil), "tier", "opulent")
	rec := httptest.NewRecorder()
	h.Suggest(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestForTrip(t *testing.T) {
	h := fixtureHandler()

	req := withParam(httptest.NewRequest(http.MethodGet, "/api/v1/trips/t1/suggest?day=1", nil), "id", "t1")
	rec := httptest.NewRecorder()
	h.SuggestForTrip(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data tier.TripSuggestion `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, trip.TierUltraLux, resp.Data.Tier)
	require.NotNil(t, resp.Data.BestLodging)
	require.Equal(t, "villa", resp.Data.BestLodging.ID)
	require.Equal(t, "balloon", resp.Data.Activities[0].Item.ID)
}

func TestSuggestForTripBadDay(t *testing.T) {
	h := fixtureHandler()
	req := withParam(httptest.NewRequest(http.MethodGet, "/api/v1/trips/t1/suggest?day=9", nil), "id", "t1")
	rec := httptest.NewRecorder()
	h.SuggestForTrip(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestForTripNotFound(t *testing.T) {
	h := fixtureHandler()
	req := withParam(httptest.NewRequest(http.MethodGet, "/api/v1/trips/ghost/suggest", nil), "id", "ghost")
	rec := httptest.NewRecorder()
	h.SuggestForTrip(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
