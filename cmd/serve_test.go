package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ids-analytics/pubstats/internal/dataset"
	"github.com/ids-analytics/pubstats/internal/stats"
	"github.com/ids-analytics/pubstats/internal/store"
)

func newServeTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "serve_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	require.NoError(t, st.Migrate(ctx))

	pay1, pay2 := 27210.0, 25100.0
	obs := []dataset.Observation{
		{
			AreaCode: "E06000001", AreaName: "Hartlepool", NumPubs: 92,
			Population: 92800, PubsPerCapita: 0.00099, Country: dataset.England,
			MedianPay2017: &pay1, AreaSqKm: 93.7, Coastal: dataset.CoastalCoastal,
			PopDensity: 990.4,
		},
		{
			AreaCode: "E06000002", AreaName: "Middlesbrough", NumPubs: 101,
			Population: 140500, PubsPerCapita: 0.00072, Country: dataset.England,
			MedianPay2017: &pay2, AreaSqKm: 53.9, Coastal: dataset.CoastalInland,
			PopDensity: 2606.7,
		},
		{
			AreaCode: "N09000003", AreaName: "Belfast", NumPubs: 211,
			Population: 340200, PubsPerCapita: 0.00062, Country: dataset.NorthernIreland,
			AreaSqKm: 132.5, PopDensity: 2567.5,
		},
	}
	_, err = st.SaveObservations(ctx, obs)
	require.NoError(t, err)
	return st
}

func TestRouter_Health(t *testing.T) {
	r := newRouter(newServeTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_Observations(t *testing.T) {
	r := newRouter(newServeTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/observations", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var obs []dataset.Observation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &obs))
	require.Len(t, obs, 3)
	assert.Equal(t, "Hartlepool", obs[0].AreaName)
}

func TestRouter_Missing(t *testing.T) {
	r := newRouter(newServeTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/missing", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var missing []dataset.MissingColumn
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &missing))
	require.NotEmpty(t, missing)

	byColumn := make(map[dataset.Column][]string)
	for _, m := range missing {
		byColumn[m.Column] = m.Areas
	}
	assert.Equal(t, []string{"Belfast"}, byColumn[dataset.ColMedianPay2017])
}

func TestRouter_Fit(t *testing.T) {
	r := newRouter(newServeTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/fit", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var model stats.Model
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &model))
	assert.Equal(t, 2, model.N)
	assert.Positive(t, model.Slope)
}

func TestRouter_Fit_ExcludeLeavesTooFewRows(t *testing.T) {
	r := newRouter(newServeTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/fit?exclude=Hartlepool", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "error")
}

func TestRouter_Fit_UnknownColumn(t *testing.T) {
	r := newRouter(newServeTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/fit?predictor=beer_price", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_Dictionary(t *testing.T) {
	r := newRouter(newServeTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/dictionary", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var dict dataset.Dictionary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dict))
	require.NotEmpty(t, dict.Fields)

	doc, ok := dict.Describe(dataset.ColMedianPay2017)
	require.True(t, ok)
	assert.NotEmpty(t, doc.Description)
}

func TestRouter_Fits(t *testing.T) {
	st := newServeTestStore(t)
	r := newRouter(st)

	snap := &store.FitSnapshot{
		Model: stats.Model{
			Response:  dataset.ColPubsPerCapita,
			Predictor: dataset.ColMedianPay2017,
			Slope:     -2.3e-8,
			N:         2,
		},
		Excluded: []string{"City of London"},
	}
	require.NoError(t, st.SaveFit(context.Background(), snap))

	req := httptest.NewRequest(http.MethodGet, "/api/fits", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var fits []store.FitSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fits))
	require.Len(t, fits, 1)
	assert.Equal(t, []string{"City of London"}, fits[0].Excluded)
}
