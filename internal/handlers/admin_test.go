package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brushtyler/pricesdropbot/internal/history"
	"github.com/brushtyler/pricesdropbot/internal/models"
)

type fakeReconciler struct {
	specs      []models.ProductSpec
	reconciled [][]models.ProductSpec
}

func (f *fakeReconciler) List() []models.ProductSpec { return f.specs }

func (f *fakeReconciler) Reconcile(desired []models.ProductSpec) {
	f.reconciled = append(f.reconciled, desired)
	f.specs = desired
}

type fakeLoader struct {
	specs []models.ProductSpec
	err   error
}

func (f *fakeLoader) LoadAll() ([]models.ProductSpec, error) { return f.specs, f.err }

func TestListProducts(t *testing.T) {
	t.Parallel()

	rec := &fakeReconciler{specs: []models.ProductSpec{{ASIN: "B000TEST00", CutPrice: 99.99}}}
	router := NewRouter(NewAdminHandler(rec, &fakeLoader{}, history.NewMemoryStore()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got []models.ProductSpec
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "B000TEST00", got[0].ASIN)
}

func TestGetHistory(t *testing.T) {
	t.Parallel()

	store := history.NewMemoryStore()
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Append(context.Background(), "B000TEST00", models.PricePoint{Price: 120.99, Time: now}))

	router := NewRouter(NewAdminHandler(&fakeReconciler{}, &fakeLoader{}, store))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products/B000TEST00/history", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got []models.PricePoint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.InDelta(t, 120.99, got[0].Price, 0.001)

	// Unknown products return an empty series, not an error.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products/B000MISSING/history", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestReload(t *testing.T) {
	t.Parallel()

	desired := []models.ProductSpec{{ASIN: "B000TEST01", CutPrice: 10}}
	rec := &fakeReconciler{}
	router := NewRouter(NewAdminHandler(rec, &fakeLoader{specs: desired}, history.NewMemoryStore()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/reload", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, rec.reconciled, 1)
	assert.Equal(t, desired, rec.reconciled[0])
}

func TestReloadRejectsBrokenFile(t *testing.T) {
	t.Parallel()

	rec := &fakeReconciler{}
	router := NewRouter(NewAdminHandler(rec, &fakeLoader{err: errors.New("toml parse error")}, history.NewMemoryStore()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/reload", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, rec.reconciled, "a half-read set must never reach reconciliation")
}

func TestHealth(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewAdminHandler(&fakeReconciler{}, &fakeLoader{}, history.NewMemoryStore()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
