package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/brushtyler/pricesdropbot/internal/history"
	"github.com/brushtyler/pricesdropbot/internal/models"
)

// Reconciler is the controller surface the admin API drives. Reconcile
// takes no context on purpose: monitor lifetimes belong to the controller,
// not to the request that triggered the reload.
type Reconciler interface {
	List() []models.ProductSpec
	Reconcile(desired []models.ProductSpec)
}

// ProductLoader supplies the desired product set, typically from
// products.toml.
type ProductLoader interface {
	LoadAll() ([]models.ProductSpec, error)
}

type AdminHandler struct {
	reconciler Reconciler
	loader     ProductLoader
	store      history.Store
}

func NewAdminHandler(reconciler Reconciler, loader ProductLoader, store history.Store) *AdminHandler {
	return &AdminHandler{reconciler: reconciler, loader: loader, store: store}
}

// ListProducts returns the currently monitored products
// GET /api/products
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.reconciler.List())
}

// GetHistory returns the recorded price series for a product
// GET /api/products/{asin}/history
func (h *AdminHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	asin := chi.URLParam(r, "asin")
	if asin == "" {
		http.Error(w, "ASIN is required", http.StatusBadRequest)
		return
	}

	points, err := h.store.LoadAll(r.Context(), asin)
	if err != nil {
		http.Error(w, "Failed to load history: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if points == nil {
		points = []models.PricePoint{}
	}
	writeJSON(w, points)
}

// Reload re-reads the products file and reconciles the active monitors
// POST /api/reload
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	desired, err := h.loader.LoadAll()
	if err != nil {
		log.Warn().Err(err).Msg("Reload rejected, products file unreadable")
		http.Error(w, "Failed to load products: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	h.reconciler.Reconcile(desired)
	writeJSON(w, h.reconciler.List())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}
