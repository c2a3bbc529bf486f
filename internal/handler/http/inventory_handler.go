package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/grocery-pos/internal/inventory"
)

type UpdateStockRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  *int  `json:"quantity" validate:"required,gte=0"`
}

type InventoryHandler struct {
	service  inventory.Service
	validate *validator.Validate
}

func NewInventoryHandler(service inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *InventoryHandler) RegisterRoutes(router chi.Router) {
	router.Get("/inventory", h.handleListInventory)
	router.Get("/inventory/low-stock", h.handleLowStock)
	router.Post("/inventory/update", h.handleUpdateStock)
}

func (h *InventoryHandler) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "Failed to list inventory")
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) handleLowStock(w http.ResponseWriter, r *http.Request) {
	threshold := h.service.DefaultThreshold()
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			log.Warn().Str("threshold", raw).Msg("Failed to parse threshold query parameter")
			respondWithError(w, http.StatusBadRequest, "Invalid threshold parameter")
			return
		}
		threshold = n
	}

	items, err := h.service.LowStock(r.Context(), threshold)
	if err != nil {
		respondWithServiceError(w, err, "Failed to list low stock")
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) handleUpdateStock(w http.ResponseWriter, r *http.Request) {
	var requestPayload UpdateStockRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload, true) {
		return
	}

	if err := h.service.SetStock(r.Context(), requestPayload.ProductID, *requestPayload.Quantity); err != nil {
		respondWithServiceError(w, err, "Failed to update stock")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": requestPayload.ProductID,
		"quantity":   *requestPayload.Quantity,
	})
}
