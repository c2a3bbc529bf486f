package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/vasiliy-maslov/grocery-pos/internal/supplier"
)

type SupplierRequest struct {
	Name    string `json:"supplier_name" validate:"required,max=150"`
	Phone   string `json:"phone" validate:"max=30"`
	Email   string `json:"email" validate:"omitempty,email,max=150"`
	Address string `json:"address"`
}

func (req SupplierRequest) toSupplier(id int64) *supplier.Supplier {
	return &supplier.Supplier{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}
}

type SupplierHandler struct {
	service  supplier.Service
	validate *validator.Validate
}

func NewSupplierHandler(service supplier.Service) *SupplierHandler {
	return &SupplierHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *SupplierHandler) RegisterRoutes(router chi.Router) {
	router.Get("/suppliers", h.handleListSuppliers)
	router.Post("/suppliers", h.handleCreateSupplier)
	router.Put("/suppliers/{id}", h.handleUpdateSupplier)
	router.Delete("/suppliers/{id}", h.handleDeleteSupplier)
}

func (h *SupplierHandler) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.ListSuppliers(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "Failed to list suppliers")
		return
	}

	respondWithJSON(w, http.StatusOK, suppliers)
}

func (h *SupplierHandler) handleCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var requestPayload SupplierRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload, true) {
		return
	}

	created, err := h.service.CreateSupplier(r.Context(), requestPayload.toSupplier(0))
	if err != nil {
		respondWithServiceError(w, err, "Failed to create supplier")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *SupplierHandler) handleUpdateSupplier(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload SupplierRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload, true) {
		return
	}

	if err := h.service.UpdateSupplier(r.Context(), requestPayload.toSupplier(supplierID)); err != nil {
		respondWithServiceError(w, err, "Failed to update supplier")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SupplierHandler) handleDeleteSupplier(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSupplier(r.Context(), supplierID); err != nil {
		respondWithServiceError(w, err, "Failed to delete supplier")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
