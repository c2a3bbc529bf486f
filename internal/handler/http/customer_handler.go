package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/vasiliy-maslov/grocery-pos/internal/customer"
)

type CustomerRequest struct {
	Name    string `json:"customer_name" validate:"required,max=100"`
	Contact string `json:"contact" validate:"max=50"`
	Address string `json:"address" validate:"max=255"`
}

type CustomerHandler struct {
	service  customer.Service
	validate *validator.Validate
}

func NewCustomerHandler(service customer.Service) *CustomerHandler {
	return &CustomerHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *CustomerHandler) RegisterRoutes(router chi.Router) {
	router.Post("/customers", h.handleCreateCustomer)
	router.Get("/customers", h.handleListCustomers)
	router.Get("/customers/{id}", h.handleGetCustomerByID)
	router.Put("/customers/{id}", h.handleUpdateCustomer)
	router.Delete("/customers/{id}", h.handleDeleteCustomer)
}

func (h *CustomerHandler) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var requestPayload CustomerRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload, true) {
		return
	}

	created, err := h.service.CreateCustomer(r.Context(), &customer.Customer{
		Name:    requestPayload.Name,
		Contact: requestPayload.Contact,
		Address: requestPayload.Address,
	})
	if err != nil {
		respondWithServiceError(w, err, "Failed to create customer")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *CustomerHandler) handleGetCustomerByID(w http.ResponseWriter, r *http.Request) {
	customerID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	c, err := h.service.GetCustomerByID(r.Context(), customerID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get customer")
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "Failed to list customers")
		return
	}

	respondWithJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload CustomerRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload, true) {
		return
	}

	err := h.service.UpdateCustomer(r.Context(), &customer.Customer{
		ID:      customerID,
		Name:    requestPayload.Name,
		Contact: requestPayload.Contact,
		Address: requestPayload.Address,
	})
	if err != nil {
		respondWithServiceError(w, err, "Failed to update customer")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), customerID); err != nil {
		respondWithServiceError(w, err, "Failed to delete customer")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
