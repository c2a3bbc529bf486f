package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/vasiliy-maslov/grocery-pos/internal/payment"
)

type RecordPaymentRequest struct {
	OrderID    int64           `json:"order_id" validate:"required,gt=0"`
	Method     string          `json:"payment_method" validate:"required,max=50"`
	Status     string          `json:"payment_status,omitempty" validate:"omitempty,oneof=Completed Pending Failed"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

type PaymentResponse struct {
	ID          int64     `json:"payment_id"`
	OrderID     int64     `json:"order_id"`
	Method      string    `json:"payment_method"`
	PaymentDate time.Time `json:"payment_date"`
	Status      string    `json:"payment_status"`
	AmountPaid  string    `json:"amount_paid"`
}

func toPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		OrderID:     p.OrderID,
		Method:      p.Method,
		PaymentDate: p.PaymentDate,
		Status:      p.Status,
		AmountPaid:  p.AmountPaid.StringFixed(2),
	}
}

type PaymentHandler struct {
	service  payment.Service
	validate *validator.Validate
}

func NewPaymentHandler(service payment.Service) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *PaymentHandler) RegisterRoutes(router chi.Router) {
	router.Post("/payments", h.handleRecordPayment)
	router.Get("/payments/{orderId}", h.handleListByOrder)
}

func (h *PaymentHandler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var requestPayload RecordPaymentRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload, true) {
		return
	}

	recorded, err := h.service.RecordPayment(r.Context(), &payment.Payment{
		OrderID:    requestPayload.OrderID,
		Method:     requestPayload.Method,
		Status:     requestPayload.Status,
		AmountPaid: requestPayload.AmountPaid,
	})
	if err != nil {
		respondWithServiceError(w, err, "Failed to record payment")
		return
	}

	respondWithJSON(w, http.StatusCreated, toPaymentResponse(recorded))
}

func (h *PaymentHandler) handleListByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r, "orderId")
	if !ok {
		return
	}

	payments, err := h.service.ListByOrder(r.Context(), orderID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to list payments")
		return
	}

	response := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		response = append(response, toPaymentResponse(&payments[i]))
	}

	respondWithJSON(w, http.StatusOK, response)
}
