package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/vasiliy-maslov/grocery-pos/internal/order"
)

type OrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderRequest has no price fields. Prices sent by older clients are
// ignored, the catalog price is always charged.
type PlaceOrderRequest struct {
	CustomerID int64              `json:"customer_id" validate:"required,gt=0"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderItemResponse struct {
	ID          int64  `json:"order_item_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type OrderResponse struct {
	ID          int64               `json:"order_id"`
	CustomerID  int64               `json:"customer_id"`
	TotalAmount string              `json:"total_amount"`
	OrderDate   time.Time           `json:"order_date"`
	Items       []OrderItemResponse `json:"items"`
}

type OrderSummaryResponse struct {
	ID            int64     `json:"order_id"`
	CustomerID    int64     `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	TotalAmount   string    `json:"total_amount"`
	OrderDate     time.Time `json:"order_date"`
	PaymentMethod *string   `json:"payment_method"`
	Status        string    `json:"status"`
}

type OrderHistoryResponse struct {
	ID          int64     `json:"order_id"`
	TotalAmount string    `json:"total_amount"`
	OrderDate   time.Time `json:"order_date"`
	Status      string    `json:"status"`
	ItemCount   int       `json:"item_count"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handlePlaceOrder)
	router.Get("/orders", h.handleListOrders)
	router.Get("/orders/{id}", h.handleGetOrderByID)
	router.Delete("/orders/{id}", h.handleDeleteOrder)
	router.Get("/customers/{id}/history", h.handleCustomerHistory)
}

func toItemResponses(items []order.OrderItem) []OrderItemResponse {
	out := make([]OrderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.StringFixed(2),
			Subtotal:    it.Subtotal.StringFixed(2),
		})
	}
	return out
}

func (h *OrderHandler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload PlaceOrderRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload, false) {
		return
	}

	lines := make([]order.LineRequest, 0, len(requestPayload.Items))
	for _, it := range requestPayload.Items {
		lines = append(lines, order.LineRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	placement, err := h.service.PlaceOrder(r.Context(), requestPayload.CustomerID, lines)
	if err != nil {
		respondWithServiceError(w, err, "Failed to place order")
		return
	}

	respondWithJSON(w, http.StatusCreated, OrderResponse{
		ID:          placement.OrderID,
		CustomerID:  placement.CustomerID,
		TotalAmount: placement.TotalAmount.StringFixed(2),
		OrderDate:   placement.OrderDate,
		Items:       toItemResponses(placement.Items),
	})
}

func (h *OrderHandler) handleGetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	o, err := h.service.GetOrderByID(r.Context(), orderID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, OrderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount.StringFixed(2),
		OrderDate:   o.OrderDate,
		Items:       toItemResponses(o.Items),
	})
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "Failed to list orders")
		return
	}

	response := make([]OrderSummaryResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, OrderSummaryResponse{
			ID:            o.ID,
			CustomerID:    o.CustomerID,
			CustomerName:  o.CustomerName,
			TotalAmount:   o.TotalAmount.StringFixed(2),
			OrderDate:     o.OrderDate,
			PaymentMethod: o.PaymentMethod,
			Status:        o.Status,
		})
	}

	respondWithJSON(w, http.StatusOK, response)
}

func (h *OrderHandler) handleCustomerHistory(w http.ResponseWriter, r *http.Request) {
	customerID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	history, err := h.service.CustomerHistory(r.Context(), customerID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get customer history")
		return
	}

	response := make([]OrderHistoryResponse, 0, len(history))
	for _, e := range history {
		response = append(response, OrderHistoryResponse{
			ID:          e.OrderID,
			TotalAmount: e.TotalAmount.StringFixed(2),
			OrderDate:   e.OrderDate,
			Status:      e.Status,
			ItemCount:   e.ItemCount,
		})
	}

	respondWithJSON(w, http.StatusOK, response)
}

func (h *OrderHandler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), orderID); err != nil {
		respondWithServiceError(w, err, "Failed to delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
