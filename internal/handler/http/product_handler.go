package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vasiliy-maslov/grocery-pos/internal/catalog"
)

type CreateProductRequest struct {
	Name          string          `json:"product_name" validate:"required,max=100"`
	CategoryID    *int64          `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	SupplierID    *int64          `json:"supplier_id,omitempty" validate:"omitempty,gt=0"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	Description   string          `json:"description"`
}

// UpdateProductRequest leaves stock out: stock only moves through orders and
// the inventory endpoint.
type UpdateProductRequest struct {
	Name        string          `json:"product_name" validate:"required,max=100"`
	CategoryID  *int64          `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	SupplierID  *int64          `json:"supplier_id,omitempty" validate:"omitempty,gt=0"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

type ProductResponse struct {
	ID            int64  `json:"product_id"`
	Name          string `json:"product_name"`
	CategoryID    *int64 `json:"category_id,omitempty"`
	SupplierID    *int64 `json:"supplier_id,omitempty"`
	Price         string `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
	Description   string `json:"description"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		SupplierID:    p.SupplierID,
		Price:         p.Price.StringFixed(2),
		StockQuantity: p.StockQuantity,
		Description:   p.Description,
	}
}

type ProductHandler struct {
	service  catalog.Service
	validate *validator.Validate
}

func NewProductHandler(service catalog.Service) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Post("/products", h.handleCreateProduct)
	router.Get("/products", h.handleListProducts)
	router.Get("/products/{id}", h.handleGetProductByID)
	router.Put("/products/{id}", h.handleUpdateProduct)
	router.Delete("/products/{id}", h.handleDeleteProduct)
}

func (h *ProductHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateProductRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload, true) {
		return
	}

	created, err := h.service.CreateProduct(r.Context(), &catalog.Product{
		Name:          requestPayload.Name,
		CategoryID:    requestPayload.CategoryID,
		SupplierID:    requestPayload.SupplierID,
		Price:         requestPayload.Price,
		StockQuantity: requestPayload.StockQuantity,
		Description:   requestPayload.Description,
	})
	if err != nil {
		respondWithServiceError(w, err, "Failed to create product")
		return
	}

	respondWithJSON(w, http.StatusCreated, toProductResponse(created))
}

func (h *ProductHandler) handleGetProductByID(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	p, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get product")
		return
	}

	respondWithJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := catalog.Filter{Search: r.URL.Query().Get("search")}

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			log.Warn().Str("category_id", raw).Msg("Failed to parse category_id query parameter")
			respondWithError(w, http.StatusBadRequest, "Invalid category_id parameter")
			return
		}
		filter.CategoryID = id
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err, "Failed to list products")
		return
	}

	response := make([]ProductResponse, 0, len(products))
	for i := range products {
		response = append(response, toProductResponse(&products[i]))
	}

	respondWithJSON(w, http.StatusOK, response)
}

func (h *ProductHandler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload UpdateProductRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload, true) {
		return
	}

	err := h.service.UpdateProduct(r.Context(), &catalog.Product{
		ID:          productID,
		Name:        requestPayload.Name,
		CategoryID:  requestPayload.CategoryID,
		SupplierID:  requestPayload.SupplierID,
		Price:       requestPayload.Price,
		Description: requestPayload.Description,
	})
	if err != nil {
		respondWithServiceError(w, err, "Failed to update product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), productID); err != nil {
		respondWithServiceError(w, err, "Failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
