package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/grocery-pos/internal/catalog"
	"github.com/vasiliy-maslov/grocery-pos/internal/category"
	"github.com/vasiliy-maslov/grocery-pos/internal/customer"
	"github.com/vasiliy-maslov/grocery-pos/internal/inventory"
	"github.com/vasiliy-maslov/grocery-pos/internal/order"
	"github.com/vasiliy-maslov/grocery-pos/internal/payment"
	"github.com/vasiliy-maslov/grocery-pos/internal/supplier"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	ProductID *int64 `json:"product_id,omitempty"`
	Available *int   `json:"available,omitempty"`
}

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, order.ErrInvalidInput),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, customer.ErrInvalidCustomer),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, payment.ErrInvalidPayment),
		errors.Is(err, category.ErrInvalidCategory),
		errors.Is(err, supplier.ErrInvalidSupplier):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, order.ErrCustomerNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, payment.ErrOrderNotFound),
		errors.Is(err, category.ErrNotFound),
		errors.Is(err, supplier.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInsufficientStock),
		errors.Is(err, catalog.ErrProductInUse),
		errors.Is(err, category.ErrDuplicate),
		errors.Is(err, category.ErrInUse),
		errors.Is(err, supplier.ErrInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError writes the status for err. Client errors carry the
// error text; anything unexpected is reported with the generic fallback only.
func respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	code := mapErrorToStatusCode(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Msg(fallback)
		respondWithError(w, code, fallback)
		return
	}

	log.Warn().Err(err).Int("status", code).Msg("Request rejected")

	resp := ErrorResponse{Error: err.Error()}
	var productErr *order.ProductError
	if errors.As(err, &productErr) {
		resp.ProductID = &productErr.ProductID
		if errors.Is(productErr, order.ErrInsufficientStock) {
			resp.Available = &productErr.Available
		}
	}
	respondWithJSON(w, code, resp)
}

func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			details[field] = "is required"
		case "gt", "gte", "min":
			details[field] = fmt.Sprintf("must be at least %s", minBound(fe))
		case "max":
			details[field] = fmt.Sprintf("must be at most %s", fe.Param())
		case "oneof":
			details[field] = fmt.Sprintf("must be one of [%s]", fe.Param())
		default:
			details[field] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		}
	}
	return details
}

func minBound(fe validator.FieldError) string {
	if fe.Tag() != "gt" {
		return fe.Param()
	}
	n, err := strconv.Atoi(fe.Param())
	if err != nil {
		return fe.Param()
	}
	return strconv.Itoa(n + 1)
}

// decodeAndValidate decodes the body into dst and runs struct validation. It
// writes the error response itself and reports whether the caller may go on.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}, strict bool) bool {
	decoder := json.NewDecoder(r.Body)
	if strict {
		decoder.DisallowUnknownFields()
	}

	if err := decoder.Decode(dst); err != nil {
		log.Warn().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return false
	}

	if err := v.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: formatValidationErrors(validationErrors),
			})
		} else {
			log.Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return false
	}

	return true
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	param := chi.URLParam(r, name)
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		log.Warn().Str(name, param).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s parameter", name))
		return 0, false
	}
	return id, true
}
