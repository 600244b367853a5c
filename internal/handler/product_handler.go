package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"product-catalog/internal/model"
	"product-catalog/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.CatalogService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products: filtered, sorted, paginated products plus
// facet breakdowns. Malformed optional parameters are normalized to
// defaults rather than rejected.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ServerErrorResponse{Error: "method not allowed"})
		return
	}

	filter := parseFilter(r.URL.Query())

	result, err := h.service.Search(r.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("product search failed")
		writeJSON(w, http.StatusInternalServerError, ServerErrorResponse{
			Error:   "Server error",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ServerErrorResponse{Error: "method not allowed"})
		return
	}

	// Expecting path: /api/products/{id}
	idStr := strings.TrimPrefix(r.URL.Path, "/api/products/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		// an unparseable identifier cannot match any row
		writeMessage(w, http.StatusNotFound, "Product not found", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeMessage(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}
		h.logger.Error().Err(err).Int64("product_id", id).Msg("product lookup failed")
		writeMessage(w, http.StatusInternalServerError, "Server error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
