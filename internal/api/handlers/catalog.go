package handlers

import (
	"net/http"
	"strconv"

	"github.com/avolkov/orderhub/internal/api/dto"
	"github.com/avolkov/orderhub/internal/catalog"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// Categories handles GET /api/v1/categories
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list categories"})
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Shops handles GET /api/v1/shops
func (h *CatalogHandler) Shops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.catalog.ListShops(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list shops"})
		return
	}
	writeJSON(w, http.StatusOK, shops)
}

// Products handles GET /api/v1/products with optional shop_id and
// category_id filters and page/per_page paging.
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	var filter catalog.ListingFilter

	if raw := r.URL.Query().Get("shop_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid shop_id"})
			return
		}
		filter.ShopID = &id
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid category_id"})
			return
		}
		filter.CategoryID = &id
	}

	pagination := dto.PaginationParams{
		Page:    intQuery(r, "page"),
		PerPage: intQuery(r, "per_page"),
	}
	pagination.Normalize()
	filter.Limit = pagination.PerPage
	filter.Offset = pagination.Offset()

	listings, total, err := h.catalog.SearchListings(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to search products"})
		return
	}

	totalPages := int(total) / pagination.PerPage
	if int(total)%pagination.PerPage > 0 {
		totalPages++
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       listings,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: totalPages,
	})
}

func intQuery(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}
