package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmdelacruz/pharmacy-inventory/internal/models"
	"github.com/jmdelacruz/pharmacy-inventory/internal/utils"
)

type productRequest struct {
	Name       string  `json:"name"`
	SKU        string  `json:"sku"`
	Category   *string `json:"category"`
	SupplierID *int64  `json:"supplier_id"`
	Stock      int     `json:"stock"`
	Price      float64 `json:"price"`
	ExpiryDate string  `json:"expiry_date"`
}

type productUpdateRequest struct {
	Name       *string  `json:"name"`
	SKU        *string  `json:"sku"`
	Category   *string  `json:"category"`
	SupplierID *int64   `json:"supplier_id"`
	Stock      *int     `json:"stock"`
	Price      *float64 `json:"price"`
	ExpiryDate *string  `json:"expiry_date"`
}

// CreateProduct handles product creation
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.SKU == "" || req.Price == 0 || req.ExpiryDate == "" {
		respondError(w, http.StatusBadRequest, "Field (name, sku, price and expiry_date) is required")
		return
	}

	expiry, err := parseDate(req.ExpiryDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid expiry_date format")
		return
	}

	product := &models.Product{
		Name:       req.Name,
		SKU:        req.SKU,
		Category:   req.Category,
		SupplierID: req.SupplierID,
		Stock:      req.Stock,
		Price:      req.Price,
		ExpiryDate: expiry,
	}
	created, err := h.inventory.CreateProduct(product)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles partial product updates
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	var req productUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	upd := models.ProductUpdate{
		Name:       req.Name,
		SKU:        req.SKU,
		Category:   req.Category,
		SupplierID: req.SupplierID,
		Stock:      req.Stock,
		Price:      req.Price,
	}
	if req.ExpiryDate != nil {
		expiry, err := parseDate(*req.ExpiryDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid expiry_date format")
			return
		}
		upd.ExpiryDate = expiry
	}

	product, err := h.inventory.UpdateProduct(id, upd)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// ArchiveProduct handles product archival
func (h *Handler) ArchiveProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	if err := h.inventory.ArchiveProduct(id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchProduct looks up a product by exact SKU or name substring
func (h *Handler) SearchProduct(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Product SKU or name is required")
		return
	}

	product, err := h.inventory.FindBySKUOrName(query)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// ListProducts returns one page of products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, limit := utils.ParsePagination(r)
	result, err := h.inventory.ListProducts(page, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// InventorySummary returns the aggregate inventory report
func (h *Handler) InventorySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.inventory.GetSummary()
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func pathID(r *http.Request) (int64, error) {
	raw, ok := mux.Vars(r)["id"]
	if !ok {
		return 0, fmt.Errorf("missing id")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// parseDate accepts a plain calendar date or a full RFC 3339 timestamp
func parseDate(value string) (*time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
