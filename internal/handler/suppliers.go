package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jmdelacruz/pharmacy-inventory/internal/models"
)

type supplierRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// CreateSupplier handles supplier creation
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Supplier name is required")
		return
	}

	supplier, err := h.inventory.CreateSupplier(&models.Supplier{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, supplier)
}

// ListSuppliers returns all suppliers
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.inventory.ListSuppliers()
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if suppliers == nil {
		suppliers = []models.Supplier{}
	}
	respondJSON(w, http.StatusOK, suppliers)
}

// DeleteSupplier removes a supplier; references on products are cleared
func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Supplier ID is required")
		return
	}

	if err := h.inventory.DeleteSupplier(id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
