package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmdelacruz/pharmacy-inventory/internal/config"
	"github.com/jmdelacruz/pharmacy-inventory/internal/models"
	"github.com/jmdelacruz/pharmacy-inventory/internal/service"
	"github.com/sirupsen/logrus"
)

// Handler maps HTTP requests onto the core services
type Handler struct {
	auth      *service.AuthService
	inventory *service.InventoryService
	cfg       *config.Config
	log       *logrus.Logger
}

// NewHandler initializes a new handler
func NewHandler(auth *service.AuthService, inventory *service.InventoryService, cfg *config.Config, log *logrus.Logger) *Handler {
	return &Handler{auth: auth, inventory: inventory, cfg: cfg, log: log}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError translates core error kinds to HTTP status codes.
// Unexpected errors are logged in full server-side and surface as a
// generic message.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDuplicateUsername):
		respondError(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, models.ErrDuplicateSKU):
		respondError(w, http.StatusConflict, "Product with this SKU already exists")
	case errors.Is(err, models.ErrInvalidCredentials):
		respondError(w, http.StatusBadRequest, models.ErrInvalidCredentials.Error())
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	default:
		h.log.Errorf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
	}
}
