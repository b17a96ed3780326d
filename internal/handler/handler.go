package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/taxfree/card-wallet/internal/models"
	"github.com/taxfree/card-wallet/internal/service"
)

// Handler wires HTTP routes to the service layer
type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// envelope is the uniform response shape: {success, data?, error?, message?}
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Health reports process liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running"})
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: true, Message: msg})
}

func respondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondServiceError maps service-layer errors to HTTP statuses. Anything
// outside the taxonomy is logged in full and answered with a generic 500:
// internal detail never reaches the response body.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		respondError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, models.ErrDuplicateEmail):
		respondError(w, http.StatusBadRequest, "email already registered")
	case errors.Is(err, models.ErrDuplicateBarcode):
		respondError(w, http.StatusBadRequest, "barcode already exists")
	case errors.Is(err, models.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, notFoundMsg)
	default:
		h.log.WithError(err).Error("request failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// validationMessage strips the sentinel prefix so the client sees only the
// human-readable detail.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := models.ErrValidation.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return msg
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
