package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fjod/decohome/internal/cart"
	"github.com/fjod/decohome/internal/catalog"
	"github.com/fjod/decohome/internal/checkout"
	"github.com/fjod/decohome/internal/clipboard"
	"github.com/fjod/decohome/internal/generator"
	"github.com/fjod/decohome/internal/session"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, code, message string) {
	h.respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError maps domain errors onto HTTP status codes.
func (h *Handler) handleError(w http.ResponseWriter, err error) {
	var vErr *checkout.ValidationError
	if errors.As(err, &vErr) {
		h.respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   vErr.Message,
			Code:    "validation_failed",
			Details: strings.Join(vErr.Fields, ","),
		})
		return
	}

	var httpStatus int
	var code string

	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		httpStatus = http.StatusBadRequest
		code = "invalid_quantity"
	case errors.Is(err, catalog.ErrProductNotFound):
		httpStatus = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, session.ErrIllegalTransition):
		httpStatus = http.StatusConflict
		code = "illegal_transition"
	case errors.Is(err, session.ErrEmptyCart):
		httpStatus = http.StatusConflict
		code = "empty_cart"
	case errors.Is(err, generator.ErrExternalService):
		httpStatus = http.StatusServiceUnavailable
		code = "service_unavailable"
	case errors.Is(err, clipboard.ErrClipboard), errors.Is(err, catalog.ErrShare):
		httpStatus = http.StatusInternalServerError
		code = "share_failed"
	default:
		h.logger.Error("unhandled error", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	h.respondError(w, httpStatus, code, err.Error())
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
