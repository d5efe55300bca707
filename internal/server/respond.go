package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dean3213321/pos-go/internal/backend"
	"github.com/dean3213321/pos-go/internal/checkout"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleError maps domain and backend errors onto HTTP statuses. Unknown
// errors become a 502: from the terminal's point of view they are all "the
// backend did not take the order".
func (s *Server) handleError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	var notReversed *checkout.DebitNotReversedError
	var reversed *checkout.DebitReversedError

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		s.respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrMissingRFID):
		s.respondError(w, http.StatusBadRequest, "missing_rfid", err.Error())
	case errors.Is(err, checkout.ErrInsufficientBalance):
		s.respondError(w, http.StatusPaymentRequired, "insufficient_balance", err.Error())
	case errors.Is(err, backend.ErrLoginFailed):
		s.respondError(w, http.StatusUnauthorized, "login_failed", err.Error())
	case errors.As(err, &notReversed):
		// The worst case: money moved, order did not. The message carries
		// everything the operator needs to escalate.
		s.respondError(w, http.StatusBadGateway, "debit_not_reversed", notReversed.Error())
	case errors.As(err, &reversed):
		s.respondError(w, http.StatusBadGateway, "order_failed", reversed.Error())
	case errors.As(err, &apiErr):
		s.respondError(w, apiErr.Status, "backend_error", apiErr.Message)
	default:
		s.log.Error("backend call failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, "backend_unreachable", "backend request failed")
	}
}
