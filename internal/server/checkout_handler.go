package server

import (
	"encoding/json"
	"net/http"

	"github.com/dean3213321/pos-go/internal/domain"
)

type RFIDRequestDTO struct {
	RFID string `json:"rfid"`
}

type WispayConfirmRequestDTO struct {
	RFID   string   `json:"rfid"`
	Credit *float64 `json:"credit,omitempty"`
}

type CreditResponseDTO struct {
	Credit  float64               `json:"credit"`
	Display string                `json:"display"`
	User    *domain.WispayAccount `json:"user,omitempty"`
}

// ConfirmCheckout opens the confirmation dialog content for a cash order.
func (s *Server) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	preview, err := s.checkout.Confirm(s.session(r))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, preview)
}

// CheckCredit looks up the balance of a scanned card.
func (s *Server) CheckCredit(w http.ResponseWriter, r *http.Request) {
	var req RFIDRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	info, err := s.checkout.CheckCredit(r.Context(), req.RFID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, CreditResponseDTO{
		Credit:  info.Credit,
		Display: domain.FormatAmount(info.Credit),
		User:    info.User,
	})
}

// ConfirmWispay opens the wispay confirmation dialog with the balance
// projection.
func (s *Server) ConfirmWispay(w http.ResponseWriter, r *http.Request) {
	var req WispayConfirmRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	preview, err := s.checkout.ConfirmWispay(s.session(r), req.RFID, req.Credit)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, preview)
}

// SubmitCash places the order for cash payment.
func (s *Server) SubmitCash(w http.ResponseWriter, r *http.Request) {
	result, err := s.checkout.SubmitCash(r.Context(), s.session(r))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

// SubmitWispay debits the card and places the order.
func (s *Server) SubmitWispay(w http.ResponseWriter, r *http.Request) {
	var req RFIDRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := s.checkout.SubmitWispay(r.Context(), s.session(r), req.RFID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}
