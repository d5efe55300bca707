package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dean3213321/pos-go/internal/cart"
	"github.com/dean3213321/pos-go/internal/domain"
)

// AddItemRequestDTO is the catalog card the terminal tapped: the stock count
// rides along so the cart can enforce the limit without a re-fetch.
type AddItemRequestDTO struct {
	ID    int64        `json:"id"`
	Name  string       `json:"name"`
	Price domain.Price `json:"price"`
	Stock int          `json:"stock"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type SetMethodRequestDTO struct {
	Method domain.PaymentMethod `json:"method"`
}

type HoldRequestDTO struct {
	Op cart.HoldOp `json:"op"`
}

// CartLineDTO is a cart line with its formatted money fields.
type CartLineDTO struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Price    domain.Price `json:"price"`
	Display  string       `json:"display"`
	Quantity int          `json:"quantity"`
	Stock    int          `json:"stock"`
	Subtotal float64      `json:"subtotal"`
}

type CartResponseDTO struct {
	Items        []CartLineDTO        `json:"items"`
	Total        float64              `json:"total"`
	TotalDisplay string               `json:"totalDisplay"`
	Method       domain.PaymentMethod `json:"method"`
}

func (s *Server) session(r *http.Request) *cart.Session {
	return s.store.Get(sessionID(r.Context()))
}

func cartResponse(sess *cart.Session) CartResponseDTO {
	lines := sess.Lines()
	items := make([]CartLineDTO, len(lines))
	for i, l := range lines {
		items[i] = CartLineDTO{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.UnitPrice,
			Display:  l.UnitPrice.Format(),
			Quantity: l.Quantity,
			Stock:    l.StockLimit,
			Subtotal: l.Subtotal(),
		}
	}
	total := sess.Total()
	return CartResponseDTO{
		Items:        items,
		Total:        total,
		TotalDisplay: domain.FormatAmount(total),
		Method:       sess.Method(),
	}
}

func (s *Server) GetCart(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, cartResponse(s.session(r)))
}

func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ID <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid_item_id", "id must be positive")
		return
	}

	sess := s.session(r)
	sess.Add(domain.CatalogItem{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Stock,
	})
	s.respondJSON(w, http.StatusCreated, cartResponse(sess))
}

func (s *Server) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_item_id", "id must be a positive integer")
		return
	}
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess := s.session(r)
	sess.SetQuantity(id, req.Quantity)
	s.respondJSON(w, http.StatusOK, cartResponse(sess))
}

func (s *Server) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_item_id", "id must be a positive integer")
		return
	}

	sess := s.session(r)
	sess.Remove(id)
	s.respondJSON(w, http.StatusOK, cartResponse(sess))
}

func (s *Server) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	sess.ClearAll()
	s.respondJSON(w, http.StatusOK, cartResponse(sess))
}

func (s *Server) SetMethod(w http.ResponseWriter, r *http.Request) {
	var req SetMethodRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Method != domain.PaymentCash && req.Method != domain.PaymentWispay {
		s.respondError(w, http.StatusBadRequest, "invalid_method", "method must be Cash or Wispay")
		return
	}

	sess := s.session(r)
	sess.SetMethod(req.Method)
	s.respondJSON(w, http.StatusOK, cartResponse(sess))
}

// PressHold starts a press-and-hold gesture on a quantity stepper. One
// immediate step fires; repeats follow while the press is held.
func (s *Server) PressHold(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_item_id", "id must be a positive integer")
		return
	}
	var req HoldRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Op != cart.HoldIncrement && req.Op != cart.HoldDecrement {
		s.respondError(w, http.StatusBadRequest, "invalid_op", "op must be increment or decrement")
		return
	}

	sess := s.session(r)
	sess.Hold().Press(id, req.Op)
	s.respondJSON(w, http.StatusOK, cartResponse(sess))
}

// ReleaseHold ends the gesture. Pointer-up, pointer-leave and touch-end all
// land here.
func (s *Server) ReleaseHold(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	sess.Hold().Release()
	s.respondJSON(w, http.StatusOK, cartResponse(sess))
}

func itemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
