package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dean3213321/pos-go/internal/domain"
)

type UpdateOrderStatusRequestDTO struct {
	Status domain.OrderStatus `json:"status"`
}

// GetBoard returns the current kitchen board snapshot. This is the polling
// fallback for screens that cannot hold an event stream open.
func (s *Server) GetBoard(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.board.Snapshot())
}

// BoardFeed streams board snapshots as server-sent events. Each poll cycle
// that changes the board pushes one full snapshot; the stream ends when the
// screen disconnects.
func (s *Server) BoardFeed(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusNotImplemented, "streaming_unsupported", "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	snapshots, cancel := s.board.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-snapshots:
			data, err := json.Marshal(snap)
			if err != nil {
				s.log.Error("board snapshot encode failed", zap.Error(err))
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// UpdateOrderStatus advances an order on the kitchen board, e.g. Preparing to
// Serving when the tray goes out.
func (s *Server) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	var req UpdateOrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	switch req.Status {
	case domain.StatusPreparing, domain.StatusServing, domain.StatusCompleted, domain.StatusCancelled:
	default:
		s.respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if err := s.admin.UpdateOrderStatus(r.Context(), orderNumber, req.Status); err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"orderNumber": orderNumber, "status": string(req.Status)})
}
