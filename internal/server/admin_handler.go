package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/dean3213321/pos-go/internal/backend"
	"github.com/dean3213321/pos-go/internal/domain"
)

const maxUploadSize = 10 << 20 // 10MB photo uploads

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponseDTO struct {
	Token string `json:"token"`
}

type TopUpRequestDTO struct {
	RFID   string  `json:"rfid"`
	Amount float64 `json:"amount"`
}

type TopUpResponseDTO struct {
	RFID       string  `json:"rfid"`
	NewBalance float64 `json:"newBalance"`
	Display    string  `json:"display"`
}

// AdminLogin exchanges credentials for a backend token. The token is handed
// to the browser; this service keeps no admin session state.
func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "missing_credentials", "username and password are required")
		return
	}

	token, err := s.admin.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, LoginResponseDTO{Token: token})
}

func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	form, err := categoryForm(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_form", err.Error())
		return
	}
	if form.Name == "" {
		s.respondError(w, http.StatusBadRequest, "missing_name", "name is required")
		return
	}

	category, err := s.admin.CreateCategory(r.Context(), form)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, category)
}

func (s *Server) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}
	form, err := categoryForm(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_form", err.Error())
		return
	}

	if err := s.admin.UpdateCategory(r.Context(), id, form); err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}
	if err := s.admin.DeleteCategory(r.Context(), id); err != nil {
		s.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) CreateItem(w http.ResponseWriter, r *http.Request) {
	form, err := itemForm(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_form", err.Error())
		return
	}
	if form.Name == "" || form.Price == "" || form.Category == "" {
		s.respondError(w, http.StatusBadRequest, "missing_fields", "name, price and category are required")
		return
	}
	if _, err := strconv.ParseFloat(form.Price, 64); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_price", "price must be numeric")
		return
	}

	item, err := s.admin.CreateItem(r.Context(), form)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, item)
}

func (s *Server) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}
	form, err := itemForm(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_form", err.Error())
		return
	}

	if err := s.admin.UpdateItem(r.Context(), id, form); err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}
	if err := s.admin.DeleteItem(r.Context(), id); err != nil {
		s.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetWispayUsers serves the admin account list, cache-first.
func (s *Server) GetWispayUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.wispay.Users(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// TopUpWispay credits an account and drops the cached list so the admin
// screen shows the new balance immediately.
func (s *Server) TopUpWispay(w http.ResponseWriter, r *http.Request) {
	var req TopUpRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.RFID == "" {
		s.respondError(w, http.StatusBadRequest, "missing_rfid", "rfid is required")
		return
	}
	if req.Amount <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid_amount", "amount must be positive")
		return
	}

	newBalance, err := s.admin.AddWispayCredit(r.Context(), req.RFID, req.Amount)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.wispay.Invalidate(r.Context())

	s.respondJSON(w, http.StatusOK, TopUpResponseDTO{
		RFID:       req.RFID,
		NewBalance: newBalance,
		Display:    domain.FormatAmount(newBalance),
	})
}

func categoryForm(r *http.Request) (backend.CategoryForm, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return backend.CategoryForm{}, err
	}
	form := backend.CategoryForm{Name: r.FormValue("name")}
	photo, name, err := formPhoto(r)
	if err != nil {
		return backend.CategoryForm{}, err
	}
	form.Photo = photo
	form.PhotoName = name
	return form, nil
}

func itemForm(r *http.Request) (backend.ItemForm, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return backend.ItemForm{}, err
	}
	form := backend.ItemForm{
		Name:     r.FormValue("name"),
		Price:    r.FormValue("price"),
		Category: r.FormValue("category"),
	}
	photo, name, err := formPhoto(r)
	if err != nil {
		return backend.ItemForm{}, err
	}
	form.Photo = photo
	form.PhotoName = name
	return form, nil
}

// formPhoto reads the optional photo part. Absent photo means fields-only,
// which edits use to keep the existing image.
func formPhoto(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("photo")
	if err == http.ErrMissingFile {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}
