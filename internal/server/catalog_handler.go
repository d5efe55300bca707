package server

import (
	"net/http"
)

// GetCategories proxies the sidebar category list.
func (s *Server) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, categories)
}

// GetItems proxies the item grid for one category. Without a category it
// returns everything, which the admin list view uses.
func (s *Server) GetItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.Items(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"data": items})
}

// GetCatalogVersion reports the refresh counter. The catalog view polls it
// and re-fetches items when the number moves, which happens after every
// completed order.
func (s *Server) GetCatalogVersion(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]uint64{"version": s.refresh.Version()})
}
