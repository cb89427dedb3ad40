package api

import (
	"net/http"
	"strings"

	"github.com/okian/birdhunt/internal/domain/catalog"
)

type speciesResponse struct {
	Name        string `json:"name"`
	Points      int    `json:"points"`
	Tier        string `json:"tier"`
	Color       string `json:"color"`
	Family      string `json:"family,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url"`
}

func toSpeciesResponse(sp catalog.Species) speciesResponse {
	return speciesResponse{
		Name:        sp.Name,
		Points:      sp.Points,
		Tier:        string(sp.Tier),
		Color:       sp.Tier.Color(),
		Family:      sp.Family,
		Description: sp.Description,
		ImageURL:    catalog.ImageURL(sp.Name),
	}
}

// handleCatalog serves GET /catalog, optionally fuzzy-filtered by ?q=.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.deps.Catalog()
	species := cat.Species()
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		species = cat.Search(q)
	}
	out := make([]speciesResponse, 0, len(species))
	for _, sp := range species {
		out = append(out, toSpeciesResponse(sp))
	}
	writeJSON(w, http.StatusOK, out)
}
