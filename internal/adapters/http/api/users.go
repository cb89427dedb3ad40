package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/birdhunt/internal/domain/model"
)

type medalsResponse struct {
	User   string `json:"user"`
	Gold   int    `json:"gold"`
	Silver int    `json:"silver"`
	Bronze int    `json:"bronze"`
	Total  int    `json:"total"`
}

func userParam(r *http.Request) (string, error) {
	user := strings.TrimSpace(chi.URLParam(r, "user"))
	if user == "" {
		return "", errors.New("missing user")
	}
	return user, nil
}

// handleUserStats serves GET /users/{user}/stats.
func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.user_stats"
	user, err := userParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}
	stats, err := s.deps.UserStats(r.Context(), user)
	if err != nil {
		s.writeServiceError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleUserMedals serves GET /users/{user}/medals.
func (s *Server) handleUserMedals(w http.ResponseWriter, r *http.Request) {
	const op = "api.user_medals"
	user, err := userParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}
	m, err := s.deps.LifetimeMedals(r.Context(), user)
	if err != nil {
		s.writeServiceError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, medalsResponse{
		User:   model.NormalizeUser(user),
		Gold:   m.Gold,
		Silver: m.Silver,
		Bronze: m.Bronze,
		Total:  m.Total(),
	})
}

// handleUserSpecies serves GET /users/{user}/species.
func (s *Server) handleUserSpecies(w http.ResponseWriter, r *http.Request) {
	const op = "api.user_species"
	user, err := userParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}
	tiers, err := s.deps.LifetimeSpecies(r.Context(), user)
	if err != nil {
		s.writeServiceError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, tiers)
}
