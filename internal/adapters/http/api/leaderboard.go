package api

import (
	"context"
	"net/http"

	"github.com/okian/birdhunt/internal/domain/types"
)

type leaderboardFunc func(ctx context.Context, limit int) ([]types.Entry, error)

// handleLeaderboard serves GET /leaderboard/{weekly,lifetime}?limit=N.
func (s *Server) handleLeaderboard(fetch leaderboardFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "api.get_leaderboard"
		n, err := s.parseLimit(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
			return
		}
		entries, err := fetch(r.Context(), n)
		if err != nil {
			s.writeServiceError(w, r, op, err)
			return
		}
		if entries == nil {
			entries = []types.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// handleMedalHistory serves GET /medals/history.
func (s *Server) handleMedalHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.deps.MedalHistory(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "api.medal_history", err)
		return
	}
	if history == nil {
		history = []types.WeekPodium{}
	}
	writeJSON(w, http.StatusOK, history)
}
