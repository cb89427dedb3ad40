package api

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/okian/birdhunt/internal/domain/types"
)

type identifyRequest struct {
	Description string `json:"description"`
}

type identifyResponse struct {
	Suggestions []types.Suggestion `json:"suggestions"`
}

// handleIdentify serves POST /identify. Classifier trouble never surfaces as
// an error; the caller just gets no suggestions.
func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	const op = "api.identify"
	var req identifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, errors.New("missing description")))
		return
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLength {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, errors.New("description too long")))
		return
	}

	out := s.deps.Suggest(r.Context(), desc)
	if out == nil {
		out = []types.Suggestion{}
	}
	writeJSON(w, http.StatusOK, identifyResponse{Suggestions: out})
}
