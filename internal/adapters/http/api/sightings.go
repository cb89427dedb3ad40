package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/okian/birdhunt/internal/domain/model"
)

// sightingRequest mirrors the OpenAPI schema for POST /sightings.
type sightingRequest struct {
	User string `json:"user"`
	Bird string `json:"bird"`
}

func (req sightingRequest) validate() error {
	switch {
	case strings.TrimSpace(req.User) == "":
		return errors.New("missing user")
	case strings.TrimSpace(req.Bird) == "":
		return errors.New("missing bird")
	case utf8.RuneCountInString(req.User) > maxUserOrBirdLength:
		return errors.New("user too long")
	case utf8.RuneCountInString(req.Bird) > maxUserOrBirdLength:
		return errors.New("bird too long")
	}
	return nil
}

type sightingResponse struct {
	Status      string        `json:"status"`
	User        string        `json:"user"`
	Bird        string        `json:"bird"`
	Points      int           `json:"points"`
	Week        model.WeekKey `json:"week"`
	Message     string        `json:"message"`
	Celebration string        `json:"celebration,omitempty"`
}

// handleConfirm serves POST /sightings. A repeat within the week is a 200
// with status "duplicate"; a new sighting is a 201.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	const op = "api.confirm_sighting"
	var req sightingRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}

	c, err := s.deps.ConfirmSighting(r.Context(), req.User, req.Bird)
	if err != nil {
		s.writeServiceError(w, r, op, err)
		return
	}

	resp := sightingResponse{
		Status:      "accepted",
		User:        c.User,
		Bird:        c.Bird,
		Points:      c.Points,
		Week:        c.Week,
		Message:     c.Message,
		Celebration: c.Celebration,
	}
	if !c.Accepted {
		resp.Status = "duplicate"
		writeJSON(w, http.StatusOK, resp)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// decodeBody reads a single bounded JSON document into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
