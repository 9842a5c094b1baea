package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

// RosterDependencies defines the interface for attorney roster access.
type RosterDependencies interface {
	ListRoster(ctx context.Context) ([]model.Attorney, error)
	ReplaceRoster(ctx context.Context, roster []model.Attorney) error
}

// RosterHandler handles attorney roster requests.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

type attorneyRequest struct {
	Name            string `json:"name"`
	YearsExperience int    `json:"years_experience"`
	IsParalegal     bool   `json:"is_paralegal"`
}

func (a attorneyRequest) validate() error {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return errors.New("missing name")
	case a.YearsExperience < 0:
		return errors.New("years_experience must not be negative")
	}
	return nil
}

// HandleGetRoster handles GET /attorneys requests.
func (h *RosterHandler) HandleGetRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_roster"
	roster, err := h.deps.ListRoster(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	out := make([]attorneyRequest, 0, len(roster))
	for _, a := range roster {
		out = append(out, attorneyRequest{
			Name:            a.Name,
			YearsExperience: a.YearsExperience,
			IsParalegal:     a.IsParalegal,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandlePutRoster handles PUT /attorneys requests. The body replaces the
// whole roster.
func (h *RosterHandler) HandlePutRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_roster"
	var reqs []attorneyRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	roster := make([]model.Attorney, 0, len(reqs))
	names := make(map[string]struct{}, len(reqs))
	for i, req := range reqs {
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("attorney %d: %w", i, err)))
			return
		}
		if _, ok := names[req.Name]; ok {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("duplicate attorney %q", req.Name)))
			return
		}
		names[req.Name] = struct{}{}
		roster = append(roster, model.Attorney{
			Name:            req.Name,
			YearsExperience: req.YearsExperience,
			IsParalegal:     req.IsParalegal,
		})
	}
	if err := h.deps.ReplaceRoster(r.Context(), roster); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}
