package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

// EntryDependencies defines the interface for time-entry operations.
type EntryDependencies interface {
	AddTimeEntries(ctx context.Context, caseID string, entries []model.TimeEntry) ([]model.TimeEntry, error)
	ListTimeEntries(ctx context.Context, caseID string) ([]model.TimeEntry, error)
}

// EntriesHandler handles time-entry requests.
type EntriesHandler struct {
	deps EntryDependencies
}

// NewEntriesHandler creates a new entries handler.
func NewEntriesHandler(deps EntryDependencies) *EntriesHandler {
	return &EntriesHandler{deps: deps}
}

// entryRequest mirrors the wire schema for one hand-entered billing row.
type entryRequest struct {
	AttorneyName    string  `json:"attorney_name"`
	Date            string  `json:"date"`
	Hours           float64 `json:"hours"`
	BilledRate      float64 `json:"billed_rate"`
	YearsExperience *int    `json:"years_experience"`
	Description     string  `json:"description"`
}

func (e entryRequest) validate() error {
	switch {
	case strings.TrimSpace(e.AttorneyName) == "":
		return errors.New("missing attorney_name")
	case e.Hours < 0:
		return errors.New("hours must not be negative")
	case e.BilledRate < 0:
		return errors.New("billed_rate must not be negative")
	case e.YearsExperience != nil && *e.YearsExperience < 0:
		return errors.New("years_experience must not be negative")
	case strings.TrimSpace(e.Date) == "":
		return errors.New("missing date")
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return errors.New("invalid date; must be YYYY-MM-DD")
	}
	return nil
}

type entryResponse struct {
	ID              string  `json:"id"`
	AttorneyName    string  `json:"attorney_name"`
	Date            string  `json:"date"`
	Hours           float64 `json:"hours"`
	BilledRate      float64 `json:"billed_rate"`
	YearsExperience *int    `json:"years_experience,omitempty"`
	Description     string  `json:"description,omitempty"`
}

func entryToResponse(e model.TimeEntry) entryResponse {
	return entryResponse{
		ID:              e.ID,
		AttorneyName:    e.AttorneyName,
		Date:            e.Date.Format("2006-01-02"),
		Hours:           e.Hours,
		BilledRate:      e.BilledRate,
		YearsExperience: e.YearsExperience,
		Description:     e.Description,
	}
}

// HandleAddEntries handles POST /cases/{id}/entries requests. The body is a
// JSON array; all rows land or none do.
func (h *EntriesHandler) HandleAddEntries(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_entries"
	var reqs []entryRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(reqs) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("empty entry list")))
		return
	}
	entries := make([]model.TimeEntry, 0, len(reqs))
	for i, req := range reqs {
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("entry %d: %w", i, err)))
			return
		}
		date, _ := time.Parse("2006-01-02", req.Date)
		entries = append(entries, model.TimeEntry{
			AttorneyName:    req.AttorneyName,
			Date:            date,
			Hours:           req.Hours,
			BilledRate:      req.BilledRate,
			YearsExperience: req.YearsExperience,
			Description:     req.Description,
		})
	}
	created, err := h.deps.AddTimeEntries(r.Context(), caseID(r), entries)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	out := make([]entryResponse, 0, len(created))
	for _, e := range created {
		out = append(out, entryToResponse(e))
	}
	writeJSON(w, http.StatusCreated, out)
}

// HandleListEntries handles GET /cases/{id}/entries requests.
func (h *EntriesHandler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_entries"
	entries, err := h.deps.ListTimeEntries(r.Context(), caseID(r))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}
