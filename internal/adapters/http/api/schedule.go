package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

// ScheduleDependencies defines the interface for benchmark rate table access.
type ScheduleDependencies interface {
	GetRateSchedule(ctx context.Context) (model.RateSchedule, error)
	PutRateSchedule(ctx context.Context, schedule model.RateSchedule) error
}

// ScheduleHandler handles rate-schedule requests.
type ScheduleHandler struct {
	deps ScheduleDependencies
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(deps ScheduleDependencies) *ScheduleHandler {
	return &ScheduleHandler{deps: deps}
}

// HandleGetSchedule handles GET /rate-schedule requests.
func (h *ScheduleHandler) HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_schedule"
	schedule, err := h.deps.GetRateSchedule(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleFromModel(schedule))
}

// HandlePutSchedule handles PUT /rate-schedule requests. A partial table is
// accepted; unset tiers stay unset and fail fee comparison if needed later.
func (h *ScheduleHandler) HandlePutSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_schedule"
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.PutRateSchedule(r.Context(), req.toModel()); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s scheduleRequest) validate() error {
	for _, rate := range []*float64{
		s.Tier1to3Rate, s.Tier4to7Rate, s.Tier8to10Rate,
		s.Tier11to19Rate, s.Tier20PlusRate, s.ParalegalRate,
	} {
		if rate != nil && *rate < 0 {
			return errors.New("rates must not be negative")
		}
	}
	return nil
}
