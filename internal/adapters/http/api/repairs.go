package api

import (
	"context"
	"net/http"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

// RepairDependencies defines the interface for repair-history reads.
type RepairDependencies interface {
	ListRepairVisits(ctx context.Context, caseID string) ([]model.RepairVisit, error)
}

// RepairsHandler handles repair-history requests.
type RepairsHandler struct {
	deps RepairDependencies
}

// NewRepairsHandler creates a new repairs handler.
func NewRepairsHandler(deps RepairDependencies) *RepairsHandler {
	return &RepairsHandler{deps: deps}
}

type repairResponse struct {
	ID               string `json:"id"`
	DateIn           string `json:"date_in"`
	DateOut          string `json:"date_out"`
	Odometer         int    `json:"odometer"`
	Complaint        string `json:"complaint"`
	WorkPerformed    string `json:"work_performed"`
	DaysOutOfService int    `json:"days_out_of_service"`
}

// HandleListRepairs handles GET /cases/{id}/repairs requests.
func (h *RepairsHandler) HandleListRepairs(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_repairs"
	visits, err := h.deps.ListRepairVisits(r.Context(), caseID(r))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	out := make([]repairResponse, 0, len(visits))
	for _, v := range visits {
		out = append(out, repairResponse{
			ID:               v.ID,
			DateIn:           v.DateIn.Format("2006-01-02"),
			DateOut:          v.DateOut.Format("2006-01-02"),
			Odometer:         v.Odometer,
			Complaint:        v.Complaint,
			WorkPerformed:    v.WorkPerformed,
			DaysOutOfService: v.DaysOutOfService,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
