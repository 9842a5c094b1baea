package api

import (
	"context"
	"net/http"

	"github.com/trialworks/lemonaid/internal/domain/fees"
)

// FeeDependencies defines the interface for fee reasonableness analysis.
type FeeDependencies interface {
	FeeReport(ctx context.Context, caseID string) (fees.Comparison, fees.Report, error)
}

// FeesHandler handles fee analysis requests.
type FeesHandler struct {
	deps FeeDependencies
}

// NewFeesHandler creates a new fees handler.
func NewFeesHandler(deps FeeDependencies) *FeesHandler {
	return &FeesHandler{deps: deps}
}

type feeResponse struct {
	Comparison fees.Comparison `json:"comparison"`
	Report     fees.Report     `json:"report"`
}

// HandleGetFees handles GET /cases/{id}/fees requests.
func (h *FeesHandler) HandleGetFees(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_fees"
	comparison, report, err := h.deps.FeeReport(r.Context(), caseID(r))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, feeResponse{Comparison: comparison, Report: report})
}
