package api

import (
	"context"
	"net/http"
)

// MotionDependencies defines the interface for motion draft generation.
type MotionDependencies interface {
	// MotionDraft renders the fee-motion draft for a case as Markdown.
	MotionDraft(ctx context.Context, caseID string) (string, error)
}

// MotionHandler handles motion draft requests.
type MotionHandler struct {
	deps MotionDependencies
}

// NewMotionHandler creates a new motion handler.
func NewMotionHandler(deps MotionDependencies) *MotionHandler {
	return &MotionHandler{deps: deps}
}

// HandleGetMotion handles GET /cases/{id}/motion requests. The body is the
// draft itself, not a JSON wrapper, so it can be piped straight to a file.
func (h *MotionHandler) HandleGetMotion(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_motion"
	draft, err := h.deps.MotionDraft(r.Context(), caseID(r))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(draft))
}
