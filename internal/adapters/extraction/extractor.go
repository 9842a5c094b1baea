// Package extraction wraps the external LLM API that turns unstructured
// billing and repair documents into structured rows. The prompt/parse
// contract lives here; callers treat the model as an opaque text-in,
// JSON-out collaborator.
package extraction

import (
	"context"
	"errors"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

// Sentinel error kinds for this package.
var (
	// ErrMalformedOutput marks model output that failed strict parsing.
	// A document with any bad row fails whole; rows are never dropped
	// silently because the result feeds dollar figures in filings.
	ErrMalformedOutput = errors.New("malformed extraction output")

	// ErrEmptyDocument marks an upload with no extractable text.
	ErrEmptyDocument = errors.New("empty document text")
)

// Extractor turns document text into structured rows.
type Extractor interface {
	// ExtractBilling pulls time entries out of a billing document.
	ExtractBilling(ctx context.Context, text string) ([]model.TimeEntry, error)

	// ExtractRepairs pulls service visits out of a repair order.
	ExtractRepairs(ctx context.Context, text string) ([]model.RepairVisit, error)
}
