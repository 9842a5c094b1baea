package extraction

import (
	"context"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

// FakeExtractor implements Extractor without any network dependency. It is
// used by tests and when the service runs without an API key configured.
type FakeExtractor struct {
	Entries []model.TimeEntry
	Visits  []model.RepairVisit
	Err     error
}

// ExtractBilling returns the canned entries.
func (f *FakeExtractor) ExtractBilling(_ context.Context, text string) ([]model.TimeEntry, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if text == "" {
		return nil, ErrEmptyDocument
	}
	return f.Entries, nil
}

// ExtractRepairs returns the canned visits.
func (f *FakeExtractor) ExtractRepairs(_ context.Context, text string) ([]model.RepairVisit, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if text == "" {
		return nil, ErrEmptyDocument
	}
	return f.Visits, nil
}
