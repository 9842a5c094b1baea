// Package repository defines the case store interface and its SQLite
// implementation.
package repository

import (
	"context"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

// Store provides read/write access to cases and everything hanging off
// them. Implementations must be safe for concurrent use.
type Store interface {
	// CreateCase persists a new case, minting an id when absent.
	CreateCase(ctx context.Context, c model.Case) (model.Case, error)

	// GetCase returns a case by id. Returns ErrNotFound if unknown.
	GetCase(ctx context.Context, id string) (model.Case, error)

	// ListCases returns up to limit cases, newest first.
	ListCases(ctx context.Context, limit int) ([]model.Case, error)

	// UpdateCase overwrites the mutable fields of an existing case.
	UpdateCase(ctx context.Context, c model.Case) (model.Case, error)

	// DeleteCase removes a case and its documents, entries, and visits.
	DeleteCase(ctx context.Context, id string) error

	// AddDocument records an uploaded document for a case.
	AddDocument(ctx context.Context, d model.Document) (model.Document, error)

	// ListDocuments returns a case's documents, newest first.
	ListDocuments(ctx context.Context, caseID string) ([]model.Document, error)

	// SetDocumentStatus transitions a document through the extraction
	// pipeline. errMsg is stored only for failed documents.
	SetDocumentStatus(ctx context.Context, id string, status model.DocumentStatus, errMsg string) error

	// AddTimeEntries persists billing rows, minting ids when absent.
	AddTimeEntries(ctx context.Context, entries []model.TimeEntry) ([]model.TimeEntry, error)

	// ListTimeEntries returns a case's time entries in insertion order.
	ListTimeEntries(ctx context.Context, caseID string) ([]model.TimeEntry, error)

	// AddRepairVisits persists repair chronology rows, minting ids when absent.
	AddRepairVisits(ctx context.Context, visits []model.RepairVisit) ([]model.RepairVisit, error)

	// ListRepairVisits returns a case's repair visits ordered by date in.
	ListRepairVisits(ctx context.Context, caseID string) ([]model.RepairVisit, error)

	// GetRateSchedule returns the single stored benchmark schedule.
	// Returns ErrNotFound when no schedule has been stored yet.
	GetRateSchedule(ctx context.Context) (model.RateSchedule, error)

	// PutRateSchedule replaces the stored benchmark schedule.
	PutRateSchedule(ctx context.Context, s model.RateSchedule) error

	// ListRoster returns the attorney roster ordered by name.
	ListRoster(ctx context.Context) ([]model.Attorney, error)

	// ReplaceRoster swaps the whole roster atomically.
	ReplaceRoster(ctx context.Context, roster []model.Attorney) error

	// CountCases returns the number of cases tracked.
	CountCases(ctx context.Context) int

	// Close releases the underlying database handle.
	Close() error
}
