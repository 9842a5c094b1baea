// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/trialworks/lemonaid/internal/adapters/docgen"
	"github.com/trialworks/lemonaid/internal/adapters/extraction"
	jobqueue "github.com/trialworks/lemonaid/internal/adapters/mq/queue"
	workerpool "github.com/trialworks/lemonaid/internal/adapters/mq/worker"
	"github.com/trialworks/lemonaid/internal/adapters/repository"
	"github.com/trialworks/lemonaid/internal/domain/dedupe"
	"github.com/trialworks/lemonaid/internal/domain/fees"
	"github.com/trialworks/lemonaid/internal/domain/model"
	"github.com/trialworks/lemonaid/pkg/logger"
	"github.com/trialworks/lemonaid/pkg/metrics"
)

// Service implements the API dependencies for the case management system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	jobQueue   jobqueue.Queue
	extractor  extraction.Extractor
	workerPool *workerpool.Pool

	// Configuration
	workerCount       int
	queueSize         int
	dedupeSize        int
	dbPath            string
	defaultExperience int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of extraction workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the extraction queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the upload deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDBPath sets the SQLite database path.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithExtractor sets the document extractor. Without this option the
// service falls back to the offline fake, which extracts nothing.
func WithExtractor(ex extraction.Extractor) Option {
	return func(s *Service) {
		if ex != nil {
			s.extractor = ex
		}
	}
}

// WithDefaultExperience sets the years of experience assumed for attorneys
// absent from both the time entry and the roster.
func WithDefaultExperience(years int) Option {
	return func(s *Service) {
		if years >= 0 {
			s.defaultExperience = years
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:       runtime.NumCPU(),
		queueSize:         1024,
		dedupeSize:        10_000,
		dbPath:            ":memory:",
		defaultExperience: fees.DefaultYearsExperience,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting case service...")

	store, err := repository.NewSQLiteStore(ctx, repository.WithPath(s.dbPath))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	s.store = store

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)
	if s.extractor == nil {
		s.extractor = &extraction.FakeExtractor{}
		s.logger.Warn(ctx, "no extractor configured, using offline fake")
	}

	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s.extractor, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "case service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("dbPath", s.dbPath),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping case service...")

	// Close the queue first so workers drain the backlog, then stop them.
	if s.jobQueue != nil {
		_ = s.jobQueue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(ctx, "case service stopped")
}

// SeenAndRecord atomically checks if an upload id was seen and records it
// if not. Returns true if the upload was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordExtractionDuplicate()
	}
	return seen
}

// Unrecord removes an upload ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// CreateCase persists a new case.
func (s *Service) CreateCase(ctx context.Context, c model.Case) (model.Case, error) {
	if c.Status == "" {
		c.Status = model.CaseOpen
	}
	return s.store.CreateCase(ctx, c)
}

// GetCase returns a case by id.
func (s *Service) GetCase(ctx context.Context, id string) (model.Case, error) {
	return s.store.GetCase(ctx, id)
}

// ListCases returns up to limit cases, newest first.
func (s *Service) ListCases(ctx context.Context, limit int) ([]model.Case, error) {
	return s.store.ListCases(ctx, limit)
}

// UpdateCase overwrites an existing case.
func (s *Service) UpdateCase(ctx context.Context, c model.Case) (model.Case, error) {
	return s.store.UpdateCase(ctx, c)
}

// DeleteCase removes a case and everything hanging off it.
func (s *Service) DeleteCase(ctx context.Context, id string) error {
	return s.store.DeleteCase(ctx, id)
}

// AddTimeEntries persists hand-entered billing rows for a case.
func (s *Service) AddTimeEntries(ctx context.Context, caseID string, entries []model.TimeEntry) ([]model.TimeEntry, error) {
	if _, err := s.store.GetCase(ctx, caseID); err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].CaseID = caseID
	}
	return s.store.AddTimeEntries(ctx, entries)
}

// ListTimeEntries returns a case's time entries in insertion order.
func (s *Service) ListTimeEntries(ctx context.Context, caseID string) ([]model.TimeEntry, error) {
	if _, err := s.store.GetCase(ctx, caseID); err != nil {
		return nil, err
	}
	return s.store.ListTimeEntries(ctx, caseID)
}

// UploadDocument persists an uploaded document and queues it for
// extraction. The bool result is false when the queue is saturated; the
// stored document is marked failed so the backlog is visible.
func (s *Service) UploadDocument(ctx context.Context, doc model.Document) (model.Document, bool, error) {
	if _, err := s.store.GetCase(ctx, doc.CaseID); err != nil {
		return model.Document{}, false, err
	}

	doc.Status = model.DocumentPending
	created, err := s.store.AddDocument(ctx, doc)
	if err != nil {
		return model.Document{}, false, err
	}

	ok := s.jobQueue.Enqueue(ctx, jobqueue.Job{
		DocumentID: created.ID,
		CaseID:     created.CaseID,
		Kind:       created.Kind,
		Text:       created.Text,
	})
	if !ok {
		s.logger.Warn(ctx, "extraction queue full, rejecting upload",
			logger.String("documentID", created.ID),
		)
		if err := s.store.SetDocumentStatus(ctx, created.ID, model.DocumentFailed, "extraction queue full"); err != nil {
			s.logger.Error(ctx, "marking rejected document failed",
				logger.String("documentID", created.ID),
				logger.Error(err),
			)
		}
		return created, false, nil
	}
	return created, true, nil
}

// ListDocuments returns a case's documents, newest first.
func (s *Service) ListDocuments(ctx context.Context, caseID string) ([]model.Document, error) {
	if _, err := s.store.GetCase(ctx, caseID); err != nil {
		return nil, err
	}
	return s.store.ListDocuments(ctx, caseID)
}

// ListRepairVisits returns a case's repair chronology.
func (s *Service) ListRepairVisits(ctx context.Context, caseID string) ([]model.RepairVisit, error) {
	if _, err := s.store.GetCase(ctx, caseID); err != nil {
		return nil, err
	}
	return s.store.ListRepairVisits(ctx, caseID)
}

// GetRateSchedule returns the stored benchmark schedule. Before any PUT an
// empty schedule is returned rather than an error: the table exists, it
// just has no rates yet.
func (s *Service) GetRateSchedule(ctx context.Context) (model.RateSchedule, error) {
	schedule, err := s.store.GetRateSchedule(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return model.RateSchedule{}, nil
	}
	return schedule, err
}

// PutRateSchedule replaces the stored benchmark schedule.
func (s *Service) PutRateSchedule(ctx context.Context, schedule model.RateSchedule) error {
	return s.store.PutRateSchedule(ctx, schedule)
}

// ListRoster returns the attorney roster.
func (s *Service) ListRoster(ctx context.Context) ([]model.Attorney, error) {
	return s.store.ListRoster(ctx)
}

// ReplaceRoster swaps the whole attorney roster.
func (s *Service) ReplaceRoster(ctx context.Context, roster []model.Attorney) error {
	return s.store.ReplaceRoster(ctx, roster)
}

// FeeReport runs the fee reasonableness calculation for a case: aggregate
// its time entries, compare against the stored schedule, and format the
// motion-ready report.
func (s *Service) FeeReport(ctx context.Context, caseID string) (fees.Comparison, fees.Report, error) {
	if _, err := s.store.GetCase(ctx, caseID); err != nil {
		return fees.Comparison{}, fees.Report{}, err
	}

	entries, err := s.store.ListTimeEntries(ctx, caseID)
	if err != nil {
		return fees.Comparison{}, fees.Report{}, err
	}
	roster, err := s.store.ListRoster(ctx)
	if err != nil {
		return fees.Comparison{}, fees.Report{}, err
	}
	schedule, err := s.store.GetRateSchedule(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return fees.Comparison{}, fees.Report{}, fmt.Errorf("%w: no rate schedule stored", fees.ErrIncompleteSchedule)
	}
	if err != nil {
		return fees.Comparison{}, fees.Report{}, err
	}

	comparison, err := fees.CompareEntries(entries, roster, schedule,
		fees.WithDefaultExperience(s.defaultExperience),
	)
	if err != nil {
		return fees.Comparison{}, fees.Report{}, err
	}
	metrics.RecordFeeCalculation()
	return comparison, fees.BuildReport(comparison), nil
}

// MotionDraft renders the Markdown fee-motion draft for a case.
func (s *Service) MotionDraft(ctx context.Context, caseID string) (string, error) {
	c, err := s.store.GetCase(ctx, caseID)
	if err != nil {
		return "", err
	}
	visits, err := s.store.ListRepairVisits(ctx, caseID)
	if err != nil {
		return "", err
	}
	_, report, err := s.FeeReport(ctx, caseID)
	if err != nil {
		return "", err
	}
	return docgen.RenderMotion(c, visits, report), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		totalCases := s.store.CountCases(ctx)

		stats["queueLength"] = queueLen
		stats["totalCases"] = totalCases

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalCases(totalCases)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
