// Package worker runs the asynchronous extraction pipeline: dequeue a
// document job, ask the extraction collaborator for structured rows, and
// persist the result.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/trialworks/lemonaid/internal/adapters/extraction"
	"github.com/trialworks/lemonaid/internal/adapters/mq/queue"
	"github.com/trialworks/lemonaid/internal/domain/model"
	"github.com/trialworks/lemonaid/pkg/logger"
	"github.com/trialworks/lemonaid/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Sink persists what a worker extracted and tracks document state.
type Sink interface {
	AddTimeEntries(ctx context.Context, entries []model.TimeEntry) ([]model.TimeEntry, error)
	AddRepairVisits(ctx context.Context, visits []model.RepairVisit) ([]model.RepairVisit, error)
	SetDocumentStatus(ctx context.Context, id string, status model.DocumentStatus, errMsg string) error
}

// JobQueue defines how workers receive jobs.
type JobQueue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes extraction jobs until its queue closes or it is shut down.
type Worker struct {
	queue     JobQueue
	extractor extraction.Extractor
	sink      Sink
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker wired to a queue, an extractor, and a sink.
func NewWorker(q JobQueue, ex extraction.Extractor, sink Sink, opts ...Option) *Worker {
	w := &Worker{
		queue:     q,
		extractor: ex,
		sink:      sink,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled, the queue closes, or
// Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "extraction job failed",
					logger.String("documentID", job.DocumentID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob extracts one document and persists the rows. The document is
// marked failed on any error so the upload surface can show why.
func (w *Worker) processJob(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	var err error
	switch job.Kind {
	case model.DocumentBilling:
		err = w.processBilling(ctx, job)
	case model.DocumentRepair:
		err = w.processRepair(ctx, job)
	default:
		err = fmt.Errorf("unknown document kind %q", job.Kind)
	}

	if err != nil {
		metrics.RecordExtractionFailed()
		metrics.RecordWorkerError()
		if statusErr := w.sink.SetDocumentStatus(ctx, job.DocumentID, model.DocumentFailed, err.Error()); statusErr != nil {
			return errors.Join(err, fmt.Errorf("marking document failed: %w", statusErr))
		}
		return err
	}

	metrics.RecordExtractionProcessed()
	return w.sink.SetDocumentStatus(ctx, job.DocumentID, model.DocumentExtracted, "")
}

func (w *Worker) processBilling(ctx context.Context, job queue.Job) error {
	entries, err := w.extractor.ExtractBilling(ctx, job.Text)
	if err != nil {
		return fmt.Errorf("extract billing from document %s: %w", job.DocumentID, err)
	}
	for i := range entries {
		entries[i].CaseID = job.CaseID
	}
	if _, err := w.sink.AddTimeEntries(ctx, entries); err != nil {
		return fmt.Errorf("persist time entries for document %s: %w", job.DocumentID, err)
	}
	w.logger.Info(ctx, "billing document extracted",
		logger.String("documentID", job.DocumentID),
		logger.Int("entries", len(entries)),
	)
	return nil
}

func (w *Worker) processRepair(ctx context.Context, job queue.Job) error {
	visits, err := w.extractor.ExtractRepairs(ctx, job.Text)
	if err != nil {
		return fmt.Errorf("extract repairs from document %s: %w", job.DocumentID, err)
	}
	for i := range visits {
		visits[i].CaseID = job.CaseID
	}
	if _, err := w.sink.AddRepairVisits(ctx, visits); err != nil {
		return fmt.Errorf("persist repair visits for document %s: %w", job.DocumentID, err)
	}
	w.logger.Info(ctx, "repair document extracted",
		logger.String("documentID", job.DocumentID),
		logger.Int("visits", len(visits)),
	)
	return nil
}

// Pool manages a fixed set of workers sharing one queue.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers.
func NewPool(workerCount int, q JobQueue, ex extraction.Extractor, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(q, ex, sink, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop shuts down all workers, waiting up to the pool timeout.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), poolShutdownTimeout)
	defer cancel()

	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker did not stop cleanly",
				logger.String("worker", w.name),
				logger.Error(err),
			)
		}
	}
}
