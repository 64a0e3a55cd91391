package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"credit-predictor/domain"
	"credit-predictor/repository"
)

// PredictionRunner runs predictions in the background so callers can show a
// pending state and poll for the verdict.
type PredictionRunner struct {
	service *PredictionService
	repo    repository.JobRepository
	logger  *zap.Logger

	mu      sync.Mutex
	waiters map[string]chan struct{}
	// completed jobs the repository refused to store
	results map[string]domain.PredictionJob
	wg      sync.WaitGroup
	now     func() time.Time
}

// unsavedResultRetention bounds how long a completed job that could not be
// saved is served from memory.
const unsavedResultRetention = 10 * time.Minute

func NewPredictionRunner(
	service *PredictionService,
	repo repository.JobRepository,
	logger *zap.Logger,
) *PredictionRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictionRunner{
		service: service,
		repo:    repo,
		logger:  logger,
		waiters: make(map[string]chan struct{}),
		results: make(map[string]domain.PredictionJob),
		now:     time.Now,
	}
}

// Submit validates the profile, records a pending job and starts the request.
func (r *PredictionRunner) Submit(
	ctx context.Context,
	profile domain.CustomerProfile,
) (domain.PredictionJob, error) {

	if err := r.service.ValidateProfile(profile); err != nil {
		return domain.PredictionJob{}, err
	}

	job := domain.PredictionJob{
		ID:        uuid.New().String(),
		Status:    domain.JobStatusRequesting,
		Profile:   profile,
		CreatedAt: r.now().UTC(),
	}
	if err := r.repo.Save(ctx, job); err != nil {
		return domain.PredictionJob{}, fmt.Errorf("save pending job: %w", err)
	}

	done := make(chan struct{})
	r.mu.Lock()
	r.waiters[job.ID] = done
	r.mu.Unlock()

	// The request outlives a disconnected client.
	taskCtx := context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.release(job.ID, done)
		r.run(taskCtx, job, profile)
	}()

	r.logger.Info("prediction job submitted", zap.String("job_id", job.ID))
	return job, nil
}

func (r *PredictionRunner) run(ctx context.Context, job domain.PredictionJob, profile domain.CustomerProfile) {
	outcome := r.service.RequestVerdict(ctx, BuildPrompt(profile))
	job.Complete(outcome, r.now().UTC())

	if err := r.saveCompleted(ctx, job); err != nil {
		r.logger.Error("failed to save completed job, keeping it in memory",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
		r.keepResult(job)
	}
	r.logger.Info("prediction job completed",
		zap.String("job_id", job.ID),
		zap.String("verdict", string(outcome.Verdict)),
	)
}

// saveCompleted retries once so a transient store failure does not leave the
// job pending.
func (r *PredictionRunner) saveCompleted(ctx context.Context, job domain.PredictionJob) error {
	err := r.repo.Save(ctx, job)
	if err == nil {
		return nil
	}
	r.logger.Warn("retrying save of completed job", zap.String("job_id", job.ID), zap.Error(err))
	return r.repo.Save(ctx, job)
}

func (r *PredictionRunner) keepResult(job domain.PredictionJob) {
	cutoff := r.now().Add(-unsavedResultRetention)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, kept := range r.results {
		if kept.CompletedAt != nil && kept.CompletedAt.Before(cutoff) {
			delete(r.results, id)
		}
	}
	r.results[job.ID] = job
}

func (r *PredictionRunner) keptResult(id string) (domain.PredictionJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.results[id]
	if !ok {
		return domain.PredictionJob{}, false
	}
	if job.CompletedAt != nil && job.CompletedAt.Before(r.now().Add(-unsavedResultRetention)) {
		delete(r.results, id)
		return domain.PredictionJob{}, false
	}
	return job, true
}

func (r *PredictionRunner) release(id string, done chan struct{}) {
	r.mu.Lock()
	delete(r.waiters, id)
	r.mu.Unlock()
	close(done)
}

// Get returns the current state of a job.
func (r *PredictionRunner) Get(ctx context.Context, id string) (domain.PredictionJob, error) {
	if job, ok := r.keptResult(id); ok {
		return job, nil
	}
	return r.repo.Get(ctx, id)
}

// Await blocks until the job completes, timeout elapses or ctx is done, and
// returns the job as stored at that point.
func (r *PredictionRunner) Await(ctx context.Context, id string, timeout time.Duration) (domain.PredictionJob, error) {
	r.mu.Lock()
	done, running := r.waiters[id]
	r.mu.Unlock()

	if running && timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-done:
		case <-timer.C:
		case <-ctx.Done():
		}
	}

	return r.Get(context.WithoutCancel(ctx), id)
}

// Shutdown waits for in-flight jobs or until ctx is done.
func (r *PredictionRunner) Shutdown(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
