package repository

import (
	"context"
	"sync"
	"time"

	"credit-predictor/domain"
)

type memoryEntry struct {
	job       domain.PredictionJob
	expiresAt time.Time
}

// JobRepositoryMemory is an in-memory implementation of JobRepository.
type JobRepositoryMemory struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]memoryEntry
	now  func() time.Time
}

// NewJobRepositoryMemory creates an in-memory job repository whose entries
// expire ttl after their last save.
func NewJobRepositoryMemory(ttl time.Duration) *JobRepositoryMemory {
	return &JobRepositoryMemory{
		ttl:  ttl,
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

// Save stores the job, replacing any previous state with the same id.
func (r *JobRepositoryMemory) Save(_ context.Context, job domain.PredictionJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictExpired(now)
	r.data[job.ID] = memoryEntry{job: job, expiresAt: now.Add(r.ttl)}
	return nil
}

func (r *JobRepositoryMemory) Get(_ context.Context, id string) (domain.PredictionJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.data[id]
	if !ok {
		return domain.PredictionJob{}, ErrJobNotFound
	}
	if !r.now().Before(entry.expiresAt) {
		delete(r.data, id)
		return domain.PredictionJob{}, ErrJobNotFound
	}
	return entry.job, nil
}

func (r *JobRepositoryMemory) evictExpired(now time.Time) {
	for id, entry := range r.data {
		if !now.Before(entry.expiresAt) {
			delete(r.data, id)
		}
	}
}
