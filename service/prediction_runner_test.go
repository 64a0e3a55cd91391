package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"credit-predictor/domain"
	"credit-predictor/repository"
)

func TestPredictionRunner_SubmitAndAwait(t *testing.T) {

	generator := &MockTextGenerator{Text: "Good Credit Risk"}
	runner := NewPredictionRunner(NewPredictionService(generator, nil), repository.NewJobRepositoryMemory(time.Minute), nil)

	job, err := runner.Submit(context.Background(), domain.DefaultProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID == "" {
		t.Fatalf("expected job id")
	}

	done, err := runner.Await(context.Background(), job.ID, 2*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !done.Done() {
		t.Fatalf("expected completed job, got %s", done.Status)
	}
	if done.Outcome == nil || done.Outcome.Verdict != domain.VerdictGoodRisk {
		t.Errorf("expected good_risk outcome, got %+v", done.Outcome)
	}
	if done.CompletedAt == nil {
		t.Errorf("expected completion time")
	}
}

func TestPredictionRunner_PendingUntilReply(t *testing.T) {

	block := make(chan struct{})
	generator := &MockTextGenerator{Text: "Bad Credit Risk", Block: block}
	runner := NewPredictionRunner(NewPredictionService(generator, nil), repository.NewJobRepositoryMemory(time.Minute), nil)

	job, err := runner.Submit(context.Background(), domain.DefaultProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending, err := runner.Await(context.Background(), job.ID, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending.Status != domain.JobStatusRequesting {
		t.Fatalf("expected requesting, got %s", pending.Status)
	}

	close(block)

	done, err := runner.Await(context.Background(), job.ID, 2*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done.Outcome == nil || done.Outcome.Verdict != domain.VerdictBadRisk {
		t.Errorf("expected bad_risk outcome, got %+v", done.Outcome)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := runner.Shutdown(ctx); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestPredictionRunner_InvalidProfile(t *testing.T) {

	generator := &MockTextGenerator{}
	runner := NewPredictionRunner(NewPredictionService(generator, nil), repository.NewJobRepositoryMemory(time.Minute), nil)
	profile := domain.DefaultProfile()
	profile.Housing = "tent"

	_, err := runner.Submit(context.Background(), profile)

	if err == nil {
		t.Fatalf("expected validation error")
	}
	if err := runner.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
	if generator.Calls != 0 {
		t.Errorf("generator should NOT be called")
	}
}

func TestPredictionRunner_UnknownJob(t *testing.T) {

	runner := NewPredictionRunner(NewPredictionService(&MockTextGenerator{}, nil), repository.NewJobRepositoryMemory(time.Minute), nil)

	_, err := runner.Get(context.Background(), "missing")

	if !errors.Is(err, repository.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

// flakyJobRepository accepts the pending job and rejects every later save.
type flakyJobRepository struct {
	*repository.JobRepositoryMemory

	mu    sync.Mutex
	saves int
}

func (f *flakyJobRepository) Save(ctx context.Context, job domain.PredictionJob) error {
	f.mu.Lock()
	f.saves++
	n := f.saves
	f.mu.Unlock()

	if n > 1 {
		return errors.New("connection reset")
	}
	return f.JobRepositoryMemory.Save(ctx, job)
}

func TestPredictionRunner_KeepsOutcomeWhenSaveFails(t *testing.T) {

	repo := &flakyJobRepository{JobRepositoryMemory: repository.NewJobRepositoryMemory(time.Minute)}
	generator := &MockTextGenerator{Text: "Good Credit Risk"}
	runner := NewPredictionRunner(NewPredictionService(generator, nil), repo, nil)

	job, err := runner.Submit(context.Background(), domain.DefaultProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := runner.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}

	done, err := runner.Await(context.Background(), job.ID, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done.Done() {
		t.Fatalf("expected completed job, got %s", done.Status)
	}
	if done.Outcome == nil || done.Outcome.Verdict != domain.VerdictGoodRisk {
		t.Errorf("expected good_risk outcome, got %+v", done.Outcome)
	}

	got, err := runner.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Done() {
		t.Errorf("expected Get to report completed, got %s", got.Status)
	}

	repo.mu.Lock()
	saves := repo.saves
	repo.mu.Unlock()
	if saves != 3 {
		t.Errorf("expected pending save plus one retry, got %d saves", saves)
	}
}

func TestPredictionRunner_RetriesFailedSave(t *testing.T) {

	repo := &onceFailingJobRepository{JobRepositoryMemory: repository.NewJobRepositoryMemory(time.Minute)}
	runner := NewPredictionRunner(NewPredictionService(&MockTextGenerator{Text: "Bad Credit Risk"}, nil), repo, nil)

	job, err := runner.Submit(context.Background(), domain.DefaultProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := runner.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}

	stored, err := repo.JobRepositoryMemory.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stored.Done() {
		t.Errorf("expected retried save to store the completed job, got %s", stored.Status)
	}
}

// onceFailingJobRepository rejects only the first save of a completed job.
type onceFailingJobRepository struct {
	*repository.JobRepositoryMemory

	mu     sync.Mutex
	failed bool
}

func (o *onceFailingJobRepository) Save(ctx context.Context, job domain.PredictionJob) error {
	o.mu.Lock()
	fail := job.Done() && !o.failed
	if fail {
		o.failed = true
	}
	o.mu.Unlock()

	if fail {
		return errors.New("timeout")
	}
	return o.JobRepositoryMemory.Save(ctx, job)
}

func TestPredictionRunner_JobCarriesProfile(t *testing.T) {

	runner := NewPredictionRunner(NewPredictionService(&MockTextGenerator{Text: "Good Credit Risk"}, nil), repository.NewJobRepositoryMemory(time.Minute), nil)
	profile := domain.DefaultProfile()
	profile.Purpose = "education"

	job, err := runner.Submit(context.Background(), profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done, err := runner.Await(context.Background(), job.ID, 2*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done.Profile != profile {
		t.Errorf("expected profile %+v, got %+v", profile, done.Profile)
	}
}
