package repository

import (
	"context"
	"errors"

	"credit-predictor/domain"
)

var ErrJobNotFound = errors.New("prediction job not found")

// JobRepository keeps prediction jobs while a client may still poll them.
type JobRepository interface {
	Save(ctx context.Context, job domain.PredictionJob) error
	Get(ctx context.Context, id string) (domain.PredictionJob, error)
}
