package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"credit-predictor/domain"
)

type PredictionService struct {
	generator TextGenerator
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewPredictionService creates a PredictionService that asks generator for verdicts.
func NewPredictionService(generator TextGenerator, logger *zap.Logger) *PredictionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictionService{
		generator: generator,
		validate:  NewValidator(),
		logger:    logger,
	}
}

// ValidateProfile checks every field against its domain. The returned error is
// a validator.ValidationErrors when a field is out of range.
func (s *PredictionService) ValidateProfile(profile domain.CustomerProfile) error {
	return s.validate.Struct(profile)
}

// Predict validates the profile and asks the model for a verdict. Only
// validation failures are returned as errors; request failures are part of
// the outcome.
func (s *PredictionService) Predict(
	ctx context.Context,
	profile domain.CustomerProfile,
) (domain.PredictionOutcome, error) {

	if err := s.ValidateProfile(profile); err != nil {
		return domain.PredictionOutcome{}, err
	}

	return s.RequestVerdict(ctx, BuildPrompt(profile)), nil
}

// RequestVerdict sends the prompt and classifies the reply.
func (s *PredictionService) RequestVerdict(ctx context.Context, prompt string) domain.PredictionOutcome {
	start := time.Now()

	text, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		outcome := requestFailure(err)
		s.logger.Warn("prediction request failed",
			zap.String("failure", string(outcome.Failure)),
			zap.Int("status", outcome.StatusCode),
			zap.String("detail", outcome.Detail),
			zap.Duration("duration", time.Since(start)),
		)
		return outcome
	}

	outcome := Classify(text)
	s.logger.Info("prediction completed",
		zap.String("verdict", string(outcome.Verdict)),
		zap.Duration("duration", time.Since(start)),
	)
	return outcome
}

func requestFailure(err error) domain.PredictionOutcome {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Outcome()
	}
	// generators that do not return RequestError
	return TransportError(err).Outcome()
}
