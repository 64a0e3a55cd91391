package service

import (
	"fmt"

	"credit-predictor/domain"
)

// RequestError describes why a call to the text generation endpoint failed.
type RequestError struct {
	Kind       domain.FailureKind
	Detail     string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Detail
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func TransportError(err error) *RequestError {
	return &RequestError{
		Kind:   domain.FailureTransport,
		Detail: fmt.Sprintf("failed to fetch prediction: %v", err),
		Err:    err,
	}
}

func HTTPStatusError(statusCode int, body string) *RequestError {
	return &RequestError{
		Kind:       domain.FailureHTTPStatus,
		Detail:     fmt.Sprintf("API error (status %d): %s", statusCode, body),
		StatusCode: statusCode,
	}
}

func MalformedResponseError(detail string, err error) *RequestError {
	return &RequestError{
		Kind:   domain.FailureMalformedResponse,
		Detail: detail,
		Err:    err,
	}
}

// Outcome converts the error into the outcome shown to the user.
func (e *RequestError) Outcome() domain.PredictionOutcome {
	return domain.RequestFailed(e.Kind, e.Detail, e.StatusCode)
}
