package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type dataResponse struct {
	Data    any    `json:"data"`
	PollURL string `json:"poll_url,omitempty"`
}

type errorResponse struct {
	Error   string        `json:"error"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Path string `json:"path"`
	Info string `json:"info"`
}

// writeJSON encodes into a buffer first so a failed encode can still send a 500.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	writeJSON(w, logger, status, errorResponse{Error: message})
}

// writeValidationError answers 400 with one detail per failing field.
func writeValidationError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		writeError(w, logger, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, logger, http.StatusBadRequest, errorResponse{
		Error:   "validation failed",
		Details: validationDetails(validationErrs),
	})
}

func validationDetails(errs validator.ValidationErrors) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(errs))
	for _, fieldErr := range errs {
		details = append(details, ErrorDetail{
			Path: fieldErr.Field(),
			Info: validationMessage(fieldErr),
		})
	}
	return details
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "min":
		return fieldErr.Field() + " must be at least " + fieldErr.Param()
	case "max":
		return fieldErr.Field() + " must be at most " + fieldErr.Param()
	case "step":
		return fieldErr.Field() + " must be a multiple of " + fieldErr.Param()
	case "purpose", "housing", "job":
		return fieldErr.Field() + " is not a known " + fieldErr.Tag() + " option"
	default:
		return fieldErr.Field() + " is invalid"
	}
}

func isValidationError(err error) bool {
	var validationErrs validator.ValidationErrors
	return errors.As(err, &validationErrs)
}
