package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"credit-predictor/domain"
	"credit-predictor/repository"
	"credit-predictor/service"
)

type PredictionHandler struct {
	service *service.PredictionService
	runner  *service.PredictionRunner
	maxWait time.Duration
	logger  *zap.Logger
}

func NewPredictionHandler(
	service *service.PredictionService,
	runner *service.PredictionRunner,
	maxWait time.Duration,
	logger *zap.Logger,
) *PredictionHandler {
	return &PredictionHandler{
		service: service,
		runner:  runner,
		maxWait: maxWait,
		logger:  logger,
	}
}

// Options returns the domain and default of every form field.
func (h *PredictionHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, dataResponse{Data: domain.Options()})
}

// Predict runs one prediction and answers with the outcome. Request failures
// are reported inside the outcome with status 200.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.decodeProfile(w, r)
	if !ok {
		return
	}

	outcome, err := h.service.Predict(r.Context(), profile)
	if err != nil {
		writeValidationError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dataResponse{Data: outcome})
}

// Submit starts an asynchronous prediction.
// POST /api/v1/predictions?wait=10
func (h *PredictionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.decodeProfile(w, r)
	if !ok {
		return
	}

	job, err := h.runner.Submit(r.Context(), profile)
	if err != nil {
		h.respondSubmitError(w, err)
		return
	}

	if wait := h.waitDuration(r); wait > 0 {
		awaited, err := h.runner.Await(r.Context(), job.ID, wait)
		if err != nil {
			h.logger.Warn("wait for prediction failed", zap.String("job_id", job.ID), zap.Error(err))
		} else {
			job = awaited
		}
	}

	if job.Done() {
		writeJSON(w, h.logger, http.StatusOK, dataResponse{Data: job})
		return
	}
	writeJSON(w, h.logger, http.StatusAccepted, dataResponse{
		Data:    job,
		PollURL: "/api/v1/predictions/" + job.ID,
	})
}

// GetPrediction returns the current state of a submitted prediction.
func (h *PredictionHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, h.logger, http.StatusBadRequest, "prediction id is required")
		return
	}

	job, err := h.runner.Get(r.Context(), id)
	if errors.Is(err, repository.ErrJobNotFound) {
		writeError(w, h.logger, http.StatusNotFound, "prediction not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to load prediction", zap.String("job_id", id), zap.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "failed to load prediction")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dataResponse{Data: job})
}

func (h *PredictionHandler) decodeProfile(w http.ResponseWriter, r *http.Request) (domain.CustomerProfile, bool) {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		writeError(w, h.logger, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return domain.CustomerProfile{}, false
	}

	var profile domain.CustomerProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		h.logger.Debug("invalid request body", zap.Error(err))
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return domain.CustomerProfile{}, false
	}
	return profile, true
}

func (h *PredictionHandler) respondSubmitError(w http.ResponseWriter, err error) {
	if isValidationError(err) {
		writeValidationError(w, h.logger, err)
		return
	}
	h.logger.Error("failed to submit prediction", zap.Error(err))
	writeError(w, h.logger, http.StatusInternalServerError, "failed to submit prediction")
}

func (h *PredictionHandler) waitDuration(r *http.Request) time.Duration {
	raw := r.URL.Query().Get("wait")
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0
	}
	wait := time.Duration(seconds) * time.Second
	if wait > h.maxWait {
		wait = h.maxWait
	}
	return wait
}
