package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthProbe is implemented by dependencies that can report their readiness.
type HealthProbe interface {
	Probe(ctx context.Context) error
}

type RouterDependencies struct {
	Predictions *PredictionHandler
	Form        *FormHandler
	RateLimiter *RateLimiter
	Health      HealthProbe
}

// NewRouter wires the routes. Every route that triggers a model call goes
// through the rate limiter.
func NewRouter(logger *zap.Logger, deps RouterDependencies) http.Handler {
	mux := http.NewServeMux()

	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(deps.RateLimiter, logger, h)
	}

	mux.HandleFunc("GET /healthz", healthHandler(logger, deps.Health))

	mux.HandleFunc("GET /api/v1/options", deps.Predictions.Options)
	mux.Handle("POST /api/v1/predict", limited(deps.Predictions.Predict))
	mux.Handle("POST /api/v1/predictions", limited(deps.Predictions.Submit))
	mux.HandleFunc("GET /api/v1/predictions/{id}", deps.Predictions.GetPrediction)

	mux.HandleFunc("GET /{$}", deps.Form.Index)
	mux.Handle("POST /{$}", limited(deps.Form.Predict))
	mux.Handle("POST /submit", limited(deps.Form.Submit))
	mux.HandleFunc("GET /jobs/{id}", deps.Form.Job)

	return RequestLogger(logger, mux)
}

func healthHandler(logger *zap.Logger, probe HealthProbe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		payload := map[string]any{"status": "ok"}

		if probe != nil {
			if err := probe.Probe(ctx); err != nil {
				logger.Error("health probe failed", zap.Error(err))
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["error"] = err.Error()
			}
		}

		writeJSON(w, logger, status, payload)
	}
}
