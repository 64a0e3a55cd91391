package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"credit-predictor/domain"
	"credit-predictor/repository"
	"credit-predictor/service"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type pageView struct {
	Options domain.FormOptions
	Profile domain.CustomerProfile
	Banner  *Banner
	Pending bool
	Errors  []ErrorDetail
	Year    int
}

// FormHandler serves the HTML form and renders outcomes as banners.
type FormHandler struct {
	service *service.PredictionService
	runner  *service.PredictionRunner
	logger  *zap.Logger
	now     func() time.Time
}

func NewFormHandler(
	service *service.PredictionService,
	runner *service.PredictionRunner,
	logger *zap.Logger,
) *FormHandler {
	return &FormHandler{
		service: service,
		runner:  runner,
		logger:  logger,
		now:     time.Now,
	}
}

// Index renders the form with its default values.
func (h *FormHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.view(domain.DefaultProfile()))
}

// Predict handles a form submission synchronously and renders the banner.
func (h *FormHandler) Predict(w http.ResponseWriter, r *http.Request) {
	profile, fieldErrs := parseProfileForm(r)
	if len(fieldErrs) > 0 {
		view := h.view(profile)
		view.Errors = fieldErrs
		h.render(w, http.StatusBadRequest, view)
		return
	}

	outcome, err := h.service.Predict(r.Context(), profile)
	if err != nil {
		h.renderValidation(w, profile, err)
		return
	}

	view := h.view(profile)
	banner := NewBanner(outcome)
	view.Banner = &banner
	h.render(w, http.StatusOK, view)
}

// Submit starts a background prediction and redirects to its status page.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	profile, fieldErrs := parseProfileForm(r)
	if len(fieldErrs) > 0 {
		view := h.view(profile)
		view.Errors = fieldErrs
		h.render(w, http.StatusBadRequest, view)
		return
	}

	job, err := h.runner.Submit(r.Context(), profile)
	if err != nil {
		if isValidationError(err) {
			h.renderValidation(w, profile, err)
			return
		}
		h.logger.Error("failed to submit prediction", zap.Error(err))
		http.Error(w, "failed to submit prediction", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/jobs/"+job.ID, http.StatusSeeOther)
}

// Job renders the pending indicator until the prediction completes.
func (h *FormHandler) Job(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, err := h.runner.Get(r.Context(), id)
	if errors.Is(err, repository.ErrJobNotFound) {
		http.Error(w, "prediction not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load prediction", zap.String("job_id", id), zap.Error(err))
		http.Error(w, "failed to load prediction", http.StatusInternalServerError)
		return
	}

	view := h.view(job.Profile)
	if !job.Done() || job.Outcome == nil {
		view.Pending = true
		h.render(w, http.StatusOK, view)
		return
	}

	banner := NewBanner(*job.Outcome)
	view.Banner = &banner
	h.render(w, http.StatusOK, view)
}

func (h *FormHandler) view(profile domain.CustomerProfile) pageView {
	return pageView{
		Options: domain.Options(),
		Profile: profile,
		Year:    h.now().Year(),
	}
}

func (h *FormHandler) renderValidation(w http.ResponseWriter, profile domain.CustomerProfile, err error) {
	view := h.view(profile)
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		view.Errors = validationDetails(validationErrs)
	} else {
		view.Errors = []ErrorDetail{{Info: err.Error()}}
	}
	h.render(w, http.StatusBadRequest, view)
}

func (h *FormHandler) render(w http.ResponseWriter, status int, view pageView) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		h.logger.Error("failed to render page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write page", zap.Error(err))
	}
}

// parseProfileForm reads the six form fields. Integer fields that do not parse
// are reported and left at their default.
func parseProfileForm(r *http.Request) (domain.CustomerProfile, []ErrorDetail) {
	profile := domain.DefaultProfile()
	if err := r.ParseForm(); err != nil {
		return profile, []ErrorDetail{{Path: "form", Info: "invalid form body"}}
	}

	var errs []ErrorDetail
	parseInt := func(name string, dst *int) {
		raw := r.PostForm.Get(name)
		if raw == "" {
			errs = append(errs, ErrorDetail{Path: name, Info: name + " is required"})
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, ErrorDetail{Path: name, Info: name + " must be a whole number"})
			return
		}
		*dst = v
	}

	parseInt("age", &profile.Age)
	parseInt("duration_months", &profile.DurationMonths)
	parseInt("amount", &profile.Amount)
	profile.Purpose = r.PostForm.Get("purpose")
	profile.Housing = r.PostForm.Get("housing")
	profile.Job = r.PostForm.Get("job")

	return profile, errs
}
