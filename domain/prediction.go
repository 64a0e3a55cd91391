package domain

import "time"

type Verdict string

const (
	VerdictGoodRisk      Verdict = "good_risk"
	VerdictBadRisk       Verdict = "bad_risk"
	VerdictUnclassified  Verdict = "unclassified"
	VerdictRequestFailed Verdict = "request_failed"
)

type FailureKind string

const (
	FailureTransport         FailureKind = "transport_error"
	FailureHTTPStatus        FailureKind = "http_status_error"
	FailureMalformedResponse FailureKind = "malformed_response"
	FailureUnclassified      FailureKind = "unclassified_verdict"
)

// PredictionOutcome is the result of one submission. Text carries the model
// reply for classified outcomes; Detail carries the failure description.
type PredictionOutcome struct {
	Verdict    Verdict     `json:"verdict"`
	Text       string      `json:"text,omitempty"`
	Detail     string      `json:"detail,omitempty"`
	Failure    FailureKind `json:"failure,omitempty"`
	StatusCode int         `json:"status_code,omitempty"`
}

func GoodRisk(text string) PredictionOutcome {
	return PredictionOutcome{Verdict: VerdictGoodRisk, Text: text}
}

func BadRisk(text string) PredictionOutcome {
	return PredictionOutcome{Verdict: VerdictBadRisk, Text: text}
}

func Unclassified(text string) PredictionOutcome {
	return PredictionOutcome{Verdict: VerdictUnclassified, Text: text, Failure: FailureUnclassified}
}

func RequestFailed(kind FailureKind, detail string, statusCode int) PredictionOutcome {
	return PredictionOutcome{
		Verdict:    VerdictRequestFailed,
		Detail:     detail,
		Failure:    kind,
		StatusCode: statusCode,
	}
}

// IsError reports whether the outcome is rendered as an error panel.
func (o PredictionOutcome) IsError() bool {
	return o.Verdict == VerdictUnclassified || o.Verdict == VerdictRequestFailed
}

// Message is the user-facing text of the outcome.
func (o PredictionOutcome) Message() string {
	if o.Verdict == VerdictRequestFailed {
		return o.Detail
	}
	return o.Text
}

type JobStatus string

const (
	JobStatusRequesting JobStatus = "requesting"
	JobStatusCompleted  JobStatus = "completed"
)

type PredictionJob struct {
	ID          string             `json:"id"`
	Status      JobStatus          `json:"status"`
	Profile     CustomerProfile    `json:"profile"`
	Outcome     *PredictionOutcome `json:"outcome,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// Complete moves the job to its terminal state.
func (j *PredictionJob) Complete(outcome PredictionOutcome, at time.Time) {
	j.Status = JobStatusCompleted
	j.Outcome = &outcome
	j.CompletedAt = &at
}

func (j PredictionJob) Done() bool {
	return j.Status == JobStatusCompleted
}
