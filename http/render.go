package http

import "credit-predictor/domain"

const (
	bannerHint      = "This prediction is based on the provided inputs and general credit assessment principles."
	bannerErrorHint = "Please check your internet connection or try again later."
)

// Banner is the view of a prediction outcome.
type Banner struct {
	Class   string
	Title   string
	Message string
	Hint    string
}

// NewBanner maps an outcome to its banner: success styling for a good risk,
// failure styling for a bad risk and an error panel for everything else.
func NewBanner(outcome domain.PredictionOutcome) Banner {
	switch outcome.Verdict {
	case domain.VerdictGoodRisk:
		return Banner{
			Class:   "prediction-result good-risk",
			Title:   "Prediction Result:",
			Message: "✅ " + outcome.Text,
			Hint:    bannerHint,
		}
	case domain.VerdictBadRisk:
		return Banner{
			Class:   "prediction-result bad-risk",
			Title:   "Prediction Result:",
			Message: "❌ " + outcome.Text,
			Hint:    bannerHint,
		}
	default:
		return Banner{
			Class:   "error-message",
			Message: "Error: " + outcome.Message(),
			Hint:    bannerErrorHint,
		}
	}
}
