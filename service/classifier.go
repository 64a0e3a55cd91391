package service

import (
	"strings"

	"credit-predictor/domain"
)

// Classify maps the model reply to a verdict. The good phrase wins when both
// phrases appear.
func Classify(rawText string) domain.PredictionOutcome {
	switch {
	case strings.Contains(rawText, GoodRiskPhrase):
		return domain.GoodRisk(rawText)
	case strings.Contains(rawText, BadRiskPhrase):
		return domain.BadRisk(rawText)
	default:
		return domain.Unclassified(rawText)
	}
}
