package service

import (
	"fmt"

	"credit-predictor/domain"
)

const promptTemplate = `Based on the following customer details, determine if they are likely a "Good Credit Risk" or "Bad Credit Risk". Provide a clear answer: "Good Credit Risk" or "Bad Credit Risk".
Age: %d
Credit Duration: %d months
Credit Amount: %d
Purpose: %s
Housing: %s
Job: %s

Consider general factors like higher age, lower duration, and lower amount being generally better, and purposes like education/business being potentially better than luxury items.
`

// BuildPrompt renders the profile into the prompt sent to the model. The
// output depends only on the profile.
func BuildPrompt(profile domain.CustomerProfile) string {
	return fmt.Sprintf(promptTemplate,
		profile.Age,
		profile.DurationMonths,
		profile.Amount,
		profile.Purpose,
		profile.Housing,
		profile.Job,
	)
}
