package service

const (
	GoodRiskPhrase = "Good Credit Risk"
	BadRiskPhrase  = "Bad Credit Risk"

	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

	// bytes of an error body copied into the detail
	maxErrorBodyBytes = 512

	msgUnexpectedStructure = "unexpected API response structure"
	msgInvalidJSON         = "failed to parse API response: invalid JSON"
)
