package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// TextGenerator sends a prompt to a text generation model and returns its reply.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type AIService struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text *string `json:"text,omitempty"`
}

type GenerateContentResponse struct {
	Candidates []struct {
		Content *Content `json:"content"`
	} `json:"candidates"`
}

// NewAIService creates a client for the generateContent endpoint. A nil
// httpClient uses a client with the transport defaults.
func NewAIService(apiURL, apiKey string, httpClient *http.Client) *AIService {
	if apiURL == "" {
		apiURL = DefaultGeminiEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &AIService{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: httpClient,
	}
}

// GenerateContent performs one generateContent call. Failures are returned as
// *RequestError.
func (s *AIService) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := GenerateContentRequest{
		Contents: []Content{
			{
				Role:  "user",
				Parts: []Part{{Text: &prompt}},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", TransportError(err)
	}

	endpoint, err := s.endpoint()
	if err != nil {
		return "", TransportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", TransportError(redactURL(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", TransportError(redactURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", HTTPStatusError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var genResp GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", MalformedResponseError(msgInvalidJSON, err)
	}

	text, ok := genResp.firstText()
	if !ok {
		return "", MalformedResponseError(msgUnexpectedStructure, nil)
	}

	return text, nil
}

func (s *AIService) endpoint() (string, error) {
	u, err := url.Parse(s.apiURL)
	if err != nil {
		return "", errors.New("invalid generateContent endpoint")
	}
	q := u.Query()
	q.Set("key", s.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// firstText extracts candidates[0].content.parts[0].text.
func (r GenerateContentResponse) firstText() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0].Text == nil {
		return "", false
	}
	return *content.Parts[0].Text, true
}

// redactURL drops the request URL, which carries the API key, from transport errors.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
