package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"credit-predictor/domain"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateContent_RequestShape(t *testing.T) {

	var (
		gotMethod      string
		gotKey         string
		gotContentType string
		gotBody        map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotKey = r.URL.Query().Get("key")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Good Credit Risk"}]}}]}`)
	}))
	defer srv.Close()

	client := NewAIService(srv.URL+"/v1beta/models/gemini-2.0-flash:generateContent", testAPIKey, srv.Client())

	if _, err := client.GenerateContent(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if gotKey != testAPIKey {
		t.Errorf("expected key %q, got %q", testAPIKey, gotKey)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected application/json, got %q", gotContentType)
	}

	raw, _ := json.Marshal(gotBody)
	want := `{"contents":[{"parts":[{"text":"hello"}],"role":"user"}]}`
	if string(raw) != want {
		t.Errorf("unexpected body:\n got  %s\n want %s", raw, want)
	}
}

func TestGenerateContent_ReturnsFirstPartText(t *testing.T) {

	srv := newTestServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"Bad Credit Risk"},{"text":"ignored"}]}},{"content":{"parts":[{"text":"other"}]}}]}`)
	client := NewAIService(srv.URL, testAPIKey, srv.Client())

	text, err := client.GenerateContent(context.Background(), "prompt")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Bad Credit Risk" {
		t.Errorf("expected first part text, got %q", text)
	}
}

func TestGenerateContent_Failures(t *testing.T) {

	tests := []struct {
		name   string
		status int
		body   string
		kind   domain.FailureKind
		detail string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, domain.FailureHTTPStatus, "API error (status 500)"},
		{"forbidden", http.StatusForbidden, `{"error":"API key not valid"}`, domain.FailureHTTPStatus, "status 403"},
		{"empty candidates", http.StatusOK, `{"candidates":[]}`, domain.FailureMalformedResponse, "unexpected API response structure"},
		{"missing candidates", http.StatusOK, `{}`, domain.FailureMalformedResponse, "unexpected API response structure"},
		{"missing content", http.StatusOK, `{"candidates":[{}]}`, domain.FailureMalformedResponse, "unexpected API response structure"},
		{"empty parts", http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`, domain.FailureMalformedResponse, "unexpected API response structure"},
		{"missing text", http.StatusOK, `{"candidates":[{"content":{"parts":[{}]}}]}`, domain.FailureMalformedResponse, "unexpected API response structure"},
		{"invalid json", http.StatusOK, `not json`, domain.FailureMalformedResponse, "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body)
			client := NewAIService(srv.URL, testAPIKey, srv.Client())

			_, err := client.GenerateContent(context.Background(), "prompt")

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("expected *RequestError, got %v", err)
			}
			if reqErr.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, reqErr.Kind)
			}
			if !strings.Contains(reqErr.Detail, tt.detail) {
				t.Errorf("expected detail containing %q, got %q", tt.detail, reqErr.Detail)
			}
		})
	}
}

func TestGenerateContent_TransportErrorHidesKey(t *testing.T) {

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewAIService(url, "secret-value", nil)

	_, err := client.GenerateContent(context.Background(), "prompt")

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %v", err)
	}
	if reqErr.Kind != domain.FailureTransport {
		t.Errorf("expected transport error, got %s", reqErr.Kind)
	}
	if !strings.HasPrefix(reqErr.Detail, "failed to fetch prediction:") {
		t.Errorf("unexpected detail %q", reqErr.Detail)
	}
	if strings.Contains(reqErr.Detail, "secret-value") {
		t.Errorf("detail leaks api key: %q", reqErr.Detail)
	}
}
