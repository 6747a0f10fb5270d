package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *OpenRouterClient {
	return NewOpenRouterClient(Params{
		APIKey:      "sk-test",
		Endpoint:    url,
		Model:       "test/model",
		Temperature: 0.1,
		MaxTokens:   64,
	})
}

func TestGenerateText_Completion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req completionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ping", req.Prompt)
		assert.Equal(t, "test/model", req.Model)
		assert.Equal(t, 64, req.MaxTokens)
		assert.InDelta(t, 0.1, req.Temperature, 1e-9)

		_, _ = w.Write([]byte(`{"choices":[{"text":"Here is a design..."}]}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).GenerateText(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "Here is a design...", got)
}

func TestGenerateText_ChatShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"from chat"}}]}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).GenerateText(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "from chat", got)
}

func TestGenerateText_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "oops"},
		{"rate limited", http.StatusTooManyRequests, ""},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"not json", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).GenerateText(context.Background(), "x")
			require.Error(t, err)
			if tt.status != http.StatusOK {
				var mce *ModelCallError
				require.True(t, errors.As(err, &mce))
				assert.Equal(t, tt.status, mce.Status)
			}
		})
	}
}

func TestGenerateText_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewOpenRouterClient(Params{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.GenerateText(context.Background(), "x")
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"text":"hi"}]}`))
	}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer bad.Close()

	assert.True(t, newTestClient(ok.URL).HealthCheck(context.Background()))
	assert.False(t, newTestClient(bad.URL).HealthCheck(context.Background()))
}

func TestModelCallError_RateLimitMessage(t *testing.T) {
	err := &ModelCallError{Status: 429, Body: "slow down"}
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestModelCallError_Message(t *testing.T) {
	err := &ModelCallError{Status: 401, Body: "  unauthorized \n"}
	assert.Equal(t, "HTTP 401: unauthorized", err.Error())
}

func TestModelCallError_TruncatesOnRuneBoundary(t *testing.T) {
	err := &ModelCallError{Status: 500, Body: strings.Repeat("é", 400)}

	msg := err.Error()
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, "HTTP 500: "+strings.Repeat("é", maxErrorBody)+"...", msg)
}
