package protocol

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exercise-forge/internal/domain"
)

func envelope(content string) string {
	b, _ := json.Marshal(CompletionEnvelope{Choices: []CompletionChoice{{
		Index:   0,
		Message: domain.ChatMessage{Role: domain.RoleAssistant, Content: content},
	}}})
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(Config{BaseURL: server.URL + "/", Timeout: timeout, APIKey: "proxy-key"}, nil)
	require.NoError(t, err)
	return c
}

func mcRequest(t *testing.T) domain.ExerciseRequest {
	t.Helper()
	req, err := domain.NewExerciseRequest("multipleChoice", "present perfect tense", 3)
	require.NoError(t, err)
	return req
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	require.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://localhost:8090"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Second, c.cfg.Timeout)
}

func TestSubmit_Success(t *testing.T) {
	var got GenerateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer proxy-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(envelope("```json\n{\"questions\":[]}\n```")))
	}, time.Second)

	payload, err := c.Submit(context.Background(), mcRequest(t))
	require.NoError(t, err)
	assert.Equal(t, `{"questions":[]}`, payload.Raw())
	assert.Equal(t, GenerateRequest{Type: "multipleChoice", KnowledgePoint: "present perfect tense", Count: 3}, got)
}

func TestSubmit_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}, 50*time.Millisecond)

	start := time.Now()
	_, err := c.Submit(context.Background(), mcRequest(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRequestTimeout)
	assert.Equal(t, domain.StateTimedOut, domain.StateFromError(err))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSubmit_TransportErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"rate limited","details":{"code":"Throttling"}}`))
	}, time.Second)

	_, err := c.Submit(context.Background(), mcRequest(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "rate limited", domainErr.Message)
	assert.Equal(t, http.StatusInternalServerError, domainErr.Context["status"])
	assert.JSONEq(t, `{"code":"Throttling"}`, domainErr.Context["details"].(string))
}

func TestSubmit_TransportErrorPlainBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}, time.Second)

	_, err := c.Submit(context.Background(), mcRequest(t))
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeTransportError, domainErr.Code)
	assert.Equal(t, "proxy returned status 502", domainErr.Message)
	assert.Equal(t, "bad gateway", domainErr.Context["details"])
}

func TestSubmit_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := NewClient(Config{BaseURL: url, Timeout: time.Second}, nil)
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), mcRequest(t))
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestSubmit_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>oops</html>"},
		{name: "no choices", body: `{"choices":[]}`},
		{name: "content not json", body: envelope("Sure! Here are your questions.")},
		{name: "empty content", body: envelope("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}, time.Second)

			_, err := c.Submit(context.Background(), mcRequest(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestGenerateGapFill(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var got GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "gapFill", got.Type)
		assert.Zero(t, got.Count)
		_, _ = w.Write([]byte(envelope(`{"text":"He [GAP:went] (go) to school.","explanation":"past"}`)))
	}, time.Second)

	ex, err := c.GenerateGapFill(context.Background(), "past simple")
	require.NoError(t, err)
	assert.Equal(t, "He _____ (go) to school.", ex.DisplayText)
	assert.Equal(t, []domain.Gap{{Index: 0, Answer: "went"}}, ex.Gaps)
}

func TestGenerateMultipleChoice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(envelope(`{"questions":[{"question":"q","options":["a","b"],"correctAnswer":"B"}]}`)))
	}, time.Second)

	questions, err := c.GenerateMultipleChoice(context.Background(), "articles", 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, []string{"a", "b", "Option C", "Option D"}, questions[0].Options)
	assert.Equal(t, 1, questions[0].CorrectIndex)

	_, err = c.GenerateMultipleChoice(context.Background(), "", 1)
	var verrs domain.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestSubmit_TransportErrorStringDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"openai completion failed","details":"API returned unexpected status code: 401"}`))
	}, time.Second)

	_, err := c.Submit(context.Background(), mcRequest(t))
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "openai completion failed", domainErr.Message)
	assert.Equal(t, "API returned unexpected status code: 401", domainErr.Context["details"])
}
