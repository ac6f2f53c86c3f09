package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obessu/eventflow/internal/aierrors"
	"github.com/obessu/eventflow/internal/model"
)

func candidateResponse(text string) string {
	raw, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return string(raw)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewGeminiClient("test-key", WithBaseURL(srv.URL))
	require.NoError(t, err)
	return client
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient("")
	assert.ErrorIs(t, err, aierrors.ErrMissingCredential)
}

func TestNewGeminiClientOptions(t *testing.T) {
	client, err := NewGeminiClient("k", WithModel("gemini-test"))
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", client.ModelID())
}

func TestAnalyzeSuccess(t *testing.T) {
	analysis := `{
		"sender": "Maria",
		"institution": "CEDEFOP",
		"eventName": "VET Summit",
		"theme": "VET",
		"description": "Annual summit",
		"priority": "High",
		"priorityScore": 85,
		"date": "2026-03-10",
		"venue": "Thessaloniki",
		"linkedActivities": ["Position Paper A"]
	}`

	var gotPath, gotKey string
	var gotBody geminiRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(candidateResponse(analysis)))
	})

	result, err := client.Analyze(context.Background(), Input{Text: "invitation text"})
	require.NoError(t, err)

	assert.Equal(t, "/models/gemini-3-flash-preview:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.NotNil(t, gotBody.GenerationConfig)
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMimeType)
	require.NotNil(t, gotBody.SystemInstruction)

	assert.Equal(t, "VET Summit", result.EventName)
	assert.Equal(t, model.PriorityHigh, result.Priority)
	assert.Equal(t, 85, result.PriorityScore)
	assert.Equal(t, []string{"Position Paper A"}, result.LinkedActivities)
}

func TestAnalyzeFileInputSendsInlineData(t *testing.T) {
	var gotBody geminiRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(candidateResponse(`{"sender":"x","institution":"y","eventName":"z","priority":"Low","priorityScore":10,"date":"","venue":"","description":""}`)))
	})

	_, err := client.Analyze(context.Background(), Input{
		FileData: &FileData{MimeType: "application/pdf", Data: "aGVsbG8="},
	})
	require.NoError(t, err)

	require.Len(t, gotBody.Contents, 1)
	parts := gotBody.Contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "application/pdf", parts[0].InlineData.MimeType)
	assert.Equal(t, "aGVsbG8=", parts[0].InlineData.Data)
	assert.NotEmpty(t, parts[1].Text)
}

func TestAnalyzeNilActivitiesNormalized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateResponse(`{"sender":"x","institution":"y","eventName":"z","priority":"Low","priorityScore":10,"date":"","venue":"","description":""}`)))
	})

	result, err := client.Analyze(context.Background(), Input{Text: "t"})
	require.NoError(t, err)
	require.NotNil(t, result.LinkedActivities)
	assert.Empty(t, result.LinkedActivities)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	client, err := NewGeminiClient("k")
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), Input{})
	assert.ErrorIs(t, err, aierrors.ErrInvalidInput)
}

func TestAnalyzeNon2xxIsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"quota exceeded"}}`))
	})

	_, err := client.Analyze(context.Background(), Input{Text: "t"})
	var apiErr *aierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 429, apiErr.StatusCode)
	assert.Equal(t, "quota exceeded", apiErr.Message)
	assert.True(t, aierrors.IsRetryable(err))
}

func TestAnalyzeGarbagePayloadIsParseError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{definitely not json"))
	})

	_, err := client.Analyze(context.Background(), Input{Text: "t"})
	var parseErr *aierrors.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.False(t, aierrors.IsRetryable(err))
}

func TestAnalyzeMalformedCandidateTextIsParseError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateResponse("sorry, I cannot do that")))
	})

	_, err := client.Analyze(context.Background(), Input{Text: "t"})
	var parseErr *aierrors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestAnalyzeNoCandidatesIsParseError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Analyze(context.Background(), Input{Text: "t"})
	var parseErr *aierrors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestAnalyzeTransportFailureIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connections now refused

	client, err := NewGeminiClient("k", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), Input{Text: "t"})
	var apiErr *aierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
	assert.ErrorIs(t, err, aierrors.ErrUnavailable)
	assert.True(t, aierrors.IsRetryable(err))
}

func TestAnalyzeDeadlineExpiryIsTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateResponse("{}")))
	})

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Millisecond))
	defer cancel()

	_, err := client.Analyze(ctx, Input{Text: "t"})
	assert.ErrorIs(t, err, aierrors.ErrTimeout)
	assert.True(t, aierrors.IsRetryable(err))
}

func TestGenerateBriefing(t *testing.T) {
	var gotBody geminiRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(candidateResponse("## Briefing\nAttend and speak.")))
	})

	ev := &model.Event{
		ID: "ev-1",
		Analysis: model.AnalysisResult{
			EventName:   "VET Summit",
			Institution: "CEDEFOP",
			Date:        "2026-03-10",
		},
	}
	text, err := client.GenerateBriefing(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, "## Briefing\nAttend and speak.", text)

	require.Len(t, gotBody.Contents, 1)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "VET Summit")
}

func TestGenerateBriefingRequiresAnalyzedEvent(t *testing.T) {
	client, err := NewGeminiClient("k")
	require.NoError(t, err)

	_, err = client.GenerateBriefing(context.Background(), nil)
	assert.ErrorIs(t, err, aierrors.ErrInvalidInput)

	_, err = client.GenerateBriefing(context.Background(), &model.Event{})
	assert.ErrorIs(t, err, aierrors.ErrInvalidInput)
}

func TestSummarizeFollowUp(t *testing.T) {
	var gotBody geminiRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(candidateResponse("Summary of the outcome document.")))
	})

	text, err := client.SummarizeFollowUp(context.Background(), FileData{MimeType: "application/pdf", Data: "ZG9j"})
	require.NoError(t, err)
	assert.Equal(t, "Summary of the outcome document.", text)

	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 2)
	require.NotNil(t, gotBody.Contents[0].Parts[0].InlineData)
}

func TestInputEmpty(t *testing.T) {
	assert.True(t, Input{}.Empty())
	assert.False(t, Input{Text: "x"}.Empty())
	assert.False(t, Input{FileData: &FileData{}}.Empty())
}
