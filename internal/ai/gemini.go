package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/obessu/eventflow/internal/aierrors"
	"github.com/obessu/eventflow/internal/model"
)

const (
	geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel  = "gemini-3-flash-preview"
	serviceName   = "gemini"
)

// GeminiClient implements Analyzer and Briefer against the Gemini
// generateContent API. No internal retries: transport failures surface
// wrapped, and the caller decides what to do.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// Option configures the client.
type Option func(*GeminiClient)

func WithModel(model string) Option {
	return func(c *GeminiClient) { c.model = model }
}

func WithBaseURL(url string) Option {
	return func(c *GeminiClient) { c.baseURL = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *GeminiClient) { c.client = hc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *GeminiClient) { c.logger = l }
}

// NewGeminiClient constructs a client. A missing API key is a configuration
// error: fatal to every AI-dependent operation and never retried.
func NewGeminiClient(apiKey string, opts ...Option) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, aierrors.ErrMissingCredential
	}
	c := &GeminiClient{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: geminiAPIBase,
		client:  &http.Client{Timeout: 120 * time.Second},
		logger:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ModelID returns the configured model identifier.
func (c *GeminiClient) ModelID() string { return c.model }

// ---- Gemini wire types ----

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string          `json:"response_mime_type,omitempty"`
	ResponseSchema   json.RawMessage `json:"response_schema,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generation_config,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// analysisSchema constrains the extraction output to the AnalysisResult
// shape. Kept as raw JSON: it is wire format, not Go data.
var analysisSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "sender": {"type": "STRING"},
    "senderEmail": {"type": "STRING"},
    "subject": {"type": "STRING"},
    "institution": {"type": "STRING"},
    "eventName": {"type": "STRING"},
    "theme": {"type": "STRING"},
    "description": {"type": "STRING"},
    "priority": {"type": "STRING", "enum": ["High", "Medium", "Low", "Irrelevant"]},
    "priorityScore": {"type": "INTEGER"},
    "priorityReasoning": {"type": "STRING"},
    "date": {"type": "STRING"},
    "venue": {"type": "STRING"},
    "initialDeadline": {"type": "STRING"},
    "finalDeadline": {"type": "STRING"},
    "linkedActivities": {"type": "ARRAY", "items": {"type": "STRING"}},
    "registrationLink": {"type": "STRING"},
    "programmeLink": {"type": "STRING"}
  },
  "required": ["sender", "institution", "eventName", "priority", "priorityScore", "date", "venue", "description"]
}`)

func (c *GeminiClient) doRequest(ctx context.Context, req geminiRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		// Deadline expiry and unreachable-host failures get distinct
		// sentinels; both classify as retryable.
		kind := aierrors.ErrUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			kind = aierrors.ErrTimeout
		}
		return "", &aierrors.APIError{
			Service: serviceName,
			Message: "request failed",
			Err:     fmt.Errorf("%w: %v", kind, err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &aierrors.APIError{Service: serviceName, StatusCode: resp.StatusCode, Message: "read body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "non-2xx response"
		var gr geminiResponse
		if json.Unmarshal(raw, &gr) == nil && gr.Error != nil {
			msg = gr.Error.Message
		}
		return "", aierrors.NewAPIError(serviceName, resp.StatusCode, msg)
	}

	var gr geminiResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", aierrors.NewParseError(serviceName, err)
	}
	if gr.Error != nil {
		return "", aierrors.NewAPIError(serviceName, gr.Error.Code, gr.Error.Message)
	}
	if len(gr.Candidates) == 0 {
		return "", aierrors.NewParseError(serviceName, fmt.Errorf("no candidates in response"))
	}

	var text string
	for _, part := range gr.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text, nil
}

// Analyze extracts structured event metadata from invitation content.
// Missing optional fields default to their zero values; LinkedActivities is
// never nil.
func (c *GeminiClient) Analyze(ctx context.Context, in Input) (model.AnalysisResult, error) {
	var result model.AnalysisResult
	if in.Empty() {
		return result, fmt.Errorf("%w: analysis needs text or file data", aierrors.ErrInvalidInput)
	}

	var parts []geminiPart
	if in.FileData != nil {
		parts = append(parts,
			geminiPart{InlineData: &geminiInlineData{MimeType: in.FileData.MimeType, Data: in.FileData.Data}},
			geminiPart{Text: analyzeFilePrompt},
		)
	} else {
		parts = append(parts, geminiPart{Text: analyzeTextPrompt(in.Text)})
	}

	text, err := c.doRequest(ctx, geminiRequest{
		Contents:          []geminiContent{{Parts: parts}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: analysisSystemInstruction}}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema,
		},
	})
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return result, aierrors.NewParseError(serviceName, err)
	}
	if result.LinkedActivities == nil {
		result.LinkedActivities = []string{}
	}

	c.logger.Debug().
		Str("event_name", result.EventName).
		Str("priority", string(result.Priority)).
		Int("score", result.PriorityScore).
		Msg("analysis complete")

	return result, nil
}

// GenerateBriefing produces a one-page executive briefing for the assigned
// representative.
func (c *GeminiClient) GenerateBriefing(ctx context.Context, ev *model.Event) (string, error) {
	if ev == nil || ev.Analysis.EventName == "" {
		return "", fmt.Errorf("%w: briefing needs an analyzed event", aierrors.ErrInvalidInput)
	}
	return c.doRequest(ctx, geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: briefingPrompt(ev)}}}},
	})
}

// SummarizeFollowUp summarizes a post-event document.
func (c *GeminiClient) SummarizeFollowUp(ctx context.Context, file FileData) (string, error) {
	return c.doRequest(ctx, geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{
			{InlineData: &geminiInlineData{MimeType: file.MimeType, Data: file.Data}},
			{Text: summarizePrompt},
		}}},
	})
}
