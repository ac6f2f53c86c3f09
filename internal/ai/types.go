// Package ai implements the client for the external analysis collaborator.
// The collaborator is an opaque remote service: it receives invitation
// content and returns structured metadata or prose. Providers sit behind
// the Analyzer interface so tests can swap in fakes.
package ai

import (
	"context"

	"github.com/obessu/eventflow/internal/model"
)

// FileData carries an uploaded document as base64 plus its MIME type.
// File-to-text extraction is not done here; bytes pass through unchanged.
type FileData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

// Input is the analysis request payload. Exactly one of Text or FileData
// should be set; an empty input is rejected with ErrInvalidInput.
type Input struct {
	Text     string    `json:"text,omitempty"`
	FileData *FileData `json:"file_data,omitempty"`
}

// Empty reports whether the input carries no content at all.
func (in Input) Empty() bool {
	return in.Text == "" && in.FileData == nil
}

// Analyzer extracts structured event metadata from invitation content.
type Analyzer interface {
	Analyze(ctx context.Context, in Input) (model.AnalysisResult, error)
}

// Briefer produces prose artifacts around an event.
type Briefer interface {
	GenerateBriefing(ctx context.Context, ev *model.Event) (string, error)
	SummarizeFollowUp(ctx context.Context, file FileData) (string, error)
}
