// Package cache provides the content-addressed cache in front of the
// external analysis collaborator. Identical submissions are deduplicated:
// a hit returns the previously stored result without touching the remote
// service. There is no in-flight coalescing — only completed results are
// shared.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/obessu/eventflow/internal/ai"
	"github.com/obessu/eventflow/internal/model"
	"github.com/obessu/eventflow/pkg/fifo"
)

// keyPrefix versions the key space; bump it when the analysis schema
// changes so stale entries die naturally.
const keyPrefix = "analysis_v2_"

// DefaultMaxEntries bounds the primary in-process tier.
const DefaultMaxEntries = 50

// Key derives the content address for an analysis input: SHA-256 of the
// canonical payload — "{mimeType}:{base64}" for file input, the raw text
// otherwise.
func Key(in ai.Input) string {
	var content string
	if in.FileData != nil {
		content = in.FileData.MimeType + ":" + in.FileData.Data
	} else {
		content = in.Text
	}
	sum := sha256.Sum256([]byte(content))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Store is the optional durable tier. Implementations are best-effort:
// callers log and swallow every error and degrade to always-miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Recorder receives cache hit/miss observations. Satisfied by the metrics
// package; a nil Recorder disables recording.
type Recorder interface {
	RecordCacheHit(tier string)
	RecordCacheMiss()
}

// CachingAnalyzer wraps an Analyzer with the two-tier cache.
type CachingAnalyzer struct {
	remote   ai.Analyzer
	primary  *fifo.Cache[string, model.AnalysisResult]
	durable  Store // may be nil
	recorder Recorder
	logger   zerolog.Logger
}

// AnalyzerOption configures a CachingAnalyzer.
type AnalyzerOption func(*CachingAnalyzer)

// WithDurableStore attaches the optional durable tier.
func WithDurableStore(s Store) AnalyzerOption {
	return func(c *CachingAnalyzer) { c.durable = s }
}

// WithRecorder attaches a hit/miss recorder.
func WithRecorder(r Recorder) AnalyzerOption {
	return func(c *CachingAnalyzer) { c.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) AnalyzerOption {
	return func(c *CachingAnalyzer) { c.logger = l }
}

// NewCachingAnalyzer builds the cache in front of remote. maxEntries bounds
// the primary tier; values < 1 fall back to DefaultMaxEntries.
func NewCachingAnalyzer(remote ai.Analyzer, maxEntries int, opts ...AnalyzerOption) *CachingAnalyzer {
	if maxEntries < 1 {
		maxEntries = DefaultMaxEntries
	}
	c := &CachingAnalyzer{
		remote:  remote,
		primary: fifo.New[string, model.AnalysisResult](maxEntries),
		logger:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Analyze checks the primary tier, then the durable tier (promoting a hit
// into the primary tier), and only then calls the remote collaborator.
// Durable-tier failures are logged and swallowed.
func (c *CachingAnalyzer) Analyze(ctx context.Context, in ai.Input) (model.AnalysisResult, error) {
	key := Key(in)

	if result, ok := c.primary.Get(key); ok {
		c.recordHit("memory")
		return result, nil
	}

	if c.durable != nil {
		raw, found, err := c.durable.Get(ctx, key)
		if err != nil {
			c.logger.Warn().Err(err).Msg("durable cache read failed")
		} else if found {
			var result model.AnalysisResult
			if err := json.Unmarshal(raw, &result); err != nil {
				c.logger.Warn().Err(err).Msg("durable cache entry corrupt")
			} else {
				c.primary.Put(key, result)
				c.recordHit("durable")
				return result, nil
			}
		}
	}

	c.recordMiss()
	result, err := c.remote.Analyze(ctx, in)
	if err != nil {
		return result, err
	}
	c.save(ctx, key, result)
	return result, nil
}

func (c *CachingAnalyzer) save(ctx context.Context, key string, result model.AnalysisResult) {
	c.primary.Put(key, result)
	if c.durable == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn().Err(err).Msg("marshal cache entry failed")
		return
	}
	if err := c.durable.Put(ctx, key, raw); err != nil {
		c.logger.Warn().Err(err).Msg("durable cache write failed")
	}
}

func (c *CachingAnalyzer) recordHit(tier string) {
	if c.recorder != nil {
		c.recorder.RecordCacheHit(tier)
	}
}

func (c *CachingAnalyzer) recordMiss() {
	if c.recorder != nil {
		c.recorder.RecordCacheMiss()
	}
}
