package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obessu/eventflow/internal/ai"
	"github.com/obessu/eventflow/internal/model"
)

// countingAnalyzer counts remote calls and returns a canned result.
type countingAnalyzer struct {
	calls  int
	result model.AnalysisResult
	err    error
}

func (c *countingAnalyzer) Analyze(ctx context.Context, in ai.Input) (model.AnalysisResult, error) {
	c.calls++
	return c.result, c.err
}

// memStore is an in-memory durable tier with injectable failures.
type memStore struct {
	data   map[string][]byte
	getErr error
	putErr error
	gets   int
	puts   int
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.gets++
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	raw, ok := m.data[key]
	return raw, ok, nil
}

func (m *memStore) Put(ctx context.Context, key string, value []byte) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Close() error { return nil }

type recordingRecorder struct {
	hits   map[string]int
	misses int
}

func (r *recordingRecorder) RecordCacheHit(tier string) {
	if r.hits == nil {
		r.hits = map[string]int{}
	}
	r.hits[tier]++
}

func (r *recordingRecorder) RecordCacheMiss() { r.misses++ }

func sampleResult() model.AnalysisResult {
	return model.AnalysisResult{
		EventName:        "VET Summit",
		Institution:      "CEDEFOP",
		Date:             "2026-03-10",
		Priority:         model.PriorityHigh,
		Theme:            "VET",
		LinkedActivities: []string{"Position Paper A"},
	}
}

func TestKeyIsDeterministicAndContentAddressed(t *testing.T) {
	text := ai.Input{Text: "Invitation to the VET Summit"}
	assert.Equal(t, Key(text), Key(text))
	assert.True(t, strings.HasPrefix(Key(text), "analysis_v2_"))
	assert.Len(t, Key(text), len("analysis_v2_")+64)

	other := ai.Input{Text: "Invitation to the VET Summit!"}
	assert.NotEqual(t, Key(text), Key(other))

	file := ai.Input{FileData: &ai.FileData{MimeType: "application/pdf", Data: "aGVsbG8="}}
	sameBytes := ai.Input{FileData: &ai.FileData{MimeType: "text/plain", Data: "aGVsbG8="}}
	assert.NotEqual(t, Key(file), Key(sameBytes), "mime type is part of the address")
}

func TestAnalyzeDeduplicatesIdenticalSubmissions(t *testing.T) {
	remote := &countingAnalyzer{result: sampleResult()}
	ca := NewCachingAnalyzer(remote, 10)
	in := ai.Input{Text: "same invitation"}

	first, err := ca.Analyze(context.Background(), in)
	require.NoError(t, err)
	second, err := ca.Analyze(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 1, remote.calls, "second identical submission must be served from cache")
	assert.Equal(t, first, second)
}

func TestAnalyzeDistinctInputsEachCallRemote(t *testing.T) {
	remote := &countingAnalyzer{result: sampleResult()}
	ca := NewCachingAnalyzer(remote, 10)

	_, err := ca.Analyze(context.Background(), ai.Input{Text: "one"})
	require.NoError(t, err)
	_, err = ca.Analyze(context.Background(), ai.Input{Text: "two"})
	require.NoError(t, err)

	assert.Equal(t, 2, remote.calls)
}

func TestAnalyzeRemoteErrorNotCached(t *testing.T) {
	remote := &countingAnalyzer{err: errors.New("boom")}
	ca := NewCachingAnalyzer(remote, 10)
	in := ai.Input{Text: "failing"}

	_, err := ca.Analyze(context.Background(), in)
	require.Error(t, err)
	_, err = ca.Analyze(context.Background(), in)
	require.Error(t, err)

	assert.Equal(t, 2, remote.calls, "failures must not poison the cache")
}

func TestAnalyzeDurableHitPromotesToPrimary(t *testing.T) {
	remote := &countingAnalyzer{result: sampleResult()}
	store := newMemStore()

	raw, err := json.Marshal(sampleResult())
	require.NoError(t, err)
	in := ai.Input{Text: "seen before"}
	store.data[Key(in)] = raw

	rec := &recordingRecorder{}
	ca := NewCachingAnalyzer(remote, 10, WithDurableStore(store), WithRecorder(rec))

	got, err := ca.Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, sampleResult(), got)
	assert.Zero(t, remote.calls)
	assert.Equal(t, 1, rec.hits["durable"])

	// Promoted: second read never touches the durable tier again.
	_, err = ca.Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, store.gets)
	assert.Equal(t, 1, rec.hits["memory"])
}

func TestAnalyzeMissWritesBothTiers(t *testing.T) {
	remote := &countingAnalyzer{result: sampleResult()}
	store := newMemStore()
	ca := NewCachingAnalyzer(remote, 10, WithDurableStore(store))
	in := ai.Input{Text: "fresh"}

	_, err := ca.Analyze(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 1, remote.calls)
	_, ok := store.data[Key(in)]
	assert.True(t, ok, "result must land in the durable tier")
}

func TestAnalyzeDurableFailuresAreSwallowed(t *testing.T) {
	remote := &countingAnalyzer{result: sampleResult()}
	store := newMemStore()
	store.getErr = errors.New("disk gone")
	store.putErr = errors.New("disk gone")
	ca := NewCachingAnalyzer(remote, 10, WithDurableStore(store))
	in := ai.Input{Text: "degraded"}

	got, err := ca.Analyze(context.Background(), in)
	require.NoError(t, err, "durable tier failure must not surface")
	assert.Equal(t, sampleResult(), got)
	assert.Equal(t, 1, remote.calls)
}

func TestAnalyzeCorruptDurableEntryFallsThrough(t *testing.T) {
	remote := &countingAnalyzer{result: sampleResult()}
	store := newMemStore()
	in := ai.Input{Text: "corrupt"}
	store.data[Key(in)] = []byte("{not json")
	ca := NewCachingAnalyzer(remote, 10, WithDurableStore(store))

	got, err := ca.Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, sampleResult(), got)
	assert.Equal(t, 1, remote.calls, "corrupt entry counts as a miss")
}

func TestAnalyzeEvictionBoundsRemoteCalls(t *testing.T) {
	remote := &countingAnalyzer{result: sampleResult()}
	ca := NewCachingAnalyzer(remote, 2)

	for i := 0; i < 3; i++ {
		_, err := ca.Analyze(context.Background(), ai.Input{Text: fmt.Sprintf("input-%d", i)})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, remote.calls)

	// input-0 was evicted (FIFO, capacity 2) so it costs another call.
	_, err := ca.Analyze(context.Background(), ai.Input{Text: "input-0"})
	require.NoError(t, err)
	assert.Equal(t, 4, remote.calls)

	// input-2 is still resident.
	_, err = ca.Analyze(context.Background(), ai.Input{Text: "input-2"})
	require.NoError(t, err)
	assert.Equal(t, 4, remote.calls)
}

func TestRecorderCountsMisses(t *testing.T) {
	remote := &countingAnalyzer{result: sampleResult()}
	rec := &recordingRecorder{}
	ca := NewCachingAnalyzer(remote, 10, WithRecorder(rec))

	_, err := ca.Analyze(context.Background(), ai.Input{Text: "x"})
	require.NoError(t, err)
	_, err = ca.Analyze(context.Background(), ai.Input{Text: "x"})
	require.NoError(t, err)

	assert.Equal(t, 1, rec.misses)
	assert.Equal(t, 1, rec.hits["memory"])
}
