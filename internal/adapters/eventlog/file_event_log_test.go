package eventlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	apperrors "github.com/alexholyk/sentiment-monitor/pkg/errors"
)

func newEvent(text string, predicted entities.Sentiment, trueLabel *entities.Sentiment) *entities.InferenceEvent {
	return &entities.InferenceEvent{
		ID:                 "evt-1",
		Timestamp:          time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		RequestText:        text,
		PredictedSentiment: predicted,
		TrueSentiment:      trueLabel,
	}
}

func TestFileEventLog_AppendReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prediction_logs.json")
	log := NewFileEventLog(path)
	ctx := context.Background()

	labeled := newEvent("great movie", entities.SentimentPositive, entities.SentimentPositive.Ptr())
	unlabeled := newEvent("terrible plot", entities.SentimentNegative, nil)

	require.NoError(t, log.Append(ctx, labeled))
	require.NoError(t, log.Append(ctx, unlabeled))

	events, skipped, err := log.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, events, 2)

	// Field-for-field round trip, in append order.
	assert.Equal(t, labeled.RequestText, events[0].RequestText)
	assert.Equal(t, labeled.PredictedSentiment, events[0].PredictedSentiment)
	require.NotNil(t, events[0].TrueSentiment)
	assert.Equal(t, *labeled.TrueSentiment, *events[0].TrueSentiment)
	assert.True(t, labeled.Timestamp.Equal(events[0].Timestamp))

	assert.Equal(t, unlabeled.RequestText, events[1].RequestText)
	assert.Nil(t, events[1].TrueSentiment)
}

func TestFileEventLog_ReadAll_MissingFile(t *testing.T) {
	log := NewFileEventLog(filepath.Join(t.TempDir(), "does-not-exist.json"))

	events, skipped, err := log.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 0, skipped)
}

func TestFileEventLog_ReadAll_SkipsMalformedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prediction_logs.json")

	lines := "" +
		`{"timestamp":"2026-08-25T12:00:00Z","request_text":"good","predicted_sentiment":"positive","true_sentiment":null}` + "\n" +
		`{"timestamp":"2026-08-25T12:00:01Z","request_text":"truncated mid-wri` + "\n" + // racing an in-flight write
		`not json at all` + "\n" +
		`{"timestamp":"2026-08-25T12:00:02Z","request_text":"bad label","predicted_sentiment":"meh","true_sentiment":null}` + "\n" +
		`{"timestamp":"2026-08-25T12:00:03Z","request_text":"fine","predicted_sentiment":"negative","true_sentiment":"negative"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	events, skipped, err := NewFileEventLog(path).ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, events, 2)
	assert.Equal(t, "good", events[0].RequestText)
	assert.Equal(t, "fine", events[1].RequestText)
}

func TestFileEventLog_ReadAll_OversizedLineIsSkippedNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prediction_logs.json")

	// A 2 MiB record from some foreign writer, wedged between two good ones.
	oversized := fmt.Sprintf(
		`{"timestamp":"2026-08-25T12:00:01Z","request_text":"%s","predicted_sentiment":"positive","true_sentiment":null}`,
		strings.Repeat("a", 2<<20),
	)
	lines := "" +
		`{"timestamp":"2026-08-25T12:00:00Z","request_text":"good","predicted_sentiment":"positive","true_sentiment":null}` + "\n" +
		oversized + "\n" +
		`{"timestamp":"2026-08-25T12:00:02Z","request_text":"fine","predicted_sentiment":"negative","true_sentiment":"negative"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	events, skipped, err := NewFileEventLog(path).ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, events, 2)
	assert.Equal(t, "good", events[0].RequestText)
	assert.Equal(t, "fine", events[1].RequestText)
}

func TestFileEventLog_Append_RejectsOversizedEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prediction_logs.json")
	log := NewFileEventLog(path)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, newEvent("tiny", entities.SentimentPositive, nil)))

	err := log.Append(ctx, newEvent(strings.Repeat("a", 2<<20), entities.SentimentPositive, nil))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	// The rejected event left no trace; the log scans cleanly.
	events, skipped, readErr := log.ReadAll(ctx)
	require.NoError(t, readErr)
	assert.Equal(t, 0, skipped)
	require.Len(t, events, 1)
	assert.Equal(t, "tiny", events[0].RequestText)
}

func TestFileEventLog_Append_RejectsInvalidEvent(t *testing.T) {
	log := NewFileEventLog(filepath.Join(t.TempDir(), "prediction_logs.json"))

	err := log.Append(context.Background(), &entities.InferenceEvent{
		Timestamp:          time.Now().UTC(),
		RequestText:        "text",
		PredictedSentiment: entities.Sentiment("neutralish"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestFileEventLog_Append_UnwritableMedium(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	log := NewFileEventLog(filepath.Join(dir, "prediction_logs.json"))
	err := log.Append(context.Background(), newEvent("text", entities.SentimentPositive, nil))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeWriteFailure))
}

func TestFileEventLog_ConcurrentWriterAndReaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prediction_logs.json")
	log := NewFileEventLog(path)
	ctx := context.Background()

	const writes = 200
	const scans = 50

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			event := newEvent(fmt.Sprintf("review %d", i), entities.SentimentPositive, nil)
			if err := log.Append(ctx, event); err != nil {
				t.Errorf("append %d: %v", i, err)
				return
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < scans; i++ {
			events, skipped, err := log.ReadAll(ctx)
			if err != nil {
				t.Errorf("scan %d: %v", i, err)
				return
			}
			// Every observed record is well-formed; nothing is ever skipped
			// because appends land as one indivisible write.
			if skipped != 0 {
				t.Errorf("scan %d: observed %d skipped records", i, skipped)
				return
			}
			if len(events) > writes {
				t.Errorf("scan %d: observed %d events, want at most %d", i, len(events), writes)
				return
			}
		}
	}()

	wg.Wait()

	events, skipped, err := log.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, events, writes)
	for i, event := range events {
		assert.Equal(t, fmt.Sprintf("review %d", i), event.RequestText)
	}
}
