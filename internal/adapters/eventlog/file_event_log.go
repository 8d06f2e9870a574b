package eventlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	"github.com/alexholyk/sentiment-monitor/internal/domain/repositories"
	apperrors "github.com/alexholyk/sentiment-monitor/pkg/errors"
)

// maxRecordSize bounds a single log record, newline included. Append rejects
// anything larger and scans discard longer lines as malformed, so the two
// sides agree on what a well-formed record is. Review texts are short; 1 MiB
// leaves generous headroom.
const maxRecordSize = 1 << 20

// FileEventLog implements the append-only event log on a single NDJSON file
// shared across process boundaries. Each append writes one record plus its
// trailing newline in a single write on an O_APPEND handle, so a concurrent
// reader never sees a half-written record from this writer and appends from
// separate processes do not interleave.
type FileEventLog struct {
	path string

	mu   sync.Mutex
	file *os.File
}

// NewFileEventLog creates an event log backed by the file at path. The file
// and its directory are created on first append, not here, so a read-only
// monitor can be pointed at a log that does not exist yet.
func NewFileEventLog(path string) *FileEventLog {
	return &FileEventLog{path: path}
}

var _ repositories.EventLogRepository = (*FileEventLog)(nil)

// Append writes exactly one event as a self-contained record. An event whose
// encoded record would exceed maxRecordSize is rejected up front, so every
// accepted record survives a later scan intact.
func (l *FileEventLog) Append(ctx context.Context, event *entities.InferenceEvent) error {
	if event == nil {
		return apperrors.NewValidationError("event is nil")
	}
	if err := event.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal inference event", err)
	}
	record := append(data, '\n')
	if len(record) > maxRecordSize {
		return apperrors.NewValidationError("inference event exceeds the maximum record size")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if l.file == nil {
		if err := l.open(); err != nil {
			return apperrors.NewWriteFailureError("failed to open event log for append", err)
		}
	}

	// One Write call per record keeps the append indivisible.
	if _, err := l.file.Write(record); err != nil {
		return apperrors.NewWriteFailureError("failed to append inference event", err)
	}

	return nil
}

// ReadAll returns a snapshot of all durable events in append order, with the
// count of records skipped as malformed. A missing or empty file yields an
// empty slice, not an error: a reader may run before the writer has ever
// appended. A trailing record racing an in-flight write parses as invalid
// JSON and is skipped and counted, never aborting the scan; the same holds
// for a line longer than maxRecordSize, which some foreign writer must have
// produced. Only failures of the medium itself propagate.
func (l *FileEventLog) ReadAll(ctx context.Context) ([]*entities.InferenceEvent, int, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*entities.InferenceEvent{}, 0, nil
		}
		return nil, 0, apperrors.NewInternalError("failed to open event log for read", err)
	}
	defer f.Close()

	events := make([]*entities.InferenceEvent, 0, 64)
	skipped := 0

	reader := bufio.NewReaderSize(f, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		line, tooLong, readErr := readRecordLine(reader)
		if tooLong {
			skipped++
		} else if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			if event, ok := parseRecord(trimmed); ok {
				events = append(events, event)
			} else {
				skipped++
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan event log", readErr)
		}
	}

	return events, skipped, nil
}

// readRecordLine reads up to and including the next newline. A line longer
// than maxRecordSize is discarded to its terminating newline and reported as
// tooLong instead of being returned, keeping memory bounded no matter what
// the file contains.
func readRecordLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, readErr := r.ReadSlice('\n')
		if !tooLong && len(chunk) > 0 {
			buf = append(buf, chunk...)
			if len(buf) > maxRecordSize {
				tooLong = true
				buf = nil
			}
		}
		if readErr == bufio.ErrBufferFull {
			continue
		}
		if tooLong {
			return nil, true, readErr
		}
		return buf, false, readErr
	}
}

// parseRecord parses one log line into a validated event. Records are
// independent; a failure here only affects this line.
func parseRecord(line []byte) (*entities.InferenceEvent, bool) {
	var event entities.InferenceEvent
	if err := json.Unmarshal(line, &event); err != nil {
		return nil, false
	}
	if err := event.Validate(); err != nil {
		return nil, false
	}
	return &event, true
}

func (l *FileEventLog) open() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	l.file = f
	return nil
}

// Close releases the append handle if one was opened.
func (l *FileEventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
