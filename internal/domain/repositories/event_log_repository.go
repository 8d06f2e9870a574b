package repositories

import (
	"context"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
)

// EventLogRepository is the append-only inference event log, the single
// source of truth for inference history. Append must be atomic with respect
// to concurrent appends and reads: a reader never observes a half-written
// record. ReadAll is a point-in-time snapshot, not a live subscription;
// malformed records encountered mid-scan are skipped and counted rather
// than aborting the read.
type EventLogRepository interface {
	// Append writes exactly one event as a self-contained record.
	Append(ctx context.Context, event *entities.InferenceEvent) error

	// ReadAll returns all currently durable events in append order, together
	// with the number of records skipped as malformed.
	ReadAll(ctx context.Context) ([]*entities.InferenceEvent, int, error)
}
