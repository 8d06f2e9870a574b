package monitoring

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	"github.com/alexholyk/sentiment-monitor/internal/domain/providers"
	"github.com/alexholyk/sentiment-monitor/internal/domain/repositories"
	"github.com/alexholyk/sentiment-monitor/internal/infrastructure/observability"
)

const snapshotCacheKey = "monitor:snapshot"

// Report is one dashboard snapshot: drift, feedback metrics and the alert
// state, all derived from the event log at scan time.
type Report struct {
	GeneratedAt      time.Time       `json:"generated_at"`
	TotalEvents      int             `json:"total_events"`
	SkippedRecords   int             `json:"skipped_records"`
	Drift            *DriftReport    `json:"drift"`
	Feedback         FeedbackMetrics `json:"feedback"`
	Alert            bool            `json:"alert"`
	AlertThreshold   float64         `json:"alert_threshold"`
	InsufficientData bool            `json:"insufficient_data"`
}

// Monitor assembles dashboard reports by re-reading the event log on each
// pass. The log is the only source of truth; the optional snapshot cache
// just absorbs bursts of dashboard polls and expires within seconds.
type Monitor struct {
	log       repositories.EventLogRepository
	reference *entities.ReferenceSample
	drift     *DriftAnalyzer
	threshold float64
	cache     providers.CacheProvider
	cacheTTL  time.Duration
}

// NewMonitor creates a monitor over the given log and reference baseline.
// cache may be nil.
func NewMonitor(
	log repositories.EventLogRepository,
	reference *entities.ReferenceSample,
	drift *DriftAnalyzer,
	threshold float64,
	cache providers.CacheProvider,
	cacheTTL time.Duration,
) *Monitor {
	if threshold <= 0 {
		threshold = DefaultAlertThreshold
	}
	return &Monitor{
		log:       log,
		reference: reference,
		drift:     drift,
		threshold: threshold,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// Snapshot scans the log and computes a fresh report, consulting the
// short-lived cache first when one is configured.
func (m *Monitor) Snapshot(ctx context.Context) (*Report, error) {
	if m.cache != nil {
		if data, err := m.cache.Get(ctx, snapshotCacheKey); err == nil {
			var cached Report
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	report, err := m.compute(ctx)
	if err != nil {
		return nil, err
	}

	if m.cache != nil && m.cacheTTL > 0 {
		if data, err := json.Marshal(report); err == nil {
			if err := m.cache.Set(ctx, snapshotCacheKey, data, int(m.cacheTTL.Seconds())); err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to cache monitor snapshot")
			}
		}
	}

	return report, nil
}

func (m *Monitor) compute(ctx context.Context) (*Report, error) {
	events, skipped, err := m.log.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	metrics := ComputeMetrics(events)

	return &Report{
		GeneratedAt:      time.Now().UTC(),
		TotalEvents:      len(events),
		SkippedRecords:   skipped,
		Drift:            m.drift.Compare(m.reference, events),
		Feedback:         metrics,
		Alert:            EvaluateAlert(metrics, m.threshold),
		AlertThreshold:   m.threshold,
		InsufficientData: metrics.LabeledTotal == 0,
	}, nil
}
