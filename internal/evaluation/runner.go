package evaluation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	"github.com/alexholyk/sentiment-monitor/internal/domain/providers"
	"github.com/alexholyk/sentiment-monitor/internal/domain/repositories"
	"github.com/alexholyk/sentiment-monitor/internal/infrastructure/observability"
	"github.com/alexholyk/sentiment-monitor/internal/monitoring"
)

// Runner drives the prediction capability with a labeled test set and
// appends one labeled inference event per successful item. A failed predict
// call only loses that item; the batch always runs to completion.
type Runner struct {
	predictor providers.Predictor
	eventLog  repositories.EventLogRepository
	timeout   time.Duration
}

// NewRunner creates a runner. timeout bounds each individual predict call.
func NewRunner(predictor providers.Predictor, eventLog repositories.EventLogRepository, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Runner{
		predictor: predictor,
		eventLog:  eventLog,
		timeout:   timeout,
	}
}

// Run evaluates every item in order and returns the aggregate summary.
func (r *Runner) Run(ctx context.Context, items []TestItem) (*Summary, error) {
	summary := &Summary{Total: len(items)}
	logger := observability.LoggerFromContext(ctx)

	var totalLatency time.Duration

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := r.evaluateItem(ctx, i, item)
		totalLatency += result.Latency

		if result.Err != nil {
			summary.Failed++
			logger.Warn().
				Err(result.Err).
				Int("item", i).
				Msg("predict call failed, item excluded from accuracy")
			continue
		}

		summary.Succeeded++
		if result.Match {
			summary.Matches++
		}

		event := &entities.InferenceEvent{
			ID:                 uuid.New().String(),
			Timestamp:          time.Now().UTC(),
			RequestText:        item.Text,
			PredictedSentiment: result.Predicted,
			TrueSentiment:      item.TrueLabel.Ptr(),
		}
		if err := r.eventLog.Append(ctx, event); err != nil {
			summary.AppendFailures++
			logger.Warn().Err(err).Int("item", i).Msg("failed to append evaluation event")
		}
	}

	if summary.Succeeded > 0 {
		summary.Accuracy = monitoring.DefinedRatio(float64(summary.Matches) / float64(summary.Succeeded))
	}
	if summary.Total > 0 {
		summary.AvgLatency = totalLatency / time.Duration(summary.Total)
	}

	return summary, nil
}

func (r *Runner) evaluateItem(ctx context.Context, index int, item TestItem) ItemResult {
	itemCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	predicted, err := r.predictor.Predict(itemCtx, item.Text)
	latency := time.Since(start)

	result := ItemResult{
		Index:     index,
		Text:      item.Text,
		TrueLabel: item.TrueLabel,
		Latency:   latency,
	}
	if err != nil {
		result.Err = err
		return result
	}

	result.Predicted = predicted
	result.Match = predicted == item.TrueLabel
	return result
}
