package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	"github.com/alexholyk/sentiment-monitor/internal/domain/providers"
	"github.com/alexholyk/sentiment-monitor/internal/domain/repositories"
	"github.com/alexholyk/sentiment-monitor/internal/infrastructure/observability"
)

// PredictionService serves classifications and records one inference event
// per request. Logging is best-effort: a failed append must never fail the
// prediction response, monitoring is not allowed to become a point of
// failure for serving.
type PredictionService struct {
	predictor providers.Predictor
	eventLog  repositories.EventLogRepository
	bus       providers.EventBus
	metrics   *observability.Metrics

	writeFailureOnce sync.Once
}

// NewPredictionService creates a prediction service. bus and metrics may be
// nil.
func NewPredictionService(
	predictor providers.Predictor,
	eventLog repositories.EventLogRepository,
	bus providers.EventBus,
	metrics *observability.Metrics,
) *PredictionService {
	return &PredictionService{
		predictor: predictor,
		eventLog:  eventLog,
		bus:       bus,
		metrics:   metrics,
	}
}

// Predict classifies the text, appends the inference event and returns the
// event along with whether the append succeeded.
func (s *PredictionService) Predict(ctx context.Context, text string, trueLabel *entities.Sentiment) (*entities.InferenceEvent, bool, error) {
	predicted, err := s.predictor.Predict(ctx, text)
	if err != nil {
		return nil, false, err
	}

	event := &entities.InferenceEvent{
		ID:                 uuid.New().String(),
		Timestamp:          time.Now().UTC(),
		RequestText:        text,
		PredictedSentiment: predicted,
		TrueSentiment:      trueLabel,
	}

	logged := true
	if err := s.eventLog.Append(ctx, event); err != nil {
		logged = false
		s.reportAppendFailure(ctx, err)
	} else {
		s.publishHint(event.ID)
	}

	observability.RecordPrediction(ctx, s.metrics, string(predicted), logged)
	return event, logged, nil
}

// reportAppendFailure logs the first append failure loudly; repeats are
// visible through the failure counter without flooding the log.
func (s *PredictionService) reportAppendFailure(ctx context.Context, err error) {
	logger := observability.LoggerFromContext(ctx)
	s.writeFailureOnce.Do(func() {
		logger.Error().Err(err).Msg("event log is unwritable, serving predictions without logging")
	})
	logger.Debug().Err(err).Msg("failed to append inference event")
}

// publishHint notifies dashboard subscribers that the log grew. Runs in the
// background on a fresh context since the request context may be cancelled
// before Redis acknowledges.
func (s *PredictionService) publishHint(eventID string) {
	if s.bus == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		hint := &providers.MonitorEvent{
			ID:        eventID,
			EventType: providers.EventTypeLogAppended,
			Timestamp: time.Now().UTC(),
		}
		if err := s.bus.Publish(ctx, providers.EventChannelMonitorUpdates, hint); err != nil {
			observability.GetLogger().Warn().Err(err).Msg("failed to publish monitor refresh hint")
		}
	}()
}
