package providers

import (
	"context"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
)

// Predictor is the prediction capability consumed by the evaluator and the
// serving layer. Failures surface as errors, never panics.
type Predictor interface {
	Predict(ctx context.Context, text string) (entities.Sentiment, error)
}
