package entities

import (
	"time"

	apperrors "github.com/alexholyk/sentiment-monitor/pkg/errors"
)

// InferenceEvent is one record per prediction request. Once appended to the
// event log it is never mutated or deleted; log order equals arrival order
// at the writer.
type InferenceEvent struct {
	ID                 string     `json:"id,omitempty"`
	Timestamp          time.Time  `json:"timestamp"`
	RequestText        string     `json:"request_text"`
	PredictedSentiment Sentiment  `json:"predicted_sentiment"`
	TrueSentiment      *Sentiment `json:"true_sentiment"`
}

// Labeled reports whether ground-truth feedback is present for this event.
func (e *InferenceEvent) Labeled() bool {
	return e.TrueSentiment != nil
}

// TextLength returns the request text length in runes, the numeric feature
// tracked for data drift.
func (e *InferenceEvent) TextLength() int {
	return len([]rune(e.RequestText))
}

// Validate checks the event against the log record schema.
func (e *InferenceEvent) Validate() error {
	if e.Timestamp.IsZero() {
		return apperrors.NewValidationError("timestamp is required")
	}
	if !e.PredictedSentiment.IsValid() {
		return apperrors.NewValidationError("predicted_sentiment must be positive or negative")
	}
	if e.TrueSentiment != nil && !e.TrueSentiment.IsValid() {
		return apperrors.NewValidationError("true_sentiment must be positive, negative or null")
	}
	return nil
}
