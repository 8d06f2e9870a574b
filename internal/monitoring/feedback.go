package monitoring

import (
	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
)

// DefaultAlertThreshold is the accuracy floor below which the dashboard
// raises its alert banner.
const DefaultAlertThreshold = 0.80

// Ratio is a metric that can be explicitly undefined. An undefined metric
// means "insufficient data" and is never coerced to 0 or 1; Value is
// meaningful only when Defined is true.
type Ratio struct {
	Defined bool    `json:"defined"`
	Value   float64 `json:"value"`
}

// DefinedRatio returns a defined ratio with the given value.
func DefinedRatio(value float64) Ratio {
	return Ratio{Defined: true, Value: value}
}

// FeedbackMetrics holds accuracy and precision over the labeled subset of
// the event log. The confusion counts treat positive as the positive class.
type FeedbackMetrics struct {
	TruePositives  int `json:"true_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
	LabeledTotal   int `json:"labeled_total"`

	Accuracy  Ratio `json:"accuracy"`
	Precision Ratio `json:"precision"`
}

// ComputeMetrics filters events to those carrying ground truth and computes
// accuracy and precision. With no labeled events both metrics come back
// undefined; precision alone is undefined when the model never predicted
// positive among labeled events.
func ComputeMetrics(events []*entities.InferenceEvent) FeedbackMetrics {
	var m FeedbackMetrics

	for _, event := range events {
		if !event.Labeled() {
			continue
		}
		m.LabeledTotal++

		predictedPositive := event.PredictedSentiment == entities.SentimentPositive
		actuallyPositive := *event.TrueSentiment == entities.SentimentPositive

		switch {
		case predictedPositive && actuallyPositive:
			m.TruePositives++
		case predictedPositive && !actuallyPositive:
			m.FalsePositives++
		case !predictedPositive && actuallyPositive:
			m.FalseNegatives++
		default:
			m.TrueNegatives++
		}
	}

	if m.LabeledTotal > 0 {
		correct := m.TruePositives + m.TrueNegatives
		m.Accuracy = DefinedRatio(float64(correct) / float64(m.LabeledTotal))
	}

	if predicted := m.TruePositives + m.FalsePositives; predicted > 0 {
		m.Precision = DefinedRatio(float64(m.TruePositives) / float64(predicted))
	}

	return m
}

// EvaluateAlert reports whether the accuracy alert should fire: true iff
// accuracy is defined and strictly below the threshold. Undefined accuracy
// never alerts; insufficient evidence is not failure.
func EvaluateAlert(metrics FeedbackMetrics, threshold float64) bool {
	if !metrics.Accuracy.Defined {
		return false
	}
	return metrics.Accuracy.Value < threshold
}
