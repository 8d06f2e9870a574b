package evaluation

import (
	"time"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	"github.com/alexholyk/sentiment-monitor/internal/monitoring"
)

// TestItem is one labeled example from the test set.
type TestItem struct {
	Text      string             `json:"text"`
	TrueLabel entities.Sentiment `json:"true_label"`
}

// ItemResult holds the evaluation outcome for a single test item.
type ItemResult struct {
	Index     int
	Text      string
	TrueLabel entities.Sentiment
	Predicted entities.Sentiment
	Match     bool
	Err       error
	Latency   time.Duration
}

// Summary holds aggregate results across an evaluation run. Accuracy is
// computed over successfully predicted items only; failed items are counted
// separately and excluded from both numerator and denominator.
type Summary struct {
	Total          int              `json:"total"`
	Succeeded      int              `json:"succeeded"`
	Failed         int              `json:"failed"`
	Matches        int              `json:"matches"`
	AppendFailures int              `json:"append_failures"`
	Accuracy       monitoring.Ratio `json:"accuracy"`
	AvgLatency     time.Duration    `json:"avg_latency_ns"`
}
