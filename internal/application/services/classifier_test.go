package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
)

func TestLexiconClassifier_Predict(t *testing.T) {
	classifier := NewLexiconClassifier()
	ctx := context.Background()

	tests := []struct {
		name string
		text string
		want entities.Sentiment
	}{
		{"clearly positive", "A wonderful, charming little masterpiece. Loved it.", entities.SentimentPositive},
		{"clearly negative", "Dull, lifeless and utterly predictable. A waste of time.", entities.SentimentNegative},
		{"mixed leans negative on tie", "Great acting but a terrible script.", entities.SentimentNegative},
		{"empty text", "", entities.SentimentNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifier.Predict(ctx, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLexiconClassifier_Deterministic(t *testing.T) {
	classifier := NewLexiconClassifier()
	ctx := context.Background()

	first, err := classifier.Predict(ctx, "an excellent and beautiful film")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := classifier.Predict(ctx, "an excellent and beautiful film")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLexiconClassifier_EmptyLexicon(t *testing.T) {
	classifier := NewLexiconClassifierWithWords(nil, nil)

	_, err := classifier.Predict(context.Background(), "anything")
	assert.Error(t, err)
}

func TestLexiconClassifier_CancelledContext(t *testing.T) {
	classifier := NewLexiconClassifier()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := classifier.Predict(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}
