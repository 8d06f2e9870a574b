package services

import (
	"context"
	"strings"
	"unicode"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	"github.com/alexholyk/sentiment-monitor/internal/domain/providers"
	apperrors "github.com/alexholyk/sentiment-monitor/pkg/errors"
)

// LexiconClassifier is a deterministic stand-in for the trained sentiment
// model: it scores tokens against positive and negative word lists and
// predicts the dominant polarity, negative on ties. Training and improving
// the real model is out of scope; everything downstream only depends on the
// Predictor interface.
type LexiconClassifier struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var defaultPositiveWords = []string{
	"good", "great", "excellent", "wonderful", "amazing", "love", "loved",
	"best", "fantastic", "brilliant", "enjoyable", "superb", "perfect",
	"masterpiece", "beautiful", "fun", "charming", "delightful", "strong",
}

var defaultNegativeWords = []string{
	"bad", "terrible", "awful", "horrible", "worst", "hate", "hated",
	"boring", "dull", "poor", "weak", "disappointing", "mess", "waste",
	"predictable", "lifeless", "tedious", "unwatchable", "forgettable",
}

// NewLexiconClassifier creates a classifier with the default word lists.
func NewLexiconClassifier() *LexiconClassifier {
	return NewLexiconClassifierWithWords(defaultPositiveWords, defaultNegativeWords)
}

// NewLexiconClassifierWithWords creates a classifier with custom word lists.
func NewLexiconClassifierWithWords(positive, negative []string) *LexiconClassifier {
	c := &LexiconClassifier{
		positive: make(map[string]struct{}, len(positive)),
		negative: make(map[string]struct{}, len(negative)),
	}
	for _, w := range positive {
		c.positive[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range negative {
		c.negative[strings.ToLower(w)] = struct{}{}
	}
	return c
}

var _ providers.Predictor = (*LexiconClassifier)(nil)

// Predict classifies the text as positive or negative.
func (c *LexiconClassifier) Predict(ctx context.Context, text string) (entities.Sentiment, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(c.positive) == 0 && len(c.negative) == 0 {
		return "", apperrors.NewInternalError("classifier has no lexicon loaded", nil)
	}

	score := 0
	for _, token := range tokenize(text) {
		if _, ok := c.positive[token]; ok {
			score++
		}
		if _, ok := c.negative[token]; ok {
			score--
		}
	}

	if score > 0 {
		return entities.SentimentPositive, nil
	}
	return entities.SentimentNegative, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
