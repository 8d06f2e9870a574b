package entities

// Sentiment represents a sentiment classification label.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
)

// ValidSentiments returns all valid sentiment values.
func ValidSentiments() []Sentiment {
	return []Sentiment{SentimentPositive, SentimentNegative}
}

// IsValid checks if the sentiment value is one of the defined constants.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNegative:
		return true
	}
	return false
}

// Ptr returns a pointer to the sentiment, for optional fields.
func (s Sentiment) Ptr() *Sentiment {
	return &s
}
