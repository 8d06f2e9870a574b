package entities

// ReferenceRow is one labeled review from the training corpus.
type ReferenceRow struct {
	ReviewText     string
	SentimentLabel Sentiment
}

// ReferenceSample is the read-only baseline drawn once from the training
// corpus. It is loaded once per analysis session and treated as immutable;
// it has no lifecycle in the event log.
type ReferenceSample struct {
	rows []ReferenceRow
}

// NewReferenceSample builds a sample from corpus rows.
func NewReferenceSample(rows []ReferenceRow) *ReferenceSample {
	copied := make([]ReferenceRow, len(rows))
	copy(copied, rows)
	return &ReferenceSample{rows: copied}
}

// Size returns the number of rows in the sample.
func (s *ReferenceSample) Size() int {
	return len(s.rows)
}

// TextLengths returns the text length (in runes) of every row.
func (s *ReferenceSample) TextLengths() []int {
	lengths := make([]int, len(s.rows))
	for i, row := range s.rows {
		lengths[i] = len([]rune(row.ReviewText))
	}
	return lengths
}

// LabelCounts returns the label distribution of the sample.
func (s *ReferenceSample) LabelCounts() map[Sentiment]int {
	counts := make(map[Sentiment]int, 2)
	for _, row := range s.rows {
		counts[row.SentimentLabel]++
	}
	return counts
}
