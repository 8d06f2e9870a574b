package monitoring

import (
	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
)

const defaultHistogramBins = 20

// Bin is one inclusive text-length bucket.
type Bin struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

// NumericDrift holds paired histograms of text lengths over one shared set
// of bin edges. Reference and Observed are always the same length as Bins;
// comparing counts bucketed over different edges would silently invalidate
// the comparison, so both sides are bucketed from the single Bins slice.
type NumericDrift struct {
	Bins      []Bin `json:"bins"`
	Reference []int `json:"reference"`
	Observed  []int `json:"observed"`
}

// LabelShare is one label's share of a distribution.
type LabelShare struct {
	Label     entities.Sentiment `json:"label"`
	Reference float64            `json:"reference"`
	Observed  float64            `json:"observed"`
}

// CategoricalDrift compares the reference label distribution against the
// observed predicted-label distribution, normalized to proportions so
// differing sample sizes compare fairly.
type CategoricalDrift struct {
	Shares []LabelShare `json:"shares"`
}

// DriftReport is recomputed on every analysis pass; it is purely a function
// of the event log contents at read time and is never persisted.
type DriftReport struct {
	Length        NumericDrift     `json:"length"`
	Label         CategoricalDrift `json:"label"`
	ObservedCount int              `json:"observed_count"`
}

// DriftAnalyzer compares the training baseline against observed inference
// traffic. Bin edges are derived from the reference sample only, so every
// analysis pass over the same baseline uses the same edges regardless of
// what the live traffic looks like.
type DriftAnalyzer struct {
	bins int
}

// NewDriftAnalyzer creates an analyzer with the given bin count.
func NewDriftAnalyzer(bins int) *DriftAnalyzer {
	if bins <= 0 {
		bins = defaultHistogramBins
	}
	return &DriftAnalyzer{bins: bins}
}

// Compare builds a drift report for the observed events against the
// reference sample. Zero observed events produce zeroed observed
// distributions, not an error.
func (a *DriftAnalyzer) Compare(ref *entities.ReferenceSample, events []*entities.InferenceEvent) *DriftReport {
	refLengths := ref.TextLengths()
	obsLengths := make([]int, len(events))
	for i, event := range events {
		obsLengths[i] = event.TextLength()
	}

	bins := DeriveBins(refLengths, a.bins)

	obsLabels := make(map[entities.Sentiment]int, 2)
	for _, event := range events {
		obsLabels[event.PredictedSentiment]++
	}

	return &DriftReport{
		Length:        CompareWithBins(bins, refLengths, obsLengths),
		Label:         compareLabels(ref.LabelCounts(), obsLabels),
		ObservedCount: len(events),
	}
}

// DeriveBins builds fixed-width inclusive bins covering [0, max(lengths)].
// The last bin absorbs anything beyond the reference maximum so observed
// outliers still land in the shared edges.
func DeriveBins(lengths []int, count int) []Bin {
	max := 0
	for _, l := range lengths {
		if l > max {
			max = l
		}
	}

	width := (max / count) + 1
	bins := make([]Bin, count)
	for i := range bins {
		bins[i] = Bin{Lo: i * width, Hi: (i+1)*width - 1}
	}
	return bins
}

// CompareWithBins buckets both length sets over one shared edge set.
func CompareWithBins(bins []Bin, refLengths, obsLengths []int) NumericDrift {
	return NumericDrift{
		Bins:      bins,
		Reference: bucket(bins, refLengths),
		Observed:  bucket(bins, obsLengths),
	}
}

func bucket(bins []Bin, lengths []int) []int {
	counts := make([]int, len(bins))
	if len(bins) == 0 {
		return counts
	}

	last := len(bins) - 1
	for _, l := range lengths {
		placed := false
		for i, b := range bins {
			if l >= b.Lo && l <= b.Hi {
				counts[i]++
				placed = true
				break
			}
		}
		if !placed && l > bins[last].Hi {
			counts[last]++
		}
	}
	return counts
}

func compareLabels(refCounts, obsCounts map[entities.Sentiment]int) CategoricalDrift {
	refTotal := 0
	for _, c := range refCounts {
		refTotal += c
	}
	obsTotal := 0
	for _, c := range obsCounts {
		obsTotal += c
	}

	shares := make([]LabelShare, 0, 2)
	for _, label := range entities.ValidSentiments() {
		share := LabelShare{Label: label}
		if refTotal > 0 {
			share.Reference = float64(refCounts[label]) / float64(refTotal)
		}
		if obsTotal > 0 {
			share.Observed = float64(obsCounts[label]) / float64(obsTotal)
		}
		shares = append(shares, share)
	}

	return CategoricalDrift{Shares: shares}
}
