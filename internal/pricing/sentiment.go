package pricing

import "github.com/jonreiter/govader"

// Polarity thresholds. Fixed constants, not learned.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// SentimentEstimator buckets free text into positive/negative/neutral from a
// lexical polarity score in [-1, 1]. It has no training phase and no mutable
// state; Classify is safe for concurrent use.
type SentimentEstimator struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewSentimentEstimator() *SentimentEstimator {
	return &SentimentEstimator{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns the compound polarity score for the text.
func (s *SentimentEstimator) Polarity(text string) float64 {
	return s.analyzer.PolarityScores(text).Compound
}

func (s *SentimentEstimator) Classify(text string) string {
	return ClassifyPolarity(s.Polarity(text))
}

// ClassifyPolarity maps a polarity score to a sentiment class. The
// thresholds are inclusive: exactly ±0.05 is already positive/negative.
func ClassifyPolarity(p float64) string {
	switch {
	case p >= PositiveThreshold:
		return "positive"
	case p <= NegativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}
