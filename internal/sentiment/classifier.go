// Package sentiment classifies message tone by keyword counting.
package sentiment

import "strings"

// Labels produced by the classifier.
const (
	Negative = "negative"
	Positive = "positive"
	Neutral  = "neutral"
)

var negativeWords = []string{"sad", "depressed", "anxious", "worried", "scared", "hopeless", "overwhelmed"}

var positiveWords = []string{"happy", "good", "great", "excited", "confident", "proud"}

// Classifier labels text as negative, positive or neutral by counting
// marker-word occurrences. Matching is case-insensitive substring search,
// so "saddened" counts toward "sad". Ties resolve to neutral.
type Classifier struct{}

// NewClassifier creates a sentiment classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the sentiment label for text.
func (c *Classifier) Classify(text string) string {
	lower := strings.ToLower(text)

	var negative, positive int
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}

	switch {
	case negative > positive:
		return Negative
	case positive > negative:
		return Positive
	default:
		return Neutral
	}
}
