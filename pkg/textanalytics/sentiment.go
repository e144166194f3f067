package textanalytics

const (
	positiveThreshold = 0.75
	negativeThreshold = 0.25
)

// LegacyLabel derives a label from the single positivity score of the v2 API.
func LegacyLabel(score float64) string {
	switch {
	case score >= positiveThreshold:
		return SentimentPositive
	case score < negativeThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
