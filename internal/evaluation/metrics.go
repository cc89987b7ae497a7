package evaluation

import "github.com/medtriage/backend/internal/domain/entities"

// Classify compares a predicted care level against the expected one.
// Over-triage means the prediction is more urgent than expected;
// under-triage means less urgent.
func Classify(expected, predicted entities.CareLevel) (correct, over, under bool) {
	expectedRank := expected.Rank()
	predictedRank := predicted.Rank()

	switch {
	case predictedRank == expectedRank:
		return true, false, false
	case predictedRank > expectedRank:
		return false, true, false
	default:
		return false, false, true
	}
}

// Accuracy returns the fraction of correct predictions, or 0 for an
// empty set.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(correct) / float64(total)
}
