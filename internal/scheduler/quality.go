package scheduler

import "quizdrill/internal/models"

// PassThreshold is the lowest quality that counts as a successful review.
const PassThreshold = 3

// Timing thresholds for the quality adjustment on correct answers.
const (
	slowAnswerMs = 30000
	fastAnswerMs = 5000
)

// Score maps a raw answer event to a quality value in [0,5].
//
// Incorrect answers score by confidence alone: a confidently wrong answer
// points at a specific misconception rather than a blind guess, so it
// scores higher, but always below the pass threshold. Correct answers
// start from their confidence, gain a point for fast recall, lose one for
// slow recall, and never drop below the pass threshold.
func Score(wasCorrect bool, confidence models.Confidence, timeSpentMs int) int {
	if !wasCorrect {
		switch confidence {
		case models.ConfidenceHigh:
			return 2
		case models.ConfidenceMedium:
			return 1
		default:
			return 0
		}
	}

	quality := PassThreshold
	switch confidence {
	case models.ConfidenceHigh:
		quality = 5
	case models.ConfidenceMedium:
		quality = 4
	}

	if timeSpentMs > slowAnswerMs {
		quality--
	} else if timeSpentMs < fastAnswerMs {
		quality++
	}

	if quality < PassThreshold {
		quality = PassThreshold
	}
	if quality > 5 {
		quality = 5
	}
	return quality
}
