package scheduler

import (
	"math"
	"time"

	"quizdrill/internal/models"
)

// Defaults for a question the user has never answered
const (
	InitialStrength = 2.5
	MinStrength     = 1.3
)

// Amount subtracted from strength on a lapse
const lapsePenalty = 0.2

// Advance computes the next scheduling state from the prior state and the
// quality of the latest answer, following the SM-2 interval rule.
//
// A lapse (quality below the pass threshold) resets repetition progress and
// schedules the question for tomorrow while lowering strength. A pass grows
// the interval: 1 day for the first repetition, 6 for the second, then the
// prior interval multiplied by the updated strength. Strength never drops
// below 1.3 and is stored rounded to two decimals.
//
// Pass prior == nil for the first-ever answer to a question.
func Advance(prior *models.ReviewState, quality int, now time.Time) models.ReviewState {
	state := models.ReviewState{
		Strength:        InitialStrength,
		RepetitionCount: 0,
		IntervalDays:    0,
	}
	if prior != nil {
		state.UserID = prior.UserID
		state.QuestionID = prior.QuestionID
		state.Strength = prior.Strength
		state.RepetitionCount = prior.RepetitionCount
		state.IntervalDays = prior.IntervalDays
	}

	if quality < PassThreshold {
		state.Strength = roundStrength(math.Max(MinStrength, state.Strength-lapsePenalty))
		state.RepetitionCount = 0
		state.IntervalDays = 1
	} else {
		// EF' = EF + (0.1 - (5-q) * (0.08 + (5-q)*0.02))
		q := float64(quality)
		strength := state.Strength + (0.1 - (5-q)*(0.08+(5-q)*0.02))
		state.Strength = roundStrength(math.Max(MinStrength, strength))

		switch state.RepetitionCount {
		case 0:
			state.IntervalDays = 1
		case 1:
			state.IntervalDays = 6
		default:
			state.IntervalDays = int(math.Round(float64(state.IntervalDays) * state.Strength))
		}
		state.RepetitionCount++
	}

	state.NextReviewAt = now.AddDate(0, 0, state.IntervalDays)
	state.UpdatedAt = now
	return state
}

func roundStrength(s float64) float64 {
	return math.Round(s*100) / 100
}
