package woodpecker

import (
	"math"

	"github.com/birdapp/woodpecker/internal/domain"
)

// calculateNewEaseFactor determines the new ease factor based on the grade.
//
// The ease factor controls how fast review intervals grow. The adjustment for
// the grade is added to the card's current ease factor and the result is
// floored at params.MinEaseFactor. There is no ceiling.
//
// Parameters:
//   - currentEF: The ease factor the card had before the review
//   - grade: The user's grade
//   - params: Configuration parameters for the review phase
//
// Returns:
//   - The new ease factor, never below params.MinEaseFactor
func calculateNewEaseFactor(currentEF float64, grade domain.UserGrade, params *Params) float64 {
	newEF := currentEF + params.EaseFactorAdjustment[grade]

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days for a passing grade.
//
// Parameters:
//   - currentInterval: The interval in days before the review
//   - streak: Consecutive successful reviews before this one
//   - easeFactor: The ease factor before the review
//   - params: Configuration parameters for the review phase
//
// Algorithm behavior:
//   - No streak: params.FirstInterval (1 day by default)
//   - Streak of one: params.SecondInterval (6 days by default)
//   - Otherwise: currentInterval * easeFactor, rounded half away from zero
func calculateNewInterval(currentInterval, streak int, easeFactor float64, params *Params) int {
	switch streak {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	default:
		return int(math.Round(float64(currentInterval) * easeFactor))
	}
}

// calculateNextState creates the learning state that results from reviewing a
// graduated card.
//
// Passing grades grow the interval and extend the streak. A wrong grade keeps
// the card graduated but resets the streak and brings it back tomorrow. A
// wrongHard grade demotes the card to the learning phase at step 0.
//
// The ease factor is updated after the branch above, always from the
// original ease factor, so interval growth on this review uses the old value.
// The due date is left untouched; scheduling it is the caller's concern.
func calculateNextState(state domain.LearningState, grade domain.UserGrade, params *Params) domain.LearningState {
	next := state

	switch {
	case grade.IsPassing():
		next.Interval = calculateNewInterval(state.Interval, state.Streak, state.EaseFactor, params)
		next.Streak = state.Streak + 1
	case grade == domain.GradeWrong:
		next.Streak = 0
		next.Interval = params.LapseInterval
	default:
		next.IsGraduated = false
		next.Interval = 0
		next.Streak = 0
	}

	next.EaseFactor = calculateNewEaseFactor(state.EaseFactor, grade, params)

	return next
}

// ApplyReview computes the next learning state of a graduated card using the
// default parameters.
//
// Returns domain.ErrNotGraduated for learning cards and domain.ErrStepNotZero
// when a graduated card carries a non-zero step.
func ApplyReview(state domain.LearningState, grade domain.UserGrade) (domain.LearningState, error) {
	return applyReview(state, grade, NewDefaultParams())
}

func applyReview(state domain.LearningState, grade domain.UserGrade, params *Params) (domain.LearningState, error) {
	if !state.IsGraduated {
		return state, domain.ErrNotGraduated
	}
	if state.Step != 0 {
		return state, domain.ErrStepNotZero
	}
	if !grade.IsValid() {
		return state, domain.ErrInvalidGrade
	}

	return calculateNextState(state, grade, params), nil
}
