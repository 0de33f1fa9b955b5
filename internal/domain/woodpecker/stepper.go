package woodpecker

import "github.com/birdapp/woodpecker/internal/domain"

// Stepper maps a grade on the learning ladder to the card's destiny.
//
// The ladder has numberOfSteps rungs, 0 through numberOfSteps-1. Only the
// first rung refuses to send a card back, and only the last rung refuses to
// move a card forward; correctEasy always graduates.
//
// Returns domain.ErrInvalidStep for a negative step and
// domain.ErrInsufficientSteps when the ladder has fewer than two rungs.
func Stepper(step int, grade domain.UserGrade, numberOfSteps int) (domain.CardDestiny, error) {
	maximumStep := numberOfSteps - 1

	if step < 0 {
		return "", domain.ErrInvalidStep
	}
	if maximumStep < 1 {
		return "", domain.ErrInsufficientSteps
	}
	if !grade.IsValid() {
		return "", domain.ErrInvalidGrade
	}

	switch {
	case step == 0:
		return destinyForFirstStep(grade), nil
	case step < maximumStep:
		return destinyForMiddleSteps(grade), nil
	default:
		return destinyForLastStep(grade), nil
	}
}

func destinyForFirstStep(grade domain.UserGrade) domain.CardDestiny {
	switch grade {
	case domain.GradeCorrect:
		return domain.DestinyForward
	case domain.GradeCorrectEasy:
		return domain.DestinyGraduate
	default:
		return domain.DestinyStay
	}
}

func destinyForMiddleSteps(grade domain.UserGrade) domain.CardDestiny {
	switch grade {
	case domain.GradeWrongHard:
		return domain.DestinyBack
	case domain.GradeWrong:
		return domain.DestinyStay
	case domain.GradeCorrect:
		return domain.DestinyForward
	default:
		return domain.DestinyGraduate
	}
}

func destinyForLastStep(grade domain.UserGrade) domain.CardDestiny {
	switch grade {
	case domain.GradeWrongHard:
		return domain.DestinyBack
	case domain.GradeCorrectEasy:
		return domain.DestinyGraduate
	default:
		return domain.DestinyStay
	}
}

// ApplyDestiny moves a learning state along the ladder.
//
// Every destiny marks the card as presented. Graduation resets the step and
// starts the review phase with a one day interval and a streak of one; the
// caller owns the due date.
func ApplyDestiny(state domain.LearningState, destiny domain.CardDestiny) domain.LearningState {
	next := state
	next.HasBeenPresented = true

	switch destiny {
	case domain.DestinyForward:
		next.Step++
	case domain.DestinyBack:
		next.Step = max(0, next.Step-1)
	case domain.DestinyGraduate:
		next.IsGraduated = true
		next.Step = 0
		next.Interval = 1
		next.Streak = 1
	}

	return next
}
