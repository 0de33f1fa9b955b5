package woodpecker

import (
	"errors"

	"github.com/birdapp/woodpecker/internal/domain"
)

// ErrInvalidParams is returned when review parameters cannot drive a review.
var ErrInvalidParams = errors.New("invalid review parameters")

// Params defines the tunable constants of the review phase.
type Params struct {
	// MinEaseFactor is the floor applied after every ease factor adjustment.
	MinEaseFactor float64

	// EaseFactorAdjustment is added to the ease factor for each grade.
	EaseFactorAdjustment map[domain.UserGrade]float64

	// FirstInterval is used for a passing grade on a card with no streak.
	FirstInterval int

	// SecondInterval is used for a passing grade on a card with a streak of one.
	SecondInterval int

	// LapseInterval is used when a graduated card is graded wrong.
	LapseInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	MinEaseFactor float64

	WrongHardEaseFactorAdjustment   float64
	WrongEaseFactorAdjustment       float64
	CorrectEaseFactorAdjustment     float64
	CorrectEasyEaseFactorAdjustment float64

	FirstInterval  int
	SecondInterval int
	LapseInterval  int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: domain.MinEaseFactor,

		EaseFactorAdjustment: map[domain.UserGrade]float64{
			domain.GradeWrongHard:   -0.8,
			domain.GradeWrong:       -0.5,
			domain.GradeCorrect:     0.0,
			domain.GradeCorrectEasy: 0.1,
		},

		FirstInterval:  1,
		SecondInterval: 6,
		LapseInterval:  1,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}

	if config.WrongHardEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.GradeWrongHard] = config.WrongHardEaseFactorAdjustment
	}
	if config.WrongEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.GradeWrong] = config.WrongEaseFactorAdjustment
	}
	if config.CorrectEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.GradeCorrect] = config.CorrectEaseFactorAdjustment
	}
	if config.CorrectEasyEaseFactorAdjustment != 0 {
		params.EaseFactorAdjustment[domain.GradeCorrectEasy] = config.CorrectEasyEaseFactorAdjustment
	}

	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.LapseInterval > 0 {
		params.LapseInterval = config.LapseInterval
	}

	return params
}

// Validate checks that every grade has an adjustment and the floor is usable.
func (p *Params) Validate() error {
	if p.MinEaseFactor <= 0 {
		return ErrInvalidParams
	}
	for _, grade := range domain.AllGrades() {
		if _, ok := p.EaseFactorAdjustment[grade]; !ok {
			return ErrInvalidParams
		}
	}
	if p.FirstInterval < 1 || p.SecondInterval < 1 || p.LapseInterval < 1 {
		return ErrInvalidParams
	}
	return nil
}
