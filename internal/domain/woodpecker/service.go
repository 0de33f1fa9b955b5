package woodpecker

import (
	"time"

	"github.com/birdapp/woodpecker/internal/domain"
)

// Service defines the scheduling operations used by the study session.
type Service interface {
	// Stepper returns the destiny of a learning card graded at the given step.
	Stepper(step int, grade domain.UserGrade, numberOfSteps int) (domain.CardDestiny, error)

	// ApplyReview computes the next state of a graduated card. The due date is
	// recomputed from today while the card stays graduated and cleared
	// when it is demoted.
	ApplyReview(state domain.LearningState, grade domain.UserGrade, today time.Time) (domain.LearningState, error)

	// SelectDailyCards chooses the cards to study today.
	SelectDailyCards(
		cards []*domain.Card,
		cfg domain.SpacedRepetitionConfig,
		today time.Time,
	) (Selection, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params   *Params
	shuffler Shuffler
}

// NewDefaultService creates a new scheduling service with default parameters
// and a random shuffler.
func NewDefaultService() Service {
	return &defaultService{
		params:   NewDefaultParams(),
		shuffler: NewRandomShuffler(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
// A nil shuffler falls back to the random shuffler.
func NewServiceWithParams(params *Params, shuffler Shuffler) (Service, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if shuffler == nil {
		shuffler = NewRandomShuffler()
	}

	return &defaultService{
		params:   params,
		shuffler: shuffler,
	}, nil
}

func (s *defaultService) Stepper(step int, grade domain.UserGrade, numberOfSteps int) (domain.CardDestiny, error) {
	return Stepper(step, grade, numberOfSteps)
}

func (s *defaultService) ApplyReview(
	state domain.LearningState,
	grade domain.UserGrade,
	today time.Time,
) (domain.LearningState, error) {
	next, err := applyReview(state, grade, s.params)
	if err != nil {
		return state, err
	}

	if next.IsGraduated {
		due := domain.DueDateAfter(today, next.Interval)
		next.DueDate = &due
	} else {
		next.DueDate = nil
	}

	return next, nil
}

func (s *defaultService) SelectDailyCards(
	cards []*domain.Card,
	cfg domain.SpacedRepetitionConfig,
	today time.Time,
) (Selection, error) {
	return SelectDailyCards(cards, cfg, today, s.shuffler)
}
