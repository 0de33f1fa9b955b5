package study_test

import (
	"testing"
	"time"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/domain/woodpecker"
	"github.com/birdapp/woodpecker/internal/mocks"
	"github.com/birdapp/woodpecker/internal/service/study"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Today() time.Time { return c.now }

func (c fixedClock) IsSameDay(a, b time.Time) bool { return domain.IsSameDay(a, b) }

// keepOrder leaves every slice as it is.
type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

type fixture struct {
	repo *mocks.MockStudyRepository
	svc  study.Service
	deck *domain.Deck
}

func newFixture(t *testing.T, cfg domain.SpacedRepetitionConfig, cards []*domain.Card, opts ...study.Option) fixture {
	t.Helper()

	deck, err := domain.NewDeck("Kanji N5", cfg)
	require.NoError(t, err)
	for _, card := range cards {
		card.DeckID = deck.ID
	}

	repo := mocks.NewMockStudyRepository()
	repo.AddDeck(deck, cards...)

	scheduler, err := woodpecker.NewServiceWithParams(nil, keepOrder{})
	require.NoError(t, err)

	base := []study.Option{
		study.WithClock(fixedClock{now: today}),
		study.WithShuffler(keepOrder{}),
	}
	svc := study.NewStudyService(repo, scheduler, append(base, opts...)...)

	return fixture{repo: repo, svc: svc, deck: deck}
}

func learningCard(front string, step int) *domain.Card {
	state := domain.NewLearningState()
	state.Step = step
	state.HasBeenPresented = step > 0
	return &domain.Card{ID: uuid.New(), Front: front, Back: front, State: state}
}

func reviewingCard(front string, due time.Time, interval, streak int) *domain.Card {
	return &domain.Card{
		ID:    uuid.New(),
		Front: front,
		Back:  front,
		State: domain.LearningState{
			IsGraduated:      true,
			EaseFactor:       domain.DefaultEaseFactor,
			Interval:         interval,
			Streak:           streak,
			HasBeenPresented: true,
			DueDate:          &due,
		},
	}
}

func ids(cards ...*domain.Card) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func day(offset int) time.Time {
	return domain.DayStart(today).AddDate(0, 0, offset)
}
