package woodpecker

import (
	"testing"
	"time"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityShuffler leaves every slice in its input order.
type identityShuffler struct{}

func (identityShuffler) Shuffle(int, func(i, j int)) {}

// reverseShuffler reverses every slice it is given.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

var today = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

func learningCard(presented bool) *domain.Card {
	state := domain.NewLearningState()
	state.HasBeenPresented = presented
	return &domain.Card{ID: uuid.New(), DeckID: uuid.Nil, Front: "f", State: state}
}

func reviewingCard(dueInDays int) *domain.Card {
	due := domain.DueDateAfter(today, dueInDays)
	return &domain.Card{
		ID:    uuid.New(),
		Front: "f",
		State: domain.LearningState{IsGraduated: true, Interval: 3, Streak: 2, EaseFactor: 2.5, DueDate: &due},
	}
}

func ids(cards []*domain.Card) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestSelectDailyCardsEmpty(t *testing.T) {
	t.Parallel()

	selection, err := SelectDailyCards(nil, domain.DefaultSpacedRepetitionConfig(), today, identityShuffler{})
	require.NoError(t, err)
	assert.Empty(t, selection.Today)
	assert.Empty(t, selection.Learning)
	assert.Empty(t, selection.Reviewing)
	assert.Empty(t, selection.Overflow)
}

func TestSelectDailyCardsRejectsZeroReviewCap(t *testing.T) {
	t.Parallel()

	cfg := domain.SpacedRepetitionConfig{MaxLearningCards: 5, MaxReviewingCards: 0, NumberOfSteps: 3}
	_, err := SelectDailyCards([]*domain.Card{learningCard(false)}, cfg, today, identityShuffler{})
	assert.ErrorIs(t, err, domain.ErrInvalidCapacityConfig)
}

func TestSelectDailyCardsOverflowScenario(t *testing.T) {
	t.Parallel()

	due := []*domain.Card{reviewingCard(0), reviewingCard(-1), reviewingCard(-5), reviewingCard(0)}
	cfg := domain.SpacedRepetitionConfig{MaxLearningCards: 10, MaxReviewingCards: 3, NumberOfSteps: 3}

	selection, err := SelectDailyCards(due, cfg, today, identityShuffler{})
	require.NoError(t, err)
	assert.Equal(t, ids(due[:3]), ids(selection.Reviewing))
	assert.Equal(t, ids(due[3:]), ids(selection.Overflow))
	assert.Len(t, selection.Today, 3)
}

func TestSelectDailyCardsPartition(t *testing.T) {
	t.Parallel()

	notDue := reviewingCard(1)
	dueToday := reviewingCard(0)
	overdue := reviewingCard(-3)
	noDate := reviewingCard(0)
	noDate.State.DueDate = nil
	fresh := learningCard(false)

	cards := []*domain.Card{notDue, dueToday, fresh, overdue, noDate}
	selection, err := SelectDailyCards(cards, domain.DefaultSpacedRepetitionConfig(), today, identityShuffler{})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{dueToday.ID, overdue.ID}, ids(selection.Reviewing))
	assert.Equal(t, []uuid.UUID{fresh.ID}, ids(selection.Learning))
	assert.Empty(t, selection.Overflow)
	assert.Equal(t, []uuid.UUID{dueToday.ID, overdue.ID, fresh.ID}, selection.IDs())
}

func TestSelectDailyCardsCapacity(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		learning  int
		reviewing int
		cfg       domain.SpacedRepetitionConfig
	}{
		{"under both caps", 2, 3, domain.SpacedRepetitionConfig{MaxLearningCards: 5, MaxReviewingCards: 5, NumberOfSteps: 3}},
		{"learning capped", 12, 1, domain.SpacedRepetitionConfig{MaxLearningCards: 5, MaxReviewingCards: 5, NumberOfSteps: 3}},
		{"reviewing capped", 1, 30, domain.SpacedRepetitionConfig{MaxLearningCards: 5, MaxReviewingCards: 20, NumberOfSteps: 3}},
		{"zero learning cap", 4, 2, domain.SpacedRepetitionConfig{MaxLearningCards: 0, MaxReviewingCards: 5, NumberOfSteps: 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var cards []*domain.Card
			for range tc.learning {
				cards = append(cards, learningCard(false))
			}
			for range tc.reviewing {
				cards = append(cards, reviewingCard(0))
			}

			selection, err := SelectDailyCards(cards, tc.cfg, today, NewRandomShuffler())
			require.NoError(t, err)

			assert.Len(t, selection.Learning, min(tc.learning, tc.cfg.MaxLearningCards))
			assert.Len(t, selection.Reviewing, min(tc.reviewing, tc.cfg.MaxReviewingCards))
			assert.Len(t, selection.Overflow, max(0, tc.reviewing-tc.cfg.MaxReviewingCards))
			assert.Len(t, selection.Today, len(selection.Learning)+len(selection.Reviewing))
			assert.ElementsMatch(t, append(ids(selection.Reviewing), ids(selection.Learning)...), selection.IDs())
		})
	}
}

func TestSelectDailyCardsPresentedFirst(t *testing.T) {
	t.Parallel()

	presentedA := learningCard(true)
	presentedB := learningCard(true)
	freshA := learningCard(false)
	freshB := learningCard(false)
	freshC := learningCard(false)

	cards := []*domain.Card{freshA, presentedA, freshB, freshC, presentedB}
	cfg := domain.SpacedRepetitionConfig{MaxLearningCards: 3, MaxReviewingCards: 5, NumberOfSteps: 3}

	for _, shuffler := range []Shuffler{identityShuffler{}, reverseShuffler{}, NewRandomShuffler()} {
		selection, err := SelectDailyCards(cards, cfg, today, shuffler)
		require.NoError(t, err)
		require.Len(t, selection.Learning, 3)

		assert.True(t, selection.Learning[0].State.HasBeenPresented)
		assert.True(t, selection.Learning[1].State.HasBeenPresented)
		assert.False(t, selection.Learning[2].State.HasBeenPresented)
		assert.ElementsMatch(t, []uuid.UUID{presentedA.ID, presentedB.ID}, ids(selection.Learning[:2]))
	}
}

// With identity shuffling only the caps decide which cards are studied, so
// two runs over the same input select the same sets.
func TestSelectDailyCardsDeterministicSets(t *testing.T) {
	t.Parallel()

	var cards []*domain.Card
	for i := range 15 {
		cards = append(cards, learningCard(i%4 == 0))
		cards = append(cards, reviewingCard(-(i % 3)))
	}
	cfg := domain.SpacedRepetitionConfig{MaxLearningCards: 6, MaxReviewingCards: 8, NumberOfSteps: 3}

	first, err := SelectDailyCards(cards, cfg, today, identityShuffler{})
	require.NoError(t, err)
	second, err := SelectDailyCards(cards, cfg, today, identityShuffler{})
	require.NoError(t, err)

	assert.Equal(t, first.IDs(), second.IDs())
	assert.Equal(t, ids(first.Overflow), ids(second.Overflow))

	// Random shuffling changes order but not the reviewing set.
	random, err := SelectDailyCards(cards, cfg, today, NewRandomShuffler())
	require.NoError(t, err)
	assert.ElementsMatch(t, ids(first.Reviewing), ids(random.Reviewing))
}

func TestSelectDailyCardsDueDateInOtherZone(t *testing.T) {
	t.Parallel()

	// 23:00 at UTC-2 on March 9 is 01:00 UTC on March 10.
	zone := time.FixedZone("UTC-2", -2*3600)
	due := time.Date(2024, time.March, 9, 23, 0, 0, 0, zone)
	card := &domain.Card{
		ID:    uuid.New(),
		Front: "f",
		State: domain.LearningState{IsGraduated: true, Interval: 1, Streak: 1, EaseFactor: 2.5, DueDate: &due},
	}

	selection, err := SelectDailyCards([]*domain.Card{card}, domain.DefaultSpacedRepetitionConfig(), today, identityShuffler{})
	require.NoError(t, err)
	assert.Len(t, selection.Reviewing, 1)
}
