package woodpecker

import (
	"math/rand/v2"
	"time"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/google/uuid"
)

// Shuffler is the randomness source used to vary the order of selected cards.
// The signature matches rand.Shuffle.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewRandomShuffler returns a Shuffler backed by the global math/rand/v2 source.
func NewRandomShuffler() Shuffler {
	return randomShuffler{}
}

type randomShuffler struct{}

func (randomShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// Selection is the result of a daily selection.
type Selection struct {
	// Today holds every card to study today in display order.
	Today []*domain.Card

	// Learning holds the selected learning cards.
	Learning []*domain.Card

	// Reviewing holds the selected due graduated cards.
	Reviewing []*domain.Card

	// Overflow holds due graduated cards that did not fit under the review cap.
	Overflow []*domain.Card
}

// IDs returns the identifiers of the cards selected for today, in order.
func (s Selection) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Today))
	for _, c := range s.Today {
		ids = append(ids, c.ID)
	}
	return ids
}

// SelectDailyCards partitions a deck's cards into today's learning and
// reviewing sets.
//
// Learning cards are shuffled, then cards that have already been presented are
// moved ahead of fresh ones before the learning cap is applied, so a partially
// learned card is never dropped in favour of an unseen one. Reviewing cards
// are graduated cards due today or earlier (UTC days), taken in input order up
// to the review cap; the remainder is returned as overflow. The combined
// selection is shuffled once more for display.
//
// Returns domain.ErrInvalidCapacityConfig when the review cap is zero.
func SelectDailyCards(
	cards []*domain.Card,
	cfg domain.SpacedRepetitionConfig,
	today time.Time,
	shuffler Shuffler,
) (Selection, error) {
	if cfg.MaxReviewingCards <= 0 {
		return Selection{}, domain.ErrInvalidCapacityConfig
	}
	if shuffler == nil {
		shuffler = NewRandomShuffler()
	}

	var learning, due []*domain.Card
	for _, card := range cards {
		switch {
		case !card.State.IsGraduated:
			learning = append(learning, card)
		case card.State.IsDue(today):
			due = append(due, card)
		}
	}

	shuffleCards(shuffler, learning)
	learning = presentedFirst(learning)
	learning = learning[:clamp(cfg.MaxLearningCards, len(learning))]

	reviewCount := clamp(cfg.MaxReviewingCards, len(due))
	reviewing := due[:reviewCount]
	overflow := due[reviewCount:]

	todayCards := make([]*domain.Card, 0, len(reviewing)+len(learning))
	todayCards = append(todayCards, reviewing...)
	todayCards = append(todayCards, learning...)
	shuffleCards(shuffler, todayCards)

	return Selection{
		Today:     todayCards,
		Learning:  learning,
		Reviewing: reviewing,
		Overflow:  overflow,
	}, nil
}

// presentedFirst returns the cards with presented ones ahead of unpresented
// ones, keeping relative order within each group.
func presentedFirst(cards []*domain.Card) []*domain.Card {
	ordered := make([]*domain.Card, 0, len(cards))
	for _, c := range cards {
		if c.State.HasBeenPresented {
			ordered = append(ordered, c)
		}
	}
	for _, c := range cards {
		if !c.State.HasBeenPresented {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

func shuffleCards(shuffler Shuffler, cards []*domain.Card) {
	shuffler.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// clamp limits n to the range [0, size].
func clamp(n, size int) int {
	return max(0, min(n, size))
}
