package study

import (
	"slices"
	"sync"
	"time"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/domain/woodpecker"
	"github.com/google/uuid"
)

// Progress counts how far a session has come. A card is seen once it has
// left the pool. Cramming sessions report zero reviewing and learning totals.
type Progress struct {
	Total         int `json:"total"`
	Seen          int `json:"seen"`
	Reviewing     int `json:"reviewing"`
	ReviewingSeen int `json:"reviewing_seen"`
	Learning      int `json:"learning"`
	LearningSeen  int `json:"learning_seen"`
}

// AnswerResult describes what one grade did to the active card.
type AnswerResult struct {
	CardID uuid.UUID        `json:"card_id"`
	Grade  domain.UserGrade `json:"grade"`

	// Destiny is set for cards graded on the learning ladder.
	Destiny domain.CardDestiny   `json:"destiny,omitempty"`
	State   domain.LearningState `json:"state"`

	LeftPool  bool `json:"left_pool"`
	Graduated bool `json:"graduated"`
	Lapsed    bool `json:"lapsed"`
}

// Session is one study sitting over a deck.
//
// The pool holds the cards still to study; its first card is the active one.
// Cards that leave the pool in spaced mode wait in a pending list until
// SaveChanges writes them. A Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	deckID uuid.UUID
	config domain.SpacedRepetitionConfig
	mode   Mode
	state  State

	// record is the persisted selection; nil in cramming mode.
	record *domain.Session

	pool    []*domain.Card
	pending []*domain.Card
	dirty   map[uuid.UUID]bool

	// recordDirty is set while the stored session still lists cards that
	// have already been written.
	recordDirty bool

	total        int
	reviewingIDs map[uuid.UUID]bool
	learningIDs  map[uuid.UUID]bool

	scheduler woodpecker.Service
	clock     Clock
}

func newSession(
	deck *domain.Deck,
	mode Mode,
	pool []*domain.Card,
	scheduler woodpecker.Service,
	clock Clock,
) *Session {
	s := &Session{
		deckID:       deck.ID,
		config:       deck.Config,
		mode:         mode,
		state:        StateNotStarted,
		pool:         pool,
		dirty:        make(map[uuid.UUID]bool),
		total:        len(pool),
		reviewingIDs: make(map[uuid.UUID]bool),
		learningIDs:  make(map[uuid.UUID]bool),
		scheduler:    scheduler,
		clock:        clock,
	}

	if mode == ModeSpaced {
		for _, card := range pool {
			if card.State.IsGraduated {
				s.reviewingIDs[card.ID] = true
			} else {
				s.learningIDs[card.ID] = true
			}
		}
	}

	return s
}

// DeckID returns the deck being studied.
func (s *Session) DeckID() uuid.UUID {
	return s.deckID
}

// Mode returns the study mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// ID returns the persisted session id, or uuid.Nil when cramming.
func (s *Session) ID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record == nil {
		return uuid.Nil
	}
	return s.record.ID
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveCard returns a copy of the card to grade next.
func (s *Session) ActiveCard() (*domain.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pool) == 0 {
		return nil, false
	}
	return s.pool[0].Clone(), true
}

// DisplayedCards returns copies of at most two cards from the front of the
// pool, with the active card last so it is drawn on top.
func (s *Session) DisplayedCards() []*domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := min(2, len(s.pool))
	cards := make([]*domain.Card, 0, n)
	for i := n - 1; i >= 0; i-- {
		cards = append(cards, s.pool[i].Clone())
	}
	return cards
}

// Progress returns the session counters.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	inPool := make(map[uuid.UUID]bool, len(s.pool))
	for _, card := range s.pool {
		inPool[card.ID] = true
	}

	p := Progress{
		Total:     s.total,
		Seen:      s.total - len(s.pool),
		Reviewing: len(s.reviewingIDs),
		Learning:  len(s.learningIDs),
	}
	for id := range s.reviewingIDs {
		if !inPool[id] {
			p.ReviewingSeen++
		}
	}
	for id := range s.learningIDs {
		if !inPool[id] {
			p.LearningSeen++
		}
	}
	return p
}

// HasPendingChanges reports whether graded cards or the session record are
// still waiting to be saved.
func (s *Session) HasPendingChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0 || len(s.dirty) > 0 || s.recordDirty
}

// PressedButton applies a grade to the active card.
//
// Learning cards move along the step ladder and go to the back of the pool
// unless they graduate. Graduated cards are reviewed once and leave the pool.
// In cramming mode every card stays on the ladder and nothing is queued for
// saving.
func (s *Session) PressedButton(grade domain.UserGrade) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateNotStarted:
		return AnswerResult{}, ErrSessionNotStarted
	case StateCompleted:
		return AnswerResult{}, ErrSessionCompleted
	}
	if !grade.IsValid() {
		return AnswerResult{}, domain.ErrInvalidGrade
	}
	if len(s.pool) == 0 {
		return AnswerResult{}, ErrNoActiveCard
	}

	card := s.pool[0]
	now := s.clock.Today()

	if s.mode == ModeCramming || !card.State.IsGraduated {
		return s.gradeLearning(card, grade, now)
	}
	return s.gradeReview(card, grade, now)
}

func (s *Session) gradeLearning(card *domain.Card, grade domain.UserGrade, now time.Time) (AnswerResult, error) {
	destiny, err := s.scheduler.Stepper(card.State.Step, grade, s.config.NumberOfSteps)
	if err != nil {
		return AnswerResult{}, err
	}
	next := woodpecker.ApplyDestiny(card.State, destiny)

	result := AnswerResult{CardID: card.ID, Grade: grade, Destiny: destiny}

	if destiny != domain.DestinyGraduate {
		card.State = next
		card.UpdatedAt = now
		s.requeueActive()
		if s.mode == ModeSpaced {
			s.dirty[card.ID] = true
		}
		result.State = card.State
		return result, nil
	}

	result.LeftPool = true
	result.Graduated = true
	s.pool = s.pool[1:]

	if s.mode == ModeCramming {
		card.State = next
		result.State = card.State
		return result, nil
	}

	due := domain.DueDateAfter(now, 1)
	next.DueDate = &due
	card.AppendHistory(grade, now)
	card.State = next
	card.UpdatedAt = now
	s.queueForSave(card)

	result.State = card.State
	return result, nil
}

func (s *Session) gradeReview(card *domain.Card, grade domain.UserGrade, now time.Time) (AnswerResult, error) {
	next, err := s.scheduler.ApplyReview(card.State, grade, now)
	if err != nil {
		return AnswerResult{}, err
	}
	next.HasBeenPresented = true

	card.AppendHistory(grade, now)
	card.State = next
	card.UpdatedAt = now
	s.pool = s.pool[1:]
	s.queueForSave(card)

	return AnswerResult{
		CardID:   card.ID,
		Grade:    grade,
		State:    card.State,
		LeftPool: true,
		Lapsed:   !next.IsGraduated,
	}, nil
}

func (s *Session) requeueActive() {
	if len(s.pool) < 2 {
		return
	}
	active := s.pool[0]
	copy(s.pool, s.pool[1:])
	s.pool[len(s.pool)-1] = active
}

// queueForSave must be called with the lock held.
func (s *Session) queueForSave(card *domain.Card) {
	delete(s.dirty, card.ID)
	if s.record != nil {
		s.record.RemoveCard(card.ID)
	}
	for i, pending := range s.pending {
		if pending.ID == card.ID {
			s.pending[i] = card
			return
		}
	}
	s.pending = append(s.pending, card)
}

// pendingWrites returns copies of every card that must be written: cards
// that left the pool first, then dirty pool cards. Must be called with the
// lock held.
func (s *Session) pendingWrites() []*domain.Card {
	writes := make([]*domain.Card, 0, len(s.pending)+len(s.dirty))
	for _, card := range s.pending {
		writes = append(writes, card.Clone())
	}
	for _, card := range s.pool {
		if s.dirty[card.ID] {
			writes = append(writes, card.Clone())
		}
	}
	return writes
}

// markWritten drops cards that were persisted. Must be called with the lock held.
func (s *Session) markWritten(written map[uuid.UUID]bool) {
	s.pending = slices.DeleteFunc(s.pending, func(c *domain.Card) bool {
		return written[c.ID]
	})
	for id := range written {
		delete(s.dirty, id)
	}
}

// poolIDs must be called with the lock held.
func (s *Session) poolIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.pool))
	for _, card := range s.pool {
		ids = append(ids, card.ID)
	}
	return ids
}
