package mocks

import (
	"context"
	"sync"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/service/study"
	"github.com/google/uuid"
)

// MockStudyRepository is an in-memory study.Repository.
//
// Stored values are copied on the way in and out, so tests observe exactly
// what was written. Any *Fn field overrides the in-memory behavior of its
// method.
type MockStudyRepository struct {
	FetchDeckFn         func(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error)
	FetchCardsForDeckFn func(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)
	EditCardFn          func(ctx context.Context, card *domain.Card) error
	DeleteCardFn        func(ctx context.Context, card *domain.Card) error
	CreateSessionFn     func(ctx context.Context, session *domain.Session) error
	EditSessionFn       func(ctx context.Context, session *domain.Session) error
	DeleteSessionFn     func(ctx context.Context, session *domain.Session) error

	mu       sync.Mutex
	decks    map[uuid.UUID]*domain.Deck
	cards    map[uuid.UUID]*domain.Card
	order    []uuid.UUID
	sessions map[uuid.UUID]*domain.Session

	// Call tracking for verification
	EditedCards     []*domain.Card
	CreatedSessions []*domain.Session
	EditedSessions  []*domain.Session
	DeletedSessions []*domain.Session
}

// NewMockStudyRepository creates an empty repository.
func NewMockStudyRepository() *MockStudyRepository {
	return &MockStudyRepository{
		decks:    make(map[uuid.UUID]*domain.Deck),
		cards:    make(map[uuid.UUID]*domain.Card),
		sessions: make(map[uuid.UUID]*domain.Session),
	}
}

// AddDeck stores a deck and its cards. A non-nil deck.Session is stored too.
func (m *MockStudyRepository) AddDeck(deck *domain.Deck, cards ...*domain.Card) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := *deck
	d.Session = nil
	m.decks[deck.ID] = &d
	if deck.Session != nil {
		m.sessions[deck.ID] = cloneSession(deck.Session)
	}
	for _, card := range cards {
		if _, exists := m.cards[card.ID]; !exists {
			m.order = append(m.order, card.ID)
		}
		m.cards[card.ID] = card.Clone()
	}
}

// Card returns a copy of the stored card.
func (m *MockStudyRepository) Card(id uuid.UUID) (*domain.Card, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	card, ok := m.cards[id]
	if !ok {
		return nil, false
	}
	return card.Clone(), true
}

// StoredSession returns a copy of the deck's stored session.
func (m *MockStudyRepository) StoredSession(deckID uuid.UUID) (*domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[deckID]
	if !ok {
		return nil, false
	}
	return cloneSession(session), true
}

// FetchDeck implements study.Repository
func (m *MockStudyRepository) FetchDeck(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	if m.FetchDeckFn != nil {
		return m.FetchDeckFn(ctx, deckID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deck, ok := m.decks[deckID]
	if !ok {
		return nil, study.ErrDeckNotFound
	}
	d := *deck
	if session, ok := m.sessions[deckID]; ok {
		d.Session = cloneSession(session)
	}
	return &d, nil
}

// FetchCardsForDeck implements study.Repository
func (m *MockStudyRepository) FetchCardsForDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	if m.FetchCardsForDeckFn != nil {
		return m.FetchCardsForDeckFn(ctx, deckID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var cards []*domain.Card
	for _, id := range m.order {
		if card, ok := m.cards[id]; ok && card.DeckID == deckID {
			cards = append(cards, card.Clone())
		}
	}
	return cards, nil
}

// EditCard implements study.Repository
func (m *MockStudyRepository) EditCard(ctx context.Context, card *domain.Card) error {
	if m.EditCardFn != nil {
		if err := m.EditCardFn(ctx, card); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.EditedCards = append(m.EditedCards, card.Clone())
	if _, exists := m.cards[card.ID]; !exists {
		m.order = append(m.order, card.ID)
	}
	m.cards[card.ID] = card.Clone()
	return nil
}

// DeleteCard implements study.Repository
func (m *MockStudyRepository) DeleteCard(ctx context.Context, card *domain.Card) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, card)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cards, card.ID)
	return nil
}

// CreateSession implements study.Repository
func (m *MockStudyRepository) CreateSession(ctx context.Context, session *domain.Session) error {
	if m.CreateSessionFn != nil {
		if err := m.CreateSessionFn(ctx, session); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreatedSessions = append(m.CreatedSessions, cloneSession(session))
	m.sessions[session.DeckID] = cloneSession(session)
	return nil
}

// EditSession implements study.Repository
func (m *MockStudyRepository) EditSession(ctx context.Context, session *domain.Session) error {
	if m.EditSessionFn != nil {
		if err := m.EditSessionFn(ctx, session); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.EditedSessions = append(m.EditedSessions, cloneSession(session))
	m.sessions[session.DeckID] = cloneSession(session)
	return nil
}

// DeleteSession implements study.Repository
func (m *MockStudyRepository) DeleteSession(ctx context.Context, session *domain.Session) error {
	if m.DeleteSessionFn != nil {
		if err := m.DeleteSessionFn(ctx, session); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeletedSessions = append(m.DeletedSessions, cloneSession(session))
	if current, ok := m.sessions[session.DeckID]; ok && current.ID == session.ID {
		delete(m.sessions, session.DeckID)
	}
	return nil
}

func cloneSession(s *domain.Session) *domain.Session {
	c := *s
	c.CardIDs = append([]uuid.UUID(nil), s.CardIDs...)
	return &c
}

var _ study.Repository = (*MockStudyRepository)(nil)
