package study

import (
	"context"
	"errors"
	"log/slog"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/domain/woodpecker"
	"github.com/birdapp/woodpecker/internal/events"
	"github.com/birdapp/woodpecker/internal/platform/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// studyServiceImpl implements the Service interface
type studyServiceImpl struct {
	repo            Repository
	scheduler       woodpecker.Service
	clock           Clock
	ids             IDGenerator
	shuffler        woodpecker.Shuffler
	emitter         events.EventEmitter
	saveConcurrency int
	deckDefaults    *domain.SpacedRepetitionConfig
	logger          *slog.Logger
}

// NewStudyService creates a new study service.
// It panics if repo or scheduler is nil.
func NewStudyService(repo Repository, scheduler woodpecker.Service, opts ...Option) Service {
	if repo == nil {
		panic("repo cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}

	s := &studyServiceImpl{
		repo:            repo,
		scheduler:       scheduler,
		clock:           SystemClock{},
		ids:             UUIDGenerator{},
		shuffler:        woodpecker.NewRandomShuffler(),
		saveConcurrency: DefaultSaveConcurrency,
		logger:          slog.Default().With(slog.String("component", "study_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Startup implements Service.Startup
func (s *studyServiceImpl) Startup(ctx context.Context, deckID uuid.UUID, mode Mode) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	deck, err := s.repo.FetchDeck(ctx, deckID)
	if err != nil {
		if errors.Is(err, ErrDeckNotFound) {
			return nil, err
		}
		return nil, newStartupError("failed to fetch deck", err)
	}
	if deck.Config.IsZero() && s.deckDefaults != nil {
		deck.Config = *s.deckDefaults
	}
	if err := deck.Config.Validate(); err != nil {
		return nil, newStartupError("deck configuration is invalid", err)
	}

	cards, err := s.repo.FetchCardsForDeck(ctx, deckID)
	if err != nil {
		return nil, newStartupError("failed to fetch cards", err)
	}

	var session *Session
	if mode == ModeCramming {
		session = s.startCramming(deck, cards)
	} else {
		session, err = s.startSpaced(ctx, log, deck, cards)
		if err != nil {
			return nil, err
		}
	}

	session.state = StateInProgress

	log.Info("study session started",
		slog.String("deck_id", deckID.String()),
		slog.String("mode", string(mode)),
		slog.Int("cards", session.total),
		slog.Int("overflow", len(session.pending)))

	return session, nil
}

func (s *studyServiceImpl) startSpaced(
	ctx context.Context,
	log *slog.Logger,
	deck *domain.Deck,
	cards []*domain.Card,
) (*Session, error) {
	today := s.clock.Today()

	if deck.Session != nil && s.clock.IsSameDay(deck.Session.Date, today) {
		byID := make(map[uuid.UUID]*domain.Card, len(cards))
		for _, card := range cards {
			byID[card.ID] = card
		}

		pool := make([]*domain.Card, 0, len(deck.Session.CardIDs))
		for _, id := range deck.Session.CardIDs {
			card, ok := byID[id]
			if !ok {
				log.Debug("skipping card missing from deck", slog.String("card_id", id.String()))
				continue
			}
			// Written by an earlier save whose session update failed.
			if graded, ok := card.LastGradedAt(); ok && s.clock.IsSameDay(graded, today) {
				log.Debug("skipping card already graded today", slog.String("card_id", id.String()))
				continue
			}
			pool = append(pool, card.Clone())
		}

		session := newSession(deck, ModeSpaced, pool, s.scheduler, s.clock)
		record := *deck.Session
		record.CardIDs = session.poolIDs()
		session.record = &record
		return session, nil
	}

	if deck.Session != nil {
		if err := s.repo.DeleteSession(ctx, deck.Session); err != nil {
			return nil, newStartupError("failed to delete stale session", err)
		}
		log.Debug("deleted stale session", slog.String("session_id", deck.Session.ID.String()))
	}

	selection, err := s.scheduler.SelectDailyCards(cards, deck.Config, today)
	if err != nil {
		return nil, newStartupError("failed to select daily cards", err)
	}

	pool := make([]*domain.Card, 0, len(selection.Today))
	for _, card := range selection.Today {
		pool = append(pool, card.Clone())
	}

	record, err := domain.NewSession(s.ids.NewID(), deck.ID, selection.IDs(), today)
	if err != nil {
		return nil, newStartupError("failed to build session", err)
	}
	if err := s.repo.CreateSession(ctx, record); err != nil {
		return nil, newStartupError("failed to store session", err)
	}

	session := newSession(deck, ModeSpaced, pool, s.scheduler, s.clock)
	session.record = record

	tomorrow := domain.DueDateAfter(today, 1)
	for _, card := range selection.Overflow {
		postponed := card.Clone()
		due := tomorrow
		postponed.State.DueDate = &due
		session.pending = append(session.pending, postponed)
	}

	return session, nil
}

func (s *studyServiceImpl) startCramming(deck *domain.Deck, cards []*domain.Card) *Session {
	pool := make([]*domain.Card, 0, len(cards))
	for _, card := range cards {
		c := card.Clone()
		if c.State.IsGraduated {
			c.State.IsGraduated = false
			c.State.Step = 0
		}
		pool = append(pool, c)
	}
	s.shuffler.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	return newSession(deck, ModeCramming, pool, s.scheduler, s.clock)
}

// Answer implements Service.Answer
func (s *studyServiceImpl) Answer(
	ctx context.Context,
	session *Session,
	grade domain.UserGrade,
) (AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := session.PressedButton(grade)
	if err != nil {
		return AnswerResult{}, err
	}

	log.Debug("card graded",
		slog.String("deck_id", session.DeckID().String()),
		slog.String("card_id", result.CardID.String()),
		slog.String("grade", grade.String()),
		slog.Bool("left_pool", result.LeftPool))

	if session.Mode() == ModeSpaced {
		switch {
		case result.Graduated:
			s.emit(ctx, log, events.TypeCardGraduated, session.DeckID(), cardPayload(result))
		case result.Lapsed:
			s.emit(ctx, log, events.TypeCardLapsed, session.DeckID(), cardPayload(result))
		}
	}

	return result, nil
}

// SaveChanges implements Service.SaveChanges
func (s *studyServiceImpl) SaveChanges(ctx context.Context, session *Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.state == StateNotStarted {
		return ErrSessionNotStarted
	}
	if session.mode == ModeCramming {
		session.state = StateCompleted
		return nil
	}

	writes := session.pendingWrites()
	failures := make([]error, len(writes))

	var g errgroup.Group
	g.SetLimit(s.saveConcurrency)
	for i, card := range writes {
		g.Go(func() error {
			if err := s.repo.EditCard(ctx, card); err != nil {
				failures[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	saveErr := &SaveError{}
	written := make(map[uuid.UUID]bool, len(writes))
	for i, card := range writes {
		if failures[i] != nil {
			saveErr.Cards = append(saveErr.Cards, &CardWriteError{CardID: card.ID, Err: failures[i]})
			continue
		}
		written[card.ID] = true
	}
	session.markWritten(written)

	record := *session.record
	record.CardIDs = session.poolIDs()
	if err := s.repo.EditSession(ctx, &record); err != nil {
		saveErr.Session = &SessionWriteError{SessionID: record.ID, Err: err}
		session.recordDirty = true
	} else {
		session.record = &record
		session.recordDirty = false
	}

	session.state = StateCompleted

	log.Info("study session saved",
		slog.String("deck_id", session.deckID.String()),
		slog.String("session_id", record.ID.String()),
		slog.Int("saved_cards", len(written)),
		slog.Int("failed_cards", len(saveErr.Cards)),
		slog.Int("remaining_ids", len(record.CardIDs)))

	s.emit(ctx, log, events.TypeSessionSaved, session.deckID, events.SessionSavedPayload{
		SessionID:     record.ID,
		SavedCards:    len(written),
		FailedCardIDs: saveErr.FailedCardIDs(),
		RemainingIDs:  len(record.CardIDs),
	})

	if len(saveErr.Cards) > 0 || saveErr.Session != nil {
		return saveErr
	}
	return nil
}

func (s *studyServiceImpl) emit(
	ctx context.Context,
	log *slog.Logger,
	eventType string,
	deckID uuid.UUID,
	payload any,
) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewStudyEvent(eventType, deckID, payload)
	if err != nil {
		log.Error("failed to build study event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}

	// Event delivery never fails a study operation.
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit study event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}

func cardPayload(result AnswerResult) events.CardPayload {
	return events.CardPayload{
		CardID:     result.CardID,
		Grade:      result.Grade.String(),
		EaseFactor: result.State.EaseFactor,
		Interval:   result.State.Interval,
	}
}

// Compile-time check to ensure studyServiceImpl implements Service
var _ Service = (*studyServiceImpl)(nil)
