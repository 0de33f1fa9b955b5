package study

import (
	"log/slog"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/domain/woodpecker"
	"github.com/birdapp/woodpecker/internal/events"
)

// DefaultSaveConcurrency bounds concurrent card writes in SaveChanges.
const DefaultSaveConcurrency = 4

// Option configures the study service.
type Option func(*studyServiceImpl)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(s *studyServiceImpl) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator replaces the random session id generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(s *studyServiceImpl) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithEventEmitter publishes study events to emitter.
func WithEventEmitter(emitter events.EventEmitter) Option {
	return func(s *studyServiceImpl) {
		s.emitter = emitter
	}
}

// WithShuffler sets the randomness used to order cramming sessions.
func WithShuffler(shuffler woodpecker.Shuffler) Option {
	return func(s *studyServiceImpl) {
		if shuffler != nil {
			s.shuffler = shuffler
		}
	}
}

// WithSaveConcurrency bounds concurrent card writes. Values below one are ignored.
func WithSaveConcurrency(n int) Option {
	return func(s *studyServiceImpl) {
		if n >= 1 {
			s.saveConcurrency = n
		}
	}
}

// WithDeckDefaults sets the spaced repetition config used for decks that
// have none of their own.
func WithDeckDefaults(cfg domain.SpacedRepetitionConfig) Option {
	return func(s *studyServiceImpl) {
		s.deckDefaults = &cfg
	}
}

// WithLogger replaces the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *studyServiceImpl) {
		if logger != nil {
			s.logger = logger.With(slog.String("component", "study_service"))
		}
	}
}
