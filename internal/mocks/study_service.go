package mocks

import (
	"context"

	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/service/study"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// TestifyMockStudyService is a mock of study.Service for use with testify/mock
type TestifyMockStudyService struct {
	mock.Mock
}

// Startup is a mock implementation of study.Service.Startup
func (m *TestifyMockStudyService) Startup(ctx context.Context, deckID uuid.UUID, mode study.Mode) (*study.Session, error) {
	args := m.Called(ctx, deckID, mode)
	if session, ok := args.Get(0).(*study.Session); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

// Answer is a mock implementation of study.Service.Answer
func (m *TestifyMockStudyService) Answer(
	ctx context.Context,
	session *study.Session,
	grade domain.UserGrade,
) (study.AnswerResult, error) {
	args := m.Called(ctx, session, grade)
	result, _ := args.Get(0).(study.AnswerResult)
	return result, args.Error(1)
}

// SaveChanges is a mock implementation of study.Service.SaveChanges
func (m *TestifyMockStudyService) SaveChanges(ctx context.Context, session *study.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

var _ study.Service = (*TestifyMockStudyService)(nil)
