package session

import (
	"context"
	"testing"

	"github.com/commerceqb/gateway/internal/domain/session"
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSessionRepository is a mock implementation of session.Repository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) FindByTicketHash(ctx context.Context, ticketHash string) (*session.Session, error) {
	args := m.Called(ctx, ticketHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionRepository) UpdateStage(ctx context.Context, s *session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteByTicketHash(ctx context.Context, ticketHash string) error {
	args := m.Called(ctx, ticketHash)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteByPrincipal(ctx context.Context, principalID uuid.UUID) error {
	args := m.Called(ctx, principalID)
	return args.Error(0)
}

// Transaction runs fn against the mock itself; transactional behavior is
// covered by the repository tests.
func (m *MockSessionRepository) Transaction(ctx context.Context, fn func(repo session.Repository) error) error {
	return fn(m)
}

func existingSession(t *testing.T, ticket string, stage session.Call) *session.Session {
	t.Helper()
	s, err := session.NewSession(ticket, uuid.New())
	require.NoError(t, err)
	s.Stage = stage
	return s
}

func TestManager_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces any session the principal holds", func(t *testing.T) {
		repo := new(MockSessionRepository)
		manager := NewManager(repo, zap.NewNop())
		principalID := uuid.New()

		repo.On("DeleteByPrincipal", ctx, principalID).Return(nil)
		repo.On("Create", ctx, mock.AnythingOfType("*session.Session")).Return(nil)

		s, err := manager.Start(ctx, "fresh-ticket", principalID)

		require.NoError(t, err)
		assert.Equal(t, session.HashTicket("fresh-ticket"), s.TicketHash)
		assert.Equal(t, session.InitialStage, s.Stage)
		repo.AssertExpectations(t)
	})

	t.Run("fails when the old session cannot be cleared", func(t *testing.T) {
		repo := new(MockSessionRepository)
		manager := NewManager(repo, zap.NewNop())
		principalID := uuid.New()

		repo.On("DeleteByPrincipal", ctx, principalID).Return(assertionError())

		_, err := manager.Start(ctx, "fresh-ticket", principalID)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestManager_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("public calls bypass validation", func(t *testing.T) {
		repo := new(MockSessionRepository)
		manager := NewManager(repo, zap.NewNop())

		for _, call := range []session.Call{
			session.CallServerVersion,
			session.CallClientVersion,
			session.CallAuthenticate,
		} {
			s, err := manager.Validate(ctx, "", call)
			assert.NoError(t, err)
			assert.Nil(t, s)
		}
		repo.AssertNotCalled(t, "FindByTicketHash", mock.Anything, mock.Anything)
	})

	t.Run("advances the stage on a legal call", func(t *testing.T) {
		repo := new(MockSessionRepository)
		manager := NewManager(repo, zap.NewNop())
		s := existingSession(t, "ticket-1", session.CallAuthenticate)

		repo.On("FindByTicketHash", ctx, s.TicketHash).Return(s, nil)
		repo.On("UpdateStage", ctx, s).Return(nil)

		validated, err := manager.Validate(ctx, "ticket-1", session.CallSendRequest)

		require.NoError(t, err)
		assert.Equal(t, session.CallSendRequest, validated.Stage)
		repo.AssertExpectations(t)
	})

	t.Run("deletes the session on an out-of-sequence call", func(t *testing.T) {
		repo := new(MockSessionRepository)
		manager := NewManager(repo, zap.NewNop())
		s := existingSession(t, "ticket-2", session.CallAuthenticate)

		repo.On("FindByTicketHash", ctx, s.TicketHash).Return(s, nil)
		repo.On("DeleteByTicketHash", ctx, s.TicketHash).Return(nil)

		_, err := manager.Validate(ctx, "ticket-2", session.CallGetLastError)

		assert.ErrorIs(t, err, shared.ErrSessionInvalid)
		repo.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an unknown ticket", func(t *testing.T) {
		repo := new(MockSessionRepository)
		manager := NewManager(repo, zap.NewNop())
		hash := session.HashTicket("never-issued")

		repo.On("FindByTicketHash", ctx, hash).Return(nil, shared.ErrSessionInvalid)

		_, err := manager.Validate(ctx, "never-issued", session.CallSendRequest)
		assert.ErrorIs(t, err, shared.ErrSessionInvalid)
	})

	t.Run("closeConnection is legal right after authenticate", func(t *testing.T) {
		repo := new(MockSessionRepository)
		manager := NewManager(repo, zap.NewNop())
		s := existingSession(t, "ticket-3", session.CallAuthenticate)

		repo.On("FindByTicketHash", ctx, s.TicketHash).Return(s, nil)
		repo.On("UpdateStage", ctx, s).Return(nil)

		validated, err := manager.Validate(ctx, "ticket-3", session.CallCloseConnection)
		require.NoError(t, err)
		assert.Equal(t, session.CallCloseConnection, validated.Stage)
	})
}

func TestManager_Close(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSessionRepository)
	manager := NewManager(repo, zap.NewNop())

	repo.On("DeleteByTicketHash", ctx, session.HashTicket("ticket-x")).Return(nil)

	assert.NoError(t, manager.Close(ctx, "ticket-x"))
	repo.AssertExpectations(t)
}

func assertionError() error {
	return shared.NewDomainError("STORAGE", "storage unavailable")
}
