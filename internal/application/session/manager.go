package session

import (
	"context"

	"github.com/commerceqb/gateway/internal/domain/session"
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager gates every stateful web-connector call behind the session
// sequence table. Validation is fail-closed: an unknown ticket or an
// out-of-sequence call destroys the session, forcing re-authentication.
type Manager struct {
	sessions session.Repository
	logger   *zap.Logger
}

// NewManager creates a new session Manager
func NewManager(sessions session.Repository, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: sessions,
		logger:   logger,
	}
}

// Start opens a fresh session for the principal, replacing any session the
// principal already holds. Returns the session keyed by the raw ticket's hash.
func (m *Manager) Start(ctx context.Context, ticket string, principalID uuid.UUID) (*session.Session, error) {
	s, err := session.NewSession(ticket, principalID)
	if err != nil {
		return nil, err
	}

	err = m.sessions.Transaction(ctx, func(repo session.Repository) error {
		if err := repo.DeleteByPrincipal(ctx, principalID); err != nil {
			return err
		}
		return repo.Create(ctx, s)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("session started",
		zap.String("principal_id", principalID.String()),
	)
	return s, nil
}

// Validate checks that the call is legal for the ticket's session and, if so,
// records it as the session's new stage. Public calls pass without a ticket.
// Any failure deletes the session and returns ErrSessionInvalid; lookup,
// check and update happen in one transaction.
func (m *Manager) Validate(ctx context.Context, ticket string, call session.Call) (*session.Session, error) {
	if session.IsPublicCall(call) {
		return nil, nil
	}

	ticketHash := session.HashTicket(ticket)

	// The rejection outcome is carried outside the callback: a callback
	// error rolls the transaction back, which would undo the delete and
	// leave the rejected session alive.
	var validated *session.Session
	var rejected bool
	err := m.sessions.Transaction(ctx, func(repo session.Repository) error {
		s, err := repo.FindByTicketHash(ctx, ticketHash)
		if err != nil {
			return err
		}

		if !session.CanFollow(s.Stage, call) {
			m.logger.Warn("call out of sequence, dropping session",
				zap.String("stage", string(s.Stage)),
				zap.String("call", string(call)),
				zap.String("principal_id", s.PrincipalID.String()),
			)
			rejected = true
			return repo.DeleteByTicketHash(ctx, ticketHash)
		}

		s.Advance(call)
		if err := repo.UpdateStage(ctx, s); err != nil {
			return err
		}
		validated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejected {
		return nil, shared.ErrSessionInvalid
	}

	return validated, nil
}

// Close ends the session for the ticket; unknown tickets are a no-op
func (m *Manager) Close(ctx context.Context, ticket string) error {
	return m.sessions.DeleteByTicketHash(ctx, session.HashTicket(ticket))
}
