package session

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists session records
type Repository interface {
	// Create inserts a session record
	Create(ctx context.Context, s *Session) error

	// FindByTicketHash loads the session matching the hashed ticket
	FindByTicketHash(ctx context.Context, ticketHash string) (*Session, error)

	// UpdateStage persists the session's last completed call
	UpdateStage(ctx context.Context, s *Session) error

	// DeleteByTicketHash removes the session with the given hashed ticket;
	// no-op when the ticket is unknown
	DeleteByTicketHash(ctx context.Context, ticketHash string) error

	// DeleteByPrincipal removes any session held by the principal
	DeleteByPrincipal(ctx context.Context, principalID uuid.UUID) error

	// Transaction runs fn inside a single storage transaction so that
	// validate-update-or-delete is one critical section
	Transaction(ctx context.Context, fn func(repo Repository) error) error
}
