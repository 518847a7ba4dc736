package session

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/google/uuid"
)

// Session is one authenticated web-connector connection. The ticket issued to
// the client is stored hashed at rest; at most one live session exists per
// principal.
type Session struct {
	shared.BaseEntity
	TicketHash  string
	PrincipalID uuid.UUID
	Stage       Call
}

// HashTicket returns the at-rest form of a session ticket
func HashTicket(ticket string) string {
	sum := sha256.Sum256([]byte(ticket))
	return hex.EncodeToString(sum[:])
}

// NewSession creates a session record for a freshly authenticated principal
func NewSession(ticket string, principalID uuid.UUID) (*Session, error) {
	if ticket == "" {
		return nil, shared.NewDomainError("INVALID_TICKET", "Session ticket cannot be empty")
	}
	if principalID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRINCIPAL", "Session requires an authenticated principal")
	}
	return &Session{
		BaseEntity:  shared.NewBaseEntity(),
		TicketHash:  HashTicket(ticket),
		PrincipalID: principalID,
		Stage:       InitialStage,
	}, nil
}

// Advance records the call as the last legally completed stage
func (s *Session) Advance(call Call) {
	s.Stage = call
}
