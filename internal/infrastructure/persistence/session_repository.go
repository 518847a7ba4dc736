package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/commerceqb/gateway/internal/domain/session"
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/commerceqb/gateway/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSessionRepository implements session.Repository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Create inserts a session record
func (r *GormSessionRepository) Create(ctx context.Context, s *session.Session) error {
	return r.db.WithContext(ctx).Create(models.SessionModelFromDomain(s)).Error
}

// FindByTicketHash loads the session matching the hashed ticket
func (r *GormSessionRepository) FindByTicketHash(ctx context.Context, ticketHash string) (*session.Session, error) {
	var model models.SessionModel
	err := r.db.WithContext(ctx).First(&model, "ticket_hash = ?", ticketHash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrSessionInvalid
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// UpdateStage persists the session's last completed call
func (r *GormSessionRepository) UpdateStage(ctx context.Context, s *session.Session) error {
	result := r.db.WithContext(ctx).Model(&models.SessionModel{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"stage":      string(s.Stage),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrSessionInvalid
	}
	return nil
}

// DeleteByTicketHash removes the session with the given hashed ticket
func (r *GormSessionRepository) DeleteByTicketHash(ctx context.Context, ticketHash string) error {
	return r.db.WithContext(ctx).Delete(&models.SessionModel{}, "ticket_hash = ?", ticketHash).Error
}

// DeleteByPrincipal removes any session held by the principal
func (r *GormSessionRepository) DeleteByPrincipal(ctx context.Context, principalID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.SessionModel{}, "principal_id = ?", principalID).Error
}

// Transaction runs fn against a repository bound to a single transaction
func (r *GormSessionRepository) Transaction(ctx context.Context, fn func(repo session.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormSessionRepository{db: tx})
	})
}

// Ensure GormSessionRepository implements session.Repository
var _ session.Repository = (*GormSessionRepository)(nil)
