package models

import (
	"time"

	"github.com/commerceqb/gateway/internal/domain/export"
	"github.com/commerceqb/gateway/internal/domain/session"
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/google/uuid"
)

// ExportJobModel is the persistence model for export queue jobs
type ExportJobModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobType     string    `gorm:"type:varchar(50);not null;index:idx_jobs_type_status"`
	Status      string    `gorm:"type:varchar(20);not null;index:idx_jobs_type_status;index"`
	SubjectKind string    `gorm:"type:varchar(50);not null;index:idx_jobs_subject"`
	SubjectID   uuid.UUID `gorm:"type:uuid;not null;index:idx_jobs_subject"`
	ExportedAt  *time.Time `gorm:"index"`
	Version     int        `gorm:"not null;default:1"`
	CreatedAt   time.Time  `gorm:"not null;index"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExportJobModel) TableName() string {
	return "export_jobs"
}

// ToDomain converts the model to a domain job
func (m *ExportJobModel) ToDomain() *export.Job {
	job := &export.Job{
		Type:   export.JobType(m.JobType),
		Status: export.Status(m.Status),
		Subject: export.SubjectRef{
			Kind: m.SubjectKind,
			ID:   m.SubjectID,
		},
		ExportedAt: m.ExportedAt,
	}
	job.ID = m.ID
	job.Version = m.Version
	job.CreatedAt = m.CreatedAt
	job.UpdatedAt = m.UpdatedAt
	return job
}

// ExportJobModelFromDomain converts a domain job to its persistence model
func ExportJobModelFromDomain(job *export.Job) *ExportJobModel {
	return &ExportJobModel{
		ID:          job.ID,
		JobType:     string(job.Type),
		Status:      string(job.Status),
		SubjectKind: job.Subject.Kind,
		SubjectID:   job.Subject.ID,
		ExportedAt:  job.ExportedAt,
		Version:     job.Version,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

// SessionModel is the persistence model for web-connector sessions
type SessionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TicketHash  string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	PrincipalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Stage       string    `gorm:"type:varchar(30);not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SessionModel) TableName() string {
	return "soap_sessions"
}

// ToDomain converts the model to a domain session
func (m *SessionModel) ToDomain() *session.Session {
	s := &session.Session{
		TicketHash:  m.TicketHash,
		PrincipalID: m.PrincipalID,
		Stage:       session.Call(m.Stage),
	}
	s.BaseEntity = shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	return s
}

// SessionModelFromDomain converts a domain session to its persistence model
func SessionModelFromDomain(s *session.Session) *SessionModel {
	return &SessionModel{
		ID:          s.ID,
		TicketHash:  s.TicketHash,
		PrincipalID: s.PrincipalID,
		Stage:       string(s.Stage),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
