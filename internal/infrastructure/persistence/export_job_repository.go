package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/commerceqb/gateway/internal/domain/export"
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/commerceqb/gateway/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormExportJobRepository implements export.JobRepository using GORM
type GormExportJobRepository struct {
	db *gorm.DB
}

// NewGormExportJobRepository creates a new GormExportJobRepository
func NewGormExportJobRepository(db *gorm.DB) *GormExportJobRepository {
	return &GormExportJobRepository{db: db}
}

// Create inserts a new job into the queue
func (r *GormExportJobRepository) Create(ctx context.Context, job *export.Job) error {
	if !export.IsValidStatus(job.Status) {
		return shared.NewDomainError("INVALID_STATUS", "Unknown export status: "+string(job.Status))
	}
	return r.db.WithContext(ctx).Create(models.ExportJobModelFromDomain(job)).Error
}

// FindByID loads one job
func (r *GormExportJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*export.Job, error) {
	var model models.ExportJobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Exists reports whether any job references the subject, optionally
// restricted to the given job types
func (r *GormExportJobRepository) Exists(ctx context.Context, subject export.SubjectRef, types ...export.JobType) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.ExportJobModel{}).
		Where("subject_kind = ? AND subject_id = ?", subject.Kind, subject.ID)

	if len(types) > 0 {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		query = query.Where("job_type IN ?", names)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextByPriority scans the priority order and returns the oldest PENDING job
// of the first type that has one. The scan runs inside a transaction, with a
// row lock on PostgreSQL, so concurrent sessions cannot claim the same job.
func (r *GormExportJobRepository) NextByPriority(ctx context.Context, order export.PriorityOrder) (*export.Job, error) {
	var found *models.ExportJobModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			tx = tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}

		if len(order) == 0 {
			return r.oldestPending(tx, &found)
		}

		for _, jobType := range order {
			var model models.ExportJobModel
			err := tx.
				Where("status = ? AND job_type = ?", string(export.StatusPending), string(jobType)).
				Order("created_at ASC").
				First(&model).Error
			if err == nil {
				found = &model
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, nil
	}
	return found.ToDomain(), nil
}

func (r *GormExportJobRepository) oldestPending(tx *gorm.DB, out **models.ExportJobModel) error {
	var model models.ExportJobModel
	err := tx.
		Where("status = ?", string(export.StatusPending)).
		Order("created_at ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	*out = &model
	return nil
}

// MostRecentExport returns the job with the maximum non-null exported_at.
// Valid only under the one-job-in-flight processing model.
func (r *GormExportJobRepository) MostRecentExport(ctx context.Context) (*export.Job, error) {
	var model models.ExportJobModel
	err := r.db.WithContext(ctx).
		Where("exported_at IS NOT NULL").
		Order("exported_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountByStatus returns the number of jobs in the given status
func (r *GormExportJobRepository) CountByStatus(ctx context.Context, status export.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ExportJobModel{}).
		Where("status = ?", string(status)).
		Count(&count).Error
	return count, err
}

// UpdateStatus persists a status transition, rejecting unrecognized codes
func (r *GormExportJobRepository) UpdateStatus(ctx context.Context, job *export.Job, status export.Status) error {
	if !export.IsValidStatus(status) {
		return shared.NewDomainError("INVALID_STATUS", "Unknown export status: "+string(status))
	}

	result := r.db.WithContext(ctx).Model(&models.ExportJobModel{}).
		Where("id = ?", job.ID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}

	job.Status = status
	return nil
}

// MarkExported stamps the export-attempt timestamp
func (r *GormExportJobRepository) MarkExported(ctx context.Context, job *export.Job, ts time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.ExportJobModel{}).
		Where("id = ?", job.ID).
		Updates(map[string]interface{}{
			"exported_at": ts,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}

	job.ExportedAt = &ts
	return nil
}

// Delete removes a job from the queue
func (r *GormExportJobRepository) Delete(ctx context.Context, job *export.Job) error {
	return r.db.WithContext(ctx).Delete(&models.ExportJobModel{}, "id = ?", job.ID).Error
}

// List returns jobs filtered by optional status, newest first
func (r *GormExportJobRepository) List(ctx context.Context, status *export.Status, limit, offset int) ([]export.Job, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ExportJobModel{})
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var jobModels []models.ExportJobModel
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobModels).Error; err != nil {
		return nil, 0, err
	}

	jobs := make([]export.Job, len(jobModels))
	for i, model := range jobModels {
		jobs[i] = *model.ToDomain()
	}
	return jobs, total, nil
}

// Ensure GormExportJobRepository implements export.JobRepository
var _ export.JobRepository = (*GormExportJobRepository)(nil)
