package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	"slotskolan.se/forum/pkg/database"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Report, error)
	FindByStatuses(ctx context.Context, statuses []entity.ReportStatus, offset, limit int) ([]*entity.Report, int64, error)
	// Close moves a PENDING report to status. It returns false when the report
	// was no longer pending.
	Close(ctx context.Context, id uuid.UUID, status entity.ReportStatus, resolution string, resolverID uuid.UUID, at time.Time) (bool, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *entity.Report) error {
	return database.Conn(ctx, r.db).Create(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Report, error) {
	var report entity.Report
	err := r.preload(database.Conn(ctx, r.db)).
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) FindByStatuses(ctx context.Context, statuses []entity.ReportStatus, offset, limit int) ([]*entity.Report, int64, error) {
	db := database.Conn(ctx, r.db)

	var total int64
	if err := db.Model(&entity.Report{}).Where("status IN ?", statuses).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []*entity.Report
	err := r.preload(db).
		Where("status IN ?", statuses).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *reportRepository) Close(ctx context.Context, id uuid.UUID, status entity.ReportStatus, resolution string, resolverID uuid.UUID, at time.Time) (bool, error) {
	result := database.Conn(ctx, r.db).
		Model(&entity.Report{}).
		Where("id = ? AND status = ?", id, entity.ReportStatusPending).
		Updates(map[string]any{
			"status":         status,
			"resolution":     resolution,
			"resolved_by_id": resolverID,
			"resolved_at":    at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *reportRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Post").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "role", "reputation")
		}).
		Preload("ResolvedBy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "role", "reputation")
		})
}
