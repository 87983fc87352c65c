package thread

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	"slotskolan.se/forum/pkg/database"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type Filter struct {
	CategoryID *uuid.UUID
	AuthorID   *uuid.UUID
	Search     string
}

type Repository interface {
	Create(ctx context.Context, thread *entity.Thread) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Thread, error)
	SlugExists(ctx context.Context, categoryID uuid.UUID, slug string) (bool, error)
	FindAll(ctx context.Context, filter Filter, offset, limit int) ([]*entity.Thread, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	TouchLastPost(ctx context.Context, id, userID uuid.UUID, at time.Time) error
	Count(ctx context.Context) (int64, error)

	CompareAndSetAccepted(ctx context.Context, id uuid.UUID, expected, next *uuid.UUID) (bool, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, thread *entity.Thread) error {
	return database.Conn(ctx, r.db).Create(thread).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Thread, error) {
	var thread entity.Thread
	if err := database.Conn(ctx, r.db).
		Preload("Category").
		Preload("Author").
		Preload("LastPostBy").
		Where("id = ?", id).
		First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *repository) SlugExists(ctx context.Context, categoryID uuid.UUID, slug string) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&entity.Thread{}).
		Where("category_id = ? AND slug = ?", categoryID, slug).
		Count(&count).Error
	return count > 0, err
}

// FindAll lists sticky threads first, then by latest activity.
func (r *repository) FindAll(ctx context.Context, filter Filter, offset, limit int) ([]*entity.Thread, int64, error) {
	var threads []*entity.Thread
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.Thread{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '\\'", "%"+likeEscaper.Replace(search)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Category").
		Preload("Author").
		Preload("LastPostBy").
		Order("is_sticky DESC").
		Order("last_post_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&threads).Error
	if err != nil {
		return nil, 0, err
	}

	return threads, total, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	result := database.Conn(ctx, r.db).Model(&entity.Thread{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementViews counts every read. It leaves updated_at alone.
func (r *repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result := database.Conn(ctx, r.db).
		Model(&entity.Thread{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) TouchLastPost(ctx context.Context, id, userID uuid.UUID, at time.Time) error {
	return database.Conn(ctx, r.db).
		Model(&entity.Thread{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"last_post_at": at, "last_post_by_id": userID}).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Thread{}).Count(&count).Error
	return count, err
}
