package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	"slotskolan.se/forum/pkg/database"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.ForumCategory) error
	FindBySlug(ctx context.Context, slug string) (*entity.ForumCategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ForumCategory, error)
	FindAll(ctx context.Context) ([]*entity.ForumCategory, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.ForumCategory) error {
	return database.Conn(ctx, r.db).Create(category).Error
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*entity.ForumCategory, error) {
	var category entity.ForumCategory
	if err := database.Conn(ctx, r.db).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ForumCategory, error) {
	var category entity.ForumCategory
	if err := database.Conn(ctx, r.db).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]*entity.ForumCategory, error) {
	var categories []*entity.ForumCategory
	if err := database.Conn(ctx, r.db).Order("sort_order ASC").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
