package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	"slotskolan.se/forum/pkg/database"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	// FindInThread only matches a post that belongs to threadID.
	FindInThread(ctx context.Context, threadID, postID uuid.UUID) (*entity.Post, error)
	FindFirstInThread(ctx context.Context, threadID uuid.UUID) (*entity.Post, error)
	FindByThreadID(ctx context.Context, threadID uuid.UUID, offset, limit int) ([]*entity.Post, error)
	CountByThread(ctx context.Context, threadID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
	FindIDsByThread(ctx context.Context, threadID uuid.UUID) ([]uuid.UUID, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return database.Conn(ctx, r.db).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	if err := database.Conn(ctx, r.db).Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindInThread(ctx context.Context, threadID, postID uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	err := database.Conn(ctx, r.db).
		Where("id = ? AND thread_id = ?", postID, threadID).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindFirstInThread(ctx context.Context, threadID uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	err := database.Conn(ctx, r.db).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Order("id ASC").
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindByThreadID returns posts oldest first.
func (r *postRepository) FindByThreadID(ctx context.Context, threadID uuid.UUID, offset, limit int) ([]*entity.Post, error) {
	var posts []*entity.Post
	err := database.Conn(ctx, r.db).
		Preload("Author").
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountByThread(ctx context.Context, threadID uuid.UUID) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Post{}).Where("thread_id = ?", threadID).Count(&count).Error
	return count, err
}

func (r *postRepository) FindIDsByThread(ctx context.Context, threadID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := database.Conn(ctx, r.db).Model(&entity.Post{}).Where("thread_id = ?", threadID).Pluck("id", &ids).Error
	return ids, err
}

func (r *postRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	result := database.Conn(ctx, r.db).
		Model(&entity.Post{}).
		Where("id = ?", id).
		Updates(map[string]any{"content": content, "is_edited": true})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Post{}).Count(&count).Error
	return count, err
}
