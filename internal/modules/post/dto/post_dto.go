package dto

import (
	"github.com/google/uuid"

	"slotskolan.se/forum/internal/entity"
	commonDto "slotskolan.se/forum/pkg/dto"
)

type CreatePostRequest struct {
	Content string `json:"content" binding:"required,max=20000"`
}

type UpdatePostRequest struct {
	Content string `json:"content" binding:"required,max=20000"`
}

type AuthorResponse struct {
	ID         uuid.UUID   `json:"id"`
	Username   string      `json:"username"`
	Role       entity.Role `json:"role"`
	Reputation int         `json:"reputation"`
	RankName   string      `json:"rank_name"`
}

type PostResponse struct {
	ID         uuid.UUID      `json:"id"`
	ThreadID   uuid.UUID      `json:"thread_id"`
	Author     AuthorResponse `json:"author"`
	Content    string         `json:"content"`
	IsEdited   bool           `json:"is_edited"`
	LikeCount  int64          `json:"like_count"`
	HasLiked   bool           `json:"has_liked"`
	IsAccepted bool           `json:"is_accepted"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
}

type PaginatedPostResponse struct {
	Data []PostResponse          `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
