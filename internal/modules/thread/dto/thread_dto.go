package dto

import (
	"github.com/google/uuid"

	postDto "slotskolan.se/forum/internal/modules/post/dto"
	commonDto "slotskolan.se/forum/pkg/dto"
)

type CreateThreadRequest struct {
	CategoryID string `json:"categoryId" binding:"required,uuid"`
	Title      string `json:"title" binding:"required,max=255"`
	Content    string `json:"content" binding:"required,max=20000"`
}

// UpdateThreadRequest only changes the fields that are present. IsSticky and
// IsLocked are ignored unless the caller is staff.
type UpdateThreadRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=255"`
	Content  *string `json:"content" binding:"omitempty,max=20000"`
	IsSticky *bool   `json:"isSticky"`
	IsLocked *bool   `json:"isLocked"`
}

type ModerateThreadRequest struct {
	IsSticky *bool `json:"isSticky"`
	IsLocked *bool `json:"isLocked"`
}

type AcceptPostRequest struct {
	PostID string `json:"postId" binding:"required,uuid"`
}

type ThreadFilter struct {
	commonDto.PageQuery
	CategoryID string `form:"categoryId" binding:"omitempty,uuid"`
	AuthorID   string `form:"authorId" binding:"omitempty,uuid"`
	Search     string `form:"q" binding:"omitempty,max=200"`
}

type ThreadResponse struct {
	ID             uuid.UUID               `json:"id"`
	CategoryID     uuid.UUID               `json:"category_id"`
	CategoryName   string                  `json:"category_name"`
	CategorySlug   string                  `json:"category_slug"`
	Title          string                  `json:"title"`
	Slug           string                  `json:"slug"`
	Content        string                  `json:"content"`
	Author         postDto.AuthorResponse  `json:"author"`
	IsLocked       bool                    `json:"is_locked"`
	IsSticky       bool                    `json:"is_sticky"`
	AcceptedPostID *uuid.UUID              `json:"accepted_post_id"`
	ViewCount      int                     `json:"view_count"`
	LastPostAt     string                  `json:"last_post_at"`
	LastPostBy     *postDto.AuthorResponse `json:"last_post_by,omitempty"`
	CreatedAt      string                  `json:"created_at"`
	UpdatedAt      string                  `json:"updated_at"`
}

type PaginatedThreadResponse struct {
	Data []ThreadResponse         `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

type ThreadDetailResponse struct {
	Thread ThreadResponse           `json:"thread"`
	Posts  []postDto.PostResponse   `json:"posts"`
	Meta   commonDto.PaginationMeta `json:"meta"`
}

type AcceptPostResponse struct {
	ThreadID       uuid.UUID  `json:"thread_id"`
	AcceptedPostID *uuid.UUID `json:"accepted_post_id"`
	Accepted       bool       `json:"accepted"`
}
