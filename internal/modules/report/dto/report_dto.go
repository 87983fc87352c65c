package dto

import (
	"github.com/google/uuid"

	"slotskolan.se/forum/internal/entity"
	postDto "slotskolan.se/forum/internal/modules/post/dto"
	commonDto "slotskolan.se/forum/pkg/dto"
)

type CreateReportRequest struct {
	PostID string `json:"postId" binding:"required,uuid"`
	Reason string `json:"reason" binding:"required,max=2000"`
}

type ResolveReportRequest struct {
	ReportID   string `json:"reportId" binding:"required,uuid"`
	Status     string `json:"status" binding:"required,oneof=RESOLVED REJECTED"`
	Resolution string `json:"resolution" binding:"required,max=2000"`
}

// ReportFilter selects a tab: pending, or resolved for every closed report.
type ReportFilter struct {
	commonDto.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=pending resolved"`
}

type ReportResponse struct {
	ID          uuid.UUID               `json:"id"`
	PostID      uuid.UUID               `json:"post_id"`
	ThreadID    uuid.UUID               `json:"thread_id"`
	PostExcerpt string                  `json:"post_excerpt"`
	Reporter    postDto.AuthorResponse  `json:"reporter"`
	Reason      string                  `json:"reason"`
	Status      entity.ReportStatus     `json:"status"`
	Resolution  *string                 `json:"resolution"`
	ResolvedBy  *postDto.AuthorResponse `json:"resolved_by,omitempty"`
	ResolvedAt  *string                 `json:"resolved_at"`
	CreatedAt   string                  `json:"created_at"`
}

type PaginatedReportResponse struct {
	Data []ReportResponse         `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
