package post

import (
	"github.com/google/uuid"

	"slotskolan.se/forum/internal/entity"
	"slotskolan.se/forum/internal/modules/post/dto"
	reputation "slotskolan.se/forum/internal/modules/reputation/service"
)

const timeLayout = "2006-01-02 15:04:05"

func NewAuthorResponse(user entity.User) dto.AuthorResponse {
	if user.ID == uuid.Nil {
		return dto.AuthorResponse{Username: "Okänd"}
	}
	return dto.AuthorResponse{
		ID:         user.ID,
		Username:   user.Username,
		Role:       user.Role,
		Reputation: user.Reputation,
		RankName:   reputation.GetRankStatus(user.Reputation).RankName,
	}
}

func buildPostResponse(post *entity.Post, likeCount int64, hasLiked bool, acceptedPostID *uuid.UUID) dto.PostResponse {
	return dto.PostResponse{
		ID:         post.ID,
		ThreadID:   post.ThreadID,
		Author:     NewAuthorResponse(post.Author),
		Content:    post.Content,
		IsEdited:   post.IsEdited,
		LikeCount:  likeCount,
		HasLiked:   hasLiked,
		IsAccepted: acceptedPostID != nil && *acceptedPostID == post.ID,
		CreatedAt:  post.CreatedAt.Format(timeLayout),
		UpdatedAt:  post.UpdatedAt.Format(timeLayout),
	}
}
