package like

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	likeDto "slotskolan.se/forum/internal/modules/like/dto"
	likeRepo "slotskolan.se/forum/internal/modules/like/repository"
	postRepo "slotskolan.se/forum/internal/modules/post/repository"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/database"
)

type LikeService interface {
	ToggleLike(ctx context.Context, caller *entity.User, postID uuid.UUID) (*likeDto.LikeToggleResponse, error)
}

type likeService struct {
	tx       database.Transactor
	repo     likeRepo.LikeRepository
	postRepo postRepo.PostRepository
}

func NewLikeService(tx database.Transactor, repo likeRepo.LikeRepository, postRepo postRepo.PostRepository) LikeService {
	return &likeService{
		tx:       tx,
		repo:     repo,
		postRepo: postRepo,
	}
}

func (s *likeService) ToggleLike(ctx context.Context, caller *entity.User, postID uuid.UUID) (*likeDto.LikeToggleResponse, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Du måste vara inloggad")
	}

	res := &likeDto.LikeToggleResponse{}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Inlägget hittades inte")
			}
			return err
		}

		liked, err := s.repo.Toggle(ctx, caller.ID, postID)
		if err != nil {
			return err
		}
		count, err := s.repo.CountByPost(ctx, postID)
		if err != nil {
			return err
		}

		res.Liked = liked
		res.LikeCount = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
