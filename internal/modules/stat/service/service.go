package service

import (
	"context"

	postRepo "slotskolan.se/forum/internal/modules/post/repository"
	"slotskolan.se/forum/internal/modules/stat/dto"
	threadRepo "slotskolan.se/forum/internal/modules/thread/repository"
	"slotskolan.se/forum/internal/modules/user/repository"
)

type StatService interface {
	GetForumStats(ctx context.Context) (*dto.ForumStats, error)
}

type statService struct {
	userRepo   repository.UserRepository
	threadRepo threadRepo.Repository
	postRepo   postRepo.PostRepository
}

func NewStatService(userRepo repository.UserRepository, threadRepo threadRepo.Repository, postRepo postRepo.PostRepository) StatService {
	return &statService{
		userRepo:   userRepo,
		threadRepo: threadRepo,
		postRepo:   postRepo,
	}
}

func (s *statService) GetForumStats(ctx context.Context) (*dto.ForumStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	threads, err := s.threadRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ForumStats{
		TotalUsers:   users,
		TotalThreads: threads,
		TotalPosts:   posts,
	}, nil
}
