package thread

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	post "slotskolan.se/forum/internal/modules/post/service"
	threadDto "slotskolan.se/forum/internal/modules/thread/dto"
	"slotskolan.se/forum/pkg/slug"
)

const timeLayout = "2006-01-02 15:04:05"

func buildThreadResponse(thread *entity.Thread) threadDto.ThreadResponse {
	res := threadDto.ThreadResponse{
		ID:             thread.ID,
		CategoryID:     thread.CategoryID,
		CategoryName:   thread.Category.Name,
		CategorySlug:   thread.Category.Slug,
		Title:          thread.Title,
		Slug:           thread.Slug,
		Content:        thread.Content,
		Author:         post.NewAuthorResponse(thread.Author),
		IsLocked:       thread.IsLocked,
		IsSticky:       thread.IsSticky,
		AcceptedPostID: thread.AcceptedPostID,
		ViewCount:      thread.ViewCount,
		LastPostAt:     thread.LastPostAt.Format(timeLayout),
		CreatedAt:      thread.CreatedAt.Format(timeLayout),
		UpdatedAt:      thread.UpdatedAt.Format(timeLayout),
	}
	if thread.LastPostBy != nil {
		lastPostBy := post.NewAuthorResponse(*thread.LastPostBy)
		res.LastPostBy = &lastPostBy
	}
	return res
}

// generateUniqueSlug appends -2, -3, ... until the slug is free within the category.
func (s *service) generateUniqueSlug(ctx context.Context, categoryID uuid.UUID, title string) (string, error) {
	base := slug.Make(title)
	for n := 1; ; n++ {
		candidate := slug.WithSuffix(base, n)
		exists, err := s.threadRepo.SlugExists(ctx, categoryID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func (s *service) findThread(ctx context.Context, id uuid.UUID) (*entity.Thread, error) {
	thread, err := s.threadRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errThreadNotFound
		}
		return nil, err
	}
	return thread, nil
}

func (s *service) findPostInThread(ctx context.Context, threadID, postID uuid.UUID) (*entity.Post, error) {
	p, err := s.postRepo.FindInThread(ctx, threadID, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPostNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) indexThread(thread *entity.Thread) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexThread(thread); err != nil {
		log.Printf("Failed to index thread: %v", err)
	}
}

func (s *service) indexPost(p *entity.Post, thread *entity.Thread) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexPost(p, thread); err != nil {
		log.Printf("Failed to index post: %v", err)
	}
}

// reindexThreadPosts refreshes post documents after a thread edit. Every post
// carries the thread title, so a title change touches all of them; a body
// change only touches the opening post.
func (s *service) reindexThreadPosts(ctx context.Context, thread *entity.Thread, titleChanged bool) {
	if s.search == nil {
		return
	}

	var posts []*entity.Post
	if titleChanged {
		all, err := s.postRepo.FindByThreadID(ctx, thread.ID, 0, -1)
		if err != nil {
			log.Printf("Failed to load posts for reindex: %v", err)
			return
		}
		posts = all
	} else {
		initial, err := s.postRepo.FindFirstInThread(ctx, thread.ID)
		if err != nil {
			log.Printf("Failed to load opening post for reindex: %v", err)
			return
		}
		initial.Author = thread.Author
		posts = []*entity.Post{initial}
	}

	if err := s.search.IndexPosts(posts, thread); err != nil {
		log.Printf("Failed to index posts: %v", err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
