package post

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/authz"
	"slotskolan.se/forum/internal/entity"
	likeRepo "slotskolan.se/forum/internal/modules/like/repository"
	notifService "slotskolan.se/forum/internal/modules/notification/service"
	postDto "slotskolan.se/forum/internal/modules/post/dto"
	postRepo "slotskolan.se/forum/internal/modules/post/repository"
	reputation "slotskolan.se/forum/internal/modules/reputation/service"
	search "slotskolan.se/forum/internal/modules/search/service"
	threadRepo "slotskolan.se/forum/internal/modules/thread/repository"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/database"
	"slotskolan.se/forum/pkg/dto"
	"slotskolan.se/forum/pkg/ratelimiter"
	"slotskolan.se/forum/pkg/sanitize"
)

var (
	errThreadNotFound = apperror.NotFound("Tråden hittades inte")
	errPostNotFound   = apperror.NotFound("Inlägget hittades inte")
	errThreadLocked   = apperror.Forbidden("Tråden är låst")
	errEmptyContent   = apperror.BadRequest("Innehållet får inte vara tomt")
	errLoginRequired  = apperror.Unauthorized("Du måste vara inloggad")
)

type PostService interface {
	CreatePost(ctx context.Context, caller *entity.User, threadID uuid.UUID, req postDto.CreatePostRequest) (*postDto.PostResponse, error)
	GetPostsByThreadID(ctx context.Context, caller *entity.User, threadID uuid.UUID, page dto.PageQuery) (*postDto.PaginatedPostResponse, error)
	// ListThreadPosts pages through the posts of an already loaded thread.
	ListThreadPosts(ctx context.Context, caller *entity.User, thread *entity.Thread, page dto.PageQuery) (*postDto.PaginatedPostResponse, error)
	UpdatePost(ctx context.Context, caller *entity.User, postID uuid.UUID, req postDto.UpdatePostRequest) (*postDto.PostResponse, error)
}

type postService struct {
	tx                  database.Transactor
	postRepo            postRepo.PostRepository
	threadRepo          threadRepo.Repository
	likeRepo            likeRepo.LikeRepository
	reputationService   reputation.ReputationService
	notificationService notifService.NotificationService
	search              search.SearchService
	redisClient         *redis.Client
	limits              ratelimiter.Limits
}

// NewPostService accepts nil for notificationService, searchService and redisClient.
func NewPostService(tx database.Transactor, postRepo postRepo.PostRepository, threadRepo threadRepo.Repository, likeRepo likeRepo.LikeRepository, reputationService reputation.ReputationService, notificationService notifService.NotificationService, searchService search.SearchService, redisClient *redis.Client, limits ratelimiter.Limits) PostService {
	return &postService{
		tx:                  tx,
		postRepo:            postRepo,
		threadRepo:          threadRepo,
		likeRepo:            likeRepo,
		reputationService:   reputationService,
		notificationService: notificationService,
		search:              searchService,
		redisClient:         redisClient,
		limits:              limits,
	}
}

func (s *postService) CreatePost(ctx context.Context, caller *entity.User, threadID uuid.UUID, req postDto.CreatePostRequest) (*postDto.PostResponse, error) {
	if caller == nil {
		return nil, errLoginRequired
	}

	content := sanitize.Content(req.Content)
	if sanitize.IsBlank(content) {
		return nil, errEmptyContent
	}

	thread, err := s.findThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.IsLocked {
		return nil, errThreadLocked
	}

	release, err := ratelimiter.Acquire(ctx, s.redisClient, caller.ID, s.limits.Global, ratelimiter.ScopePost, s.limits.Post)
	if err != nil {
		return nil, err
	}

	post := &entity.Post{
		ThreadID: thread.ID,
		AuthorID: caller.ID,
		Content:  content,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// The lock may have been set since the first read.
		current, err := s.threadRepo.FindByID(ctx, thread.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errThreadNotFound
			}
			return err
		}
		if current.IsLocked {
			return errThreadLocked
		}

		if err := s.postRepo.Create(ctx, post); err != nil {
			return err
		}
		if err := s.threadRepo.TouchLastPost(ctx, thread.ID, caller.ID, post.CreatedAt); err != nil {
			return err
		}
		return s.reputationService.Adjust(ctx, caller.ID, reputation.DeltaPostCreated, entity.ReasonPostCreated, post.ID)
	})
	if err != nil {
		release()
		return nil, err
	}

	post.Author = *caller
	post.Author.Reputation += reputation.DeltaPostCreated

	if s.notificationService != nil {
		s.notificationService.Notify(ctx, &entity.Notification{
			UserID:   thread.AuthorID,
			ActorID:  caller.ID,
			Type:     entity.NotificationReplyThread,
			ThreadID: &thread.ID,
			PostID:   &post.ID,
			Message:  caller.Username + " svarade i din tråd \"" + thread.Title + "\"",
		})
	}
	s.indexPost(post, thread)

	res := buildPostResponse(post, 0, false, thread.AcceptedPostID)
	return &res, nil
}

func (s *postService) GetPostsByThreadID(ctx context.Context, caller *entity.User, threadID uuid.UUID, page dto.PageQuery) (*postDto.PaginatedPostResponse, error) {
	thread, err := s.findThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return s.ListThreadPosts(ctx, caller, thread, page)
}

func (s *postService) ListThreadPosts(ctx context.Context, caller *entity.User, thread *entity.Thread, page dto.PageQuery) (*postDto.PaginatedPostResponse, error) {
	current, limit, last := page.Normalize()

	total, err := s.postRepo.CountByThread(ctx, thread.ID)
	if err != nil {
		return nil, err
	}
	if last {
		current = dto.TotalPages(total, limit)
	}

	posts, err := s.postRepo.FindByThreadID(ctx, thread.ID, dto.Offset(current, limit), limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	counts, err := s.likeRepo.CountByPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked := map[uuid.UUID]bool{}
	if caller != nil {
		if liked, err = s.likeRepo.LikedPostIDs(ctx, caller.ID, ids); err != nil {
			return nil, err
		}
	}

	data := make([]postDto.PostResponse, 0, len(posts))
	for _, p := range posts {
		data = append(data, buildPostResponse(p, counts[p.ID], liked[p.ID], thread.AcceptedPostID))
	}

	return &postDto.PaginatedPostResponse{
		Data: data,
		Meta: dto.NewMeta(current, limit, total),
	}, nil
}

func (s *postService) UpdatePost(ctx context.Context, caller *entity.User, postID uuid.UUID, req postDto.UpdatePostRequest) (*postDto.PostResponse, error) {
	if caller == nil {
		return nil, errLoginRequired
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPostNotFound
		}
		return nil, err
	}

	if !authz.Resolve(caller, post.AuthorID).CanModify() {
		return nil, apperror.Forbidden("Du kan bara redigera dina egna inlägg")
	}

	thread, err := s.findThread(ctx, post.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread.IsLocked {
		return nil, errThreadLocked
	}

	content := sanitize.Content(req.Content)
	if sanitize.IsBlank(content) {
		return nil, errEmptyContent
	}

	var opening bool
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.postRepo.UpdateContent(ctx, post.ID, content); err != nil {
			return err
		}

		// The opening post and the thread body stay identical.
		first, err := s.postRepo.FindFirstInThread(ctx, thread.ID)
		if err != nil {
			return err
		}
		opening = first.ID == post.ID
		if opening {
			return s.threadRepo.UpdateFields(ctx, thread.ID, map[string]any{"content": content})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	post.Content = content
	post.IsEdited = true
	post.UpdatedAt = time.Now()
	if opening {
		thread.Content = content
		s.indexThread(thread)
	}
	s.indexPost(post, thread)

	likeCount, err := s.likeRepo.CountByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	liked, err := s.likeRepo.LikedPostIDs(ctx, caller.ID, []uuid.UUID{post.ID})
	if err != nil {
		return nil, err
	}

	res := buildPostResponse(post, likeCount, liked[post.ID], thread.AcceptedPostID)
	return &res, nil
}

func (s *postService) findThread(ctx context.Context, id uuid.UUID) (*entity.Thread, error) {
	thread, err := s.threadRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errThreadNotFound
		}
		return nil, err
	}
	return thread, nil
}

func (s *postService) indexThread(thread *entity.Thread) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexThread(thread); err != nil {
		log.Printf("Failed to index thread: %v", err)
	}
}

func (s *postService) indexPost(post *entity.Post, thread *entity.Thread) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexPost(post, thread); err != nil {
		log.Printf("Failed to index post: %v", err)
	}
}
