package thread

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/authz"
	"slotskolan.se/forum/internal/entity"
	categoryService "slotskolan.se/forum/internal/modules/category/service"
	notifService "slotskolan.se/forum/internal/modules/notification/service"
	postRepo "slotskolan.se/forum/internal/modules/post/repository"
	post "slotskolan.se/forum/internal/modules/post/service"
	reputation "slotskolan.se/forum/internal/modules/reputation/service"
	search "slotskolan.se/forum/internal/modules/search/service"
	threadDto "slotskolan.se/forum/internal/modules/thread/dto"
	repo "slotskolan.se/forum/internal/modules/thread/repository"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/database"
	commonDto "slotskolan.se/forum/pkg/dto"
	"slotskolan.se/forum/pkg/ratelimiter"
	"slotskolan.se/forum/pkg/sanitize"
)

const maxSlugAttempts = 3

var (
	errThreadNotFound = apperror.NotFound("Tråden hittades inte")
	errPostNotFound   = apperror.NotFound("Inlägget hittades inte i tråden")
	errThreadLocked   = apperror.Forbidden("Tråden är låst")
	errLoginRequired  = apperror.Unauthorized("Du måste vara inloggad")
	errAcceptConflict = apperror.Conflict("Det accepterade svaret har ändrats av någon annan. Ladda om sidan och försök igen")
)

type Service interface {
	CreateThread(ctx context.Context, caller *entity.User, req threadDto.CreateThreadRequest) (*threadDto.ThreadResponse, error)
	GetAllThreads(ctx context.Context, caller *entity.User, filter threadDto.ThreadFilter) (*threadDto.PaginatedThreadResponse, error)
	GetThread(ctx context.Context, caller *entity.User, threadID uuid.UUID, page commonDto.PageQuery) (*threadDto.ThreadDetailResponse, error)
	UpdateThread(ctx context.Context, caller *entity.User, threadID uuid.UUID, req threadDto.UpdateThreadRequest) (*threadDto.ThreadResponse, error)
	ModerateThread(ctx context.Context, caller *entity.User, threadID uuid.UUID, req threadDto.ModerateThreadRequest) (*threadDto.ThreadResponse, error)
	DeleteThread(ctx context.Context, caller *entity.User, threadID uuid.UUID) error
	AcceptPost(ctx context.Context, caller *entity.User, threadID uuid.UUID, req threadDto.AcceptPostRequest) (*threadDto.AcceptPostResponse, error)
}

type service struct {
	tx                  database.Transactor
	threadRepo          repo.Repository
	postRepo            postRepo.PostRepository
	categoryService     categoryService.CategoryService
	postService         post.PostService
	reputationService   reputation.ReputationService
	notificationService notifService.NotificationService
	search              search.SearchService
	redisClient         *redis.Client
	limits              ratelimiter.Limits
}

// NewService accepts nil for notificationService, searchService and redisClient.
func NewService(tx database.Transactor, threadRepo repo.Repository, postRepo postRepo.PostRepository, categoryService categoryService.CategoryService, postService post.PostService, reputationService reputation.ReputationService, notificationService notifService.NotificationService, searchService search.SearchService, redisClient *redis.Client, limits ratelimiter.Limits) Service {
	return &service{
		tx:                  tx,
		threadRepo:          threadRepo,
		postRepo:            postRepo,
		categoryService:     categoryService,
		postService:         postService,
		reputationService:   reputationService,
		notificationService: notificationService,
		search:              searchService,
		redisClient:         redisClient,
		limits:              limits,
	}
}

func (s *service) CreateThread(ctx context.Context, caller *entity.User, req threadDto.CreateThreadRequest) (*threadDto.ThreadResponse, error) {
	if caller == nil {
		return nil, errLoginRequired
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.BadRequest("Titeln får inte vara tom")
	}
	content := sanitize.Content(req.Content)
	if sanitize.IsBlank(content) {
		return nil, apperror.BadRequest("Innehållet får inte vara tomt")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, apperror.BadRequest("Ogiltigt kategori-ID")
	}

	category, err := s.categoryService.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	release, err := ratelimiter.Acquire(ctx, s.redisClient, caller.ID, s.limits.Global, ratelimiter.ScopeThread, s.limits.Thread)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	thread := &entity.Thread{
		CategoryID:   category.ID,
		AuthorID:     caller.ID,
		Title:        title,
		Content:      content,
		LastPostAt:   now,
		LastPostByID: &caller.ID,
	}
	initial := &entity.Post{
		AuthorID:  caller.ID,
		Content:   content,
		CreatedAt: now,
	}

	// A concurrent insert can take the slug between the check and the insert.
	for attempt := 1; ; attempt++ {
		err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			threadSlug, err := s.generateUniqueSlug(ctx, category.ID, title)
			if err != nil {
				return err
			}
			thread.Slug = threadSlug

			if err := s.threadRepo.Create(ctx, thread); err != nil {
				return err
			}

			initial.ThreadID = thread.ID
			if err := s.postRepo.Create(ctx, initial); err != nil {
				return err
			}

			return s.reputationService.Adjust(ctx, caller.ID, reputation.DeltaThreadCreated, entity.ReasonThreadCreated, thread.ID)
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == maxSlugAttempts {
			break
		}
		thread.ID = uuid.Nil
		initial.ID = uuid.Nil
	}
	if err != nil {
		release()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("Kunde inte skapa en unik adress för tråden. Försök igen")
		}
		return nil, err
	}

	created, err := s.findThread(ctx, thread.ID)
	if err != nil {
		return nil, err
	}

	s.indexThread(created)
	initial.Author = created.Author
	s.indexPost(initial, created)

	res := buildThreadResponse(created)
	return &res, nil
}

func (s *service) GetAllThreads(ctx context.Context, caller *entity.User, filter threadDto.ThreadFilter) (*threadDto.PaginatedThreadResponse, error) {
	var f repo.Filter
	f.Search = filter.Search

	if filter.CategoryID != "" {
		id, err := uuid.Parse(filter.CategoryID)
		if err != nil {
			return nil, apperror.BadRequest("Ogiltigt kategori-ID")
		}
		f.CategoryID = &id
	}

	if filter.AuthorID != "" {
		id, err := uuid.Parse(filter.AuthorID)
		if err != nil {
			return nil, apperror.BadRequest("Ogiltigt användar-ID")
		}
		// Listing by author is limited to the author's own threads unless staff.
		if authz.Resolve(caller, id) == authz.None {
			return nil, apperror.Forbidden("Du kan bara lista dina egna trådar")
		}
		f.AuthorID = &id
	}

	page, limit, last := filter.PageQuery.Normalize()
	if last {
		_, total, err := s.threadRepo.FindAll(ctx, f, 0, 0)
		if err != nil {
			return nil, err
		}
		page = commonDto.TotalPages(total, limit)
	}

	threads, total, err := s.threadRepo.FindAll(ctx, f, commonDto.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}

	data := make([]threadDto.ThreadResponse, 0, len(threads))
	for _, t := range threads {
		data = append(data, buildThreadResponse(t))
	}

	return &threadDto.PaginatedThreadResponse{
		Data: data,
		Meta: commonDto.NewMeta(page, limit, total),
	}, nil
}

// GetThread counts every read as a view, without deduplication.
func (s *service) GetThread(ctx context.Context, caller *entity.User, threadID uuid.UUID, page commonDto.PageQuery) (*threadDto.ThreadDetailResponse, error) {
	if err := s.threadRepo.IncrementViews(ctx, threadID); err != nil {
		if isNotFound(err) {
			return nil, errThreadNotFound
		}
		return nil, err
	}

	thread, err := s.findThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postService.ListThreadPosts(ctx, caller, thread, page)
	if err != nil {
		return nil, err
	}

	return &threadDto.ThreadDetailResponse{
		Thread: buildThreadResponse(thread),
		Posts:  posts.Data,
		Meta:   posts.Meta,
	}, nil
}

func (s *service) UpdateThread(ctx context.Context, caller *entity.User, threadID uuid.UUID, req threadDto.UpdateThreadRequest) (*threadDto.ThreadResponse, error) {
	if caller == nil {
		return nil, errLoginRequired
	}

	thread, err := s.findThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	capability := authz.Resolve(caller, thread.AuthorID)
	if !capability.CanModify() {
		return nil, apperror.Forbidden("Du kan bara redigera dina egna trådar")
	}
	if thread.IsLocked {
		return nil, errThreadLocked
	}

	fields := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperror.BadRequest("Titeln får inte vara tom")
		}
		fields["title"] = title
	}

	var content string
	if req.Content != nil {
		content = sanitize.Content(*req.Content)
		if sanitize.IsBlank(content) {
			return nil, apperror.BadRequest("Innehållet får inte vara tomt")
		}
		fields["content"] = content
	}

	if capability.IsStaff() {
		if req.IsSticky != nil {
			fields["is_sticky"] = *req.IsSticky
		}
		if req.IsLocked != nil {
			fields["is_locked"] = *req.IsLocked
		}
	}

	if len(fields) == 0 {
		return nil, apperror.BadRequest("Inga ändringar angavs")
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.threadRepo.UpdateFields(ctx, thread.ID, fields); err != nil {
			return err
		}
		if req.Content == nil {
			return nil
		}

		initial, err := s.postRepo.FindFirstInThread(ctx, thread.ID)
		if err != nil {
			return err
		}
		return s.postRepo.UpdateContent(ctx, initial.ID, content)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.findThread(ctx, thread.ID)
	if err != nil {
		return nil, err
	}
	s.indexThread(updated)
	if req.Title != nil || req.Content != nil {
		s.reindexThreadPosts(ctx, updated, req.Title != nil)
	}

	res := buildThreadResponse(updated)
	return &res, nil
}

// ModerateThread toggles lock and sticky. It works on locked threads too.
func (s *service) ModerateThread(ctx context.Context, caller *entity.User, threadID uuid.UUID, req threadDto.ModerateThreadRequest) (*threadDto.ThreadResponse, error) {
	if caller == nil {
		return nil, errLoginRequired
	}
	if !authz.IsStaff(caller) {
		return nil, apperror.Forbidden("Endast moderatorer kan låsa eller fästa trådar")
	}

	fields := map[string]any{}
	if req.IsLocked != nil {
		fields["is_locked"] = *req.IsLocked
	}
	if req.IsSticky != nil {
		fields["is_sticky"] = *req.IsSticky
	}
	if len(fields) == 0 {
		return nil, apperror.BadRequest("Ange isLocked eller isSticky")
	}

	if err := s.threadRepo.UpdateFields(ctx, threadID, fields); err != nil {
		if isNotFound(err) {
			return nil, errThreadNotFound
		}
		return nil, err
	}

	updated, err := s.findThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	log.Printf("Thread %s moderated by %s: %v", threadID, caller.Username, fields)

	res := buildThreadResponse(updated)
	return &res, nil
}

// DeleteThread removes the thread with its posts, their likes and reports in one transaction.
func (s *service) DeleteThread(ctx context.Context, caller *entity.User, threadID uuid.UUID) error {
	if caller == nil {
		return errLoginRequired
	}

	thread, err := s.findThread(ctx, threadID)
	if err != nil {
		return err
	}
	if !authz.Resolve(caller, thread.AuthorID).CanModify() {
		return apperror.Forbidden("Du kan bara ta bort dina egna trådar")
	}

	postIDs, err := s.postRepo.FindIDsByThread(ctx, thread.ID)
	if err != nil {
		return err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.threadRepo.DeleteCascade(ctx, thread.ID)
	})
	if err != nil {
		if isNotFound(err) {
			return errThreadNotFound
		}
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteThread(thread.ID, postIDs); err != nil {
			log.Printf("Failed to remove thread %s from search: %v", thread.ID, err)
		}
	}

	return nil
}

// AcceptPost toggles the accepted answer. Accepting the accepted post clears it,
// accepting another post moves the mark and its reputation from the old author to the new one.
func (s *service) AcceptPost(ctx context.Context, caller *entity.User, threadID uuid.UUID, req threadDto.AcceptPostRequest) (*threadDto.AcceptPostResponse, error) {
	if caller == nil {
		return nil, errLoginRequired
	}

	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		return nil, apperror.BadRequest("Ogiltigt inläggs-ID")
	}

	thread, err := s.findThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !authz.Resolve(caller, thread.AuthorID).CanModify() {
		return nil, apperror.Forbidden("Endast trådskaparen eller en moderator kan acceptera svar")
	}

	target, err := s.findPostInThread(ctx, thread.ID, postID)
	if err != nil {
		return nil, err
	}

	var next *uuid.UUID
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.findThread(ctx, thread.ID)
		if err != nil {
			return err
		}
		prev := current.AcceptedPostID

		if prev != nil && *prev == target.ID {
			next = nil
		} else {
			next = &target.ID
		}

		ok, err := s.threadRepo.CompareAndSetAccepted(ctx, thread.ID, prev, next)
		if err != nil {
			return err
		}
		if !ok {
			return errAcceptConflict
		}

		if prev != nil {
			previous, err := s.findPostInThread(ctx, thread.ID, *prev)
			if err != nil {
				return fmt.Errorf("load previously accepted post: %w", err)
			}
			if err := s.reputationService.Adjust(ctx, previous.AuthorID, -reputation.DeltaPostAccepted, entity.ReasonPostUnaccepted, previous.ID); err != nil {
				return err
			}
		}
		if next != nil {
			return s.reputationService.Adjust(ctx, target.AuthorID, reputation.DeltaPostAccepted, entity.ReasonPostAccepted, target.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if next != nil && s.notificationService != nil {
		s.notificationService.Notify(ctx, &entity.Notification{
			UserID:   target.AuthorID,
			ActorID:  caller.ID,
			Type:     entity.NotificationPostAccepted,
			ThreadID: &thread.ID,
			PostID:   &target.ID,
			Message:  fmt.Sprintf("Ditt svar i \"%s\" markerades som accepterat", thread.Title),
		})
	}

	return &threadDto.AcceptPostResponse{
		ThreadID:       thread.ID,
		AcceptedPostID: next,
		Accepted:       next != nil,
	}, nil
}
