package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"

	"slotskolan.se/forum/internal/entity"
	"slotskolan.se/forum/internal/modules/search/dto"
	"slotskolan.se/forum/pkg/sanitize"
)

const (
	threadsIndex = "threads"
	postsIndex   = "posts"
)

// SearchService keeps the meilisearch indexes in step with the forum tables.
// Services hold it as an optional dependency: a nil SearchService means search is off.
type SearchService interface {
	IndexThread(thread *entity.Thread) error
	IndexPost(post *entity.Post, thread *entity.Thread) error
	// IndexPosts reindexes posts of one thread in a single batch.
	IndexPosts(posts []*entity.Post, thread *entity.Thread) error
	DeleteThread(threadID uuid.UUID, postIDs []uuid.UUID) error
	SearchThreads(ctx context.Context, query dto.SearchQuery) (*dto.SearchResponse, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	threadFilterable := []any{"category_id"}
	if _, err := s.client.Index(threadsIndex).UpdateFilterableAttributes(&threadFilterable); err != nil {
		log.Printf("Failed to update threads filterable attributes: %v", err)
	}

	threadSortable := []string{"created_at", "view_count"}
	if _, err := s.client.Index(threadsIndex).UpdateSortableAttributes(&threadSortable); err != nil {
		log.Printf("Failed to update threads sortable attributes: %v", err)
	}

	postFilterable := []any{"thread_id"}
	if _, err := s.client.Index(postsIndex).UpdateFilterableAttributes(&postFilterable); err != nil {
		log.Printf("Failed to update posts filterable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliPostDoc struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	ThreadID    string `json:"thread_id"`
	ThreadSlug  string `json:"thread_slug"`
	ThreadTitle string `json:"thread_title"`
	Author      string `json:"author"`
	CreatedAt   int64  `json:"created_at"`
}

// ThreadDocument builds the indexed form of a thread. Author and Category are
// read from the loaded associations when present.
func ThreadDocument(thread *entity.Thread) dto.ThreadHit {
	return dto.ThreadHit{
		ID:           thread.ID.String(),
		Title:        thread.Title,
		Slug:         thread.Slug,
		Content:      sanitize.PlainText(thread.Content),
		CategoryID:   thread.CategoryID.String(),
		CategoryName: thread.Category.Name,
		Author:       thread.Author.Username,
		ViewCount:    thread.ViewCount,
		CreatedAt:    thread.CreatedAt.Unix(),
	}
}

func (s *meiliSearchService) IndexThread(thread *entity.Thread) error {
	doc := ThreadDocument(thread)
	task, err := s.client.Index(threadsIndex).AddDocuments([]dto.ThreadHit{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("index thread %s: %w", thread.ID, err)
	}
	log.Printf("Indexed thread %s, task id: %d", thread.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) IndexPost(post *entity.Post, thread *entity.Thread) error {
	return s.IndexPosts([]*entity.Post{post}, thread)
}

func (s *meiliSearchService) IndexPosts(posts []*entity.Post, thread *entity.Thread) error {
	if len(posts) == 0 {
		return nil
	}

	docs := make([]meiliPostDoc, 0, len(posts))
	for _, post := range posts {
		docs = append(docs, meiliPostDoc{
			ID:          post.ID.String(),
			Content:     sanitize.PlainText(post.Content),
			ThreadID:    post.ThreadID.String(),
			ThreadSlug:  thread.Slug,
			ThreadTitle: thread.Title,
			Author:      post.Author.Username,
			CreatedAt:   post.CreatedAt.Unix(),
		})
	}

	task, err := s.client.Index(postsIndex).AddDocuments(docs, strPtr("id"))
	if err != nil {
		return fmt.Errorf("index %d posts of thread %s: %w", len(docs), thread.ID, err)
	}
	log.Printf("Indexed %d posts of thread %s, task id: %d", len(docs), thread.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteThread(threadID uuid.UUID, postIDs []uuid.UUID) error {
	if _, err := s.client.Index(threadsIndex).DeleteDocument(threadID.String()); err != nil {
		return err
	}
	for _, id := range postIDs {
		if _, err := s.client.Index(postsIndex).DeleteDocument(id.String()); err != nil {
			return err
		}
	}
	return nil
}

func (s *meiliSearchService) SearchThreads(ctx context.Context, query dto.SearchQuery) (*dto.SearchResponse, error) {
	limit := query.Limit
	if limit < 1 || limit > 50 {
		limit = 20
	}

	req := &meilisearch.SearchRequest{Limit: int64(limit)}
	if query.CategoryID != "" {
		req.Filter = fmt.Sprintf("category_id = %q", query.CategoryID)
	}

	raw, err := s.client.Index(threadsIndex).SearchRawWithContext(ctx, query.Query, req)
	if err != nil {
		return nil, fmt.Errorf("search threads: %w", err)
	}

	var result struct {
		Hits               []dto.ThreadHit `json:"hits"`
		EstimatedTotalHits int64           `json:"estimatedTotalHits"`
	}
	if err := json.Unmarshal(*raw, &result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if result.Hits == nil {
		result.Hits = []dto.ThreadHit{}
	}

	return &dto.SearchResponse{
		Query: query.Query,
		Hits:  result.Hits,
		Total: result.EstimatedTotalHits,
	}, nil
}

func strPtr(s string) *string {
	return &s
}
