package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/feldspar-labs/inkwell-backend/errs"
	"github.com/feldspar-labs/inkwell-backend/models"
)

// MemoryStore is a mutex-guarded, map-backed PostStore. It honors the same
// contract as PostRepo and backs the API tests.
type MemoryStore struct {
	mu    sync.RWMutex
	posts map[string]models.Post
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{posts: make(map[string]models.Post)}
}

// Ping always succeeds; there is no connection to lose.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]models.PostSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]models.PostSummary, 0, len(s.posts))
	for _, post := range s.posts {
		summaries = append(summaries, post.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, errs.NewNotFound("post")
	}
	post.Tags = models.NormalizeTags(post.Tags)
	return &post, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, post *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	row := models.Post{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Excerpt:   post.Excerpt,
		Tags:      models.NormalizeTags(post.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, ok := s.posts[post.ID]; ok {
		row.CreatedAt = existing.CreatedAt
	}
	s.posts[post.ID] = row

	result := row
	return &result, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return errs.NewNotFound("post")
	}
	delete(s.posts, id)
	return nil
}
