package blog

import (
	"context"
	"strconv"
	"sync"
)

// MemStore is the in-memory Store used by tests and the seeder.
type MemStore struct {
	mu    sync.Mutex
	posts []Post
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) ListPosts(ctx context.Context) ([]Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out, nil
}

func (s *MemStore) GetPost(ctx context.Context, id string) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if strconv.Itoa(p.ID) == id {
			post := p
			return &post, nil
		}
	}
	return nil, ErrPostNotFound
}

func (s *MemStore) CreatePost(ctx context.Context, post Post) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	max := 0
	for _, p := range s.posts {
		if p.ID > max {
			max = p.ID
		}
	}
	post.ID = max + 1
	post.Views = 0
	s.posts = append(s.posts, post)
	return &post, nil
}

func (s *MemStore) UpdatePost(ctx context.Context, id string, post Post) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if strconv.Itoa(s.posts[i].ID) == id {
			post.ID = s.posts[i].ID
			post.Views = s.posts[i].Views
			s.posts[i] = post
			updated := s.posts[i]
			return &updated, nil
		}
	}
	return nil, ErrPostNotFound
}

func (s *MemStore) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.posts[:0]
	found := false
	for _, p := range s.posts {
		if strconv.Itoa(p.ID) == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrPostNotFound
	}
	s.posts = kept
	return nil
}

func (s *MemStore) IncrementViews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if strconv.Itoa(s.posts[i].ID) == id {
			s.posts[i].Views++
			return nil
		}
	}
	return ErrPostNotFound
}
