// Package blog is plain key-by-id storage for the clinic's articles. There is
// nothing concurrent about editing blog posts, so one mutex per store is all
// the coordination it ever needs.
package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

var ErrPostNotFound = errors.New("post not found")

type PostStatus string

const (
	StatusPublished PostStatus = "Published"
	StatusDraft     PostStatus = "Draft"
)

type Post struct {
	ID       int        `json:"id"`
	Title    string     `json:"title"`
	Excerpt  string     `json:"excerpt"`
	Content  string     `json:"content"`
	Author   string     `json:"author"`
	Date     string     `json:"date"`
	Category string     `json:"category"`
	Image    string     `json:"image"`
	ReadTime string     `json:"readTime"`
	Featured bool       `json:"featured"`
	Status   PostStatus `json:"status"`
	Views    int        `json:"views"`
}

type Store interface {
	ListPosts(ctx context.Context) ([]Post, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	CreatePost(ctx context.Context, post Post) (*Post, error)
	UpdatePost(ctx context.Context, id string, post Post) (*Post, error)
	DeletePost(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

const postsFile = "blog-posts.json"

// FileStore keeps all posts in one JSON document, rewritten per mutation.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) ListPosts(ctx context.Context) ([]Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) GetPost(ctx context.Context, id string) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.read()
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if strconv.Itoa(p.ID) == id {
			post := p
			return &post, nil
		}
	}
	return nil, ErrPostNotFound
}

func (s *FileStore) CreatePost(ctx context.Context, post Post) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.read()
	if err != nil {
		return nil, err
	}

	max := 0
	for _, p := range posts {
		if p.ID > max {
			max = p.ID
		}
	}
	post.ID = max + 1
	post.Views = 0

	posts = append(posts, post)
	if err := s.write(posts); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *FileStore) UpdatePost(ctx context.Context, id string, post Post) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.read()
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if strconv.Itoa(posts[i].ID) == id {
			post.ID = posts[i].ID
			post.Views = posts[i].Views
			posts[i] = post
			if err := s.write(posts); err != nil {
				return nil, err
			}
			updated := posts[i]
			return &updated, nil
		}
	}
	return nil, ErrPostNotFound
}

func (s *FileStore) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.read()
	if err != nil {
		return err
	}
	kept := posts[:0]
	for _, p := range posts {
		if strconv.Itoa(p.ID) != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(posts) {
		return ErrPostNotFound
	}
	return s.write(kept)
}

func (s *FileStore) IncrementViews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.read()
	if err != nil {
		return err
	}
	for i := range posts {
		if strconv.Itoa(posts[i].ID) == id {
			posts[i].Views++
			return s.write(posts)
		}
	}
	return ErrPostNotFound
}

func (s *FileStore) read() ([]Post, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, postsFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", postsFile, err)
	}
	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", postsFile, err)
	}
	return posts, nil
}

func (s *FileStore) write(posts []Post) error {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", postsFile, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, postsFile), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", postsFile, err)
	}
	return nil
}
