package blog

import (
	"context"
	"testing"
)

func post(title string) Post {
	return Post{
		Title:    title,
		Excerpt:  "excerpt",
		Content:  "<p>content</p>",
		Author:   "Dr. Test",
		Date:     "2026-01-15",
		Category: "Homeopathy Basics",
		Status:   StatusPublished,
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	return map[string]Store{"file": fs, "mem": NewMemStore()}
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := store.CreatePost(ctx, post("one"))
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			second, err := store.CreatePost(ctx, post("two"))
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if first.ID != 1 || second.ID != 2 {
				t.Fatalf("ids %d, %d", first.ID, second.ID)
			}
			if first.Views != 0 {
				t.Fatalf("new post has %d views", first.Views)
			}
		})
	}
}

func TestUpdatePreservesIDAndViews(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := store.CreatePost(ctx, post("original"))
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if err := store.IncrementViews(ctx, "1"); err != nil {
				t.Fatalf("views: %v", err)
			}

			updated, err := store.UpdatePost(ctx, "1", post("renamed"))
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if updated.ID != created.ID || updated.Views != 1 || updated.Title != "renamed" {
				t.Fatalf("update mangled post: %+v", updated)
			}

			if _, err := store.UpdatePost(ctx, "42", post("nope")); err != ErrPostNotFound {
				t.Fatalf("expected ErrPostNotFound, got %v", err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := store.CreatePost(ctx, post("doomed")); err != nil {
				t.Fatalf("create: %v", err)
			}
			if err := store.DeletePost(ctx, "1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.GetPost(ctx, "1"); err != ErrPostNotFound {
				t.Fatalf("expected ErrPostNotFound, got %v", err)
			}
			if err := store.DeletePost(ctx, "1"); err != ErrPostNotFound {
				t.Fatalf("expected ErrPostNotFound on second delete, got %v", err)
			}
		})
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	if _, err := store.CreatePost(ctx, post("durable")); err != nil {
		t.Fatalf("create: %v", err)
	}

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.GetPost(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "durable" {
		t.Fatalf("title %q", got.Title)
	}
}
