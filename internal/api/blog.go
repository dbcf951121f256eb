package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/remedyexcel/clinic-server/internal/blog"
)

func listPostsHandler(store blog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := store.ListPosts(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		if posts == nil {
			posts = []blog.Post{}
		}
		writeJSON(w, http.StatusOK, posts)
	}
}

// getPostHandler bumps the view counter as a side effect; a failed bump is not
// worth failing the read.
func getPostHandler(store blog.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		post, err := store.GetPost(r.Context(), id)
		if err != nil {
			if errors.Is(err, blog.ErrPostNotFound) {
				writeError(w, http.StatusNotFound, "post_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		if err := store.IncrementViews(r.Context(), id); err != nil {
			log.Warn("increment post views", zap.String("post_id", id), zap.Error(err))
		} else {
			post.Views++
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func createPostHandler(store blog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var post blog.Post
		if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if post.Title == "" || post.Content == "" {
			writeError(w, http.StatusBadRequest, "missing_required_fields", "title and content are required")
			return
		}

		created, err := store.CreatePost(r.Context(), post)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updatePostHandler(store blog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var post blog.Post
		if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		updated, err := store.UpdatePost(r.Context(), chi.URLParam(r, "id"), post)
		if err != nil {
			if errors.Is(err, blog.ErrPostNotFound) {
				writeError(w, http.StatusNotFound, "post_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deletePostHandler(store blog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
			if errors.Is(err, blog.ErrPostNotFound) {
				writeError(w, http.StatusNotFound, "post_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: "post deleted"})
	}
}
