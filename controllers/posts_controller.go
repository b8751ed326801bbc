package controllers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"posts-app/db"
	"posts-app/middlewares"
	"posts-app/models"
	"posts-app/validation"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	postsCacheKey  = "posts"
	postsCacheTime = 7 * 24 * time.Hour
)

var ErrPostNotFound = errors.New("post not found")

// Cache is the subset of a key/value store the posts handler needs.
// Get returns db.ErrCacheMiss when the key is absent.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type PostsHandler struct {
	DB *sql.DB
	// Cache may be nil, in which case every list is read from the database.
	Cache Cache
}

func (h *PostsHandler) SetupPostRoutes(r *mux.Router) {
	postsRouter := r.PathPrefix("/posts").Subrouter()
	postsRouter.HandleFunc("", h.GetPosts).Methods("GET")
	postsRouter.HandleFunc("", h.CreatePost).Methods("POST")
	postsRouter.HandleFunc("/{id}", h.UpdatePost).Methods("PUT")
	postsRouter.HandleFunc("/{id}", h.DeletePost).Methods("DELETE")
}

func (h *PostsHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.fetchPosts(r.Context())
	if err != nil {
		middlewares.HttpError(w, "Failed to fetch posts", http.StatusInternalServerError, err)
		return
	}

	middlewares.RespondJSON(w, posts, http.StatusOK)
}

func (h *PostsHandler) fetchPosts(ctx context.Context) ([]models.Post, error) {
	if h.Cache != nil {
		cachedData, err := h.Cache.Get(ctx, postsCacheKey)
		if err == nil {
			var posts []models.Post
			if err := json.Unmarshal(cachedData, &posts); err != nil {
				return nil, fmt.Errorf("error unmarshalling cached posts data: %w", err)
			}
			return posts, nil
		} else if !errors.Is(err, db.ErrCacheMiss) {
			// Cache errors fall through to the database.
			log.Printf("error fetching posts from cache: %v", err)
		}
	}

	posts, err := selectPosts(ctx, h.DB)
	if err != nil {
		return nil, err
	}

	if h.Cache != nil {
		if jsonData, err := json.Marshal(posts); err == nil {
			if err := h.Cache.Set(ctx, postsCacheKey, jsonData, postsCacheTime); err != nil {
				log.Printf("error setting posts cache: %v", err)
			}
		}
	}

	return posts, nil
}

func selectPosts(ctx context.Context, conn *sql.DB) (posts []models.Post, err error) {
	rows, err := conn.QueryContext(ctx, "SELECT id, name, email, created_at FROM posts ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing rows: %w", closeErr)
		}
	}()

	posts = make([]models.Post, 0)
	for rows.Next() {
		var (
			post      models.Post
			createdAt time.Time
		)
		if err := rows.Scan(&post.ID, &post.Name, &post.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		post.CreatedAt = &createdAt
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return posts, nil
}

func (h *PostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	post := models.Post{
		ID:        models.PostID(uuid.New().String()),
		Name:      fields.Name,
		Email:     fields.Email,
		CreatedAt: &now,
	}

	if err := insertPost(ctx, h.DB, post); err != nil {
		middlewares.HttpError(w, "Failed to create post", http.StatusInternalServerError, err)
		return
	}

	h.invalidate(ctx)
	middlewares.RespondJSON(w, post, http.StatusCreated)
}

func insertPost(ctx context.Context, conn *sql.DB, post models.Post) error {
	_, err := conn.ExecContext(ctx, "INSERT INTO posts (id, name, email, created_at) VALUES ($1, $2, $3, $4)",
		string(post.ID), post.Name, post.Email, *post.CreatedAt)
	return err
}

func (h *PostsHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	post, err := updatePost(ctx, h.DB, models.PostID(id), fields)
	if errors.Is(err, ErrPostNotFound) {
		middlewares.HttpError(w, "Post not found", http.StatusNotFound, err)
		return
	}
	if err != nil {
		middlewares.HttpError(w, "Failed to update post", http.StatusInternalServerError, err)
		return
	}

	h.invalidate(ctx)
	middlewares.RespondJSON(w, post, http.StatusOK)
}

func updatePost(ctx context.Context, conn *sql.DB, id models.PostID, fields models.PostFields) (models.Post, error) {
	res, err := conn.ExecContext(ctx, "UPDATE posts SET name = $1, email = $2 WHERE id = $3",
		fields.Name, fields.Email, string(id))
	if err != nil {
		return models.Post{}, err
	}
	if err := requireRow(res, id); err != nil {
		return models.Post{}, err
	}

	var (
		post      models.Post
		createdAt time.Time
	)
	err = conn.QueryRowContext(ctx, "SELECT id, name, email, created_at FROM posts WHERE id = $1", string(id)).
		Scan(&post.ID, &post.Name, &post.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, fmt.Errorf("post %s: %w", id, ErrPostNotFound)
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("error querying database: %w", err)
	}
	post.CreatedAt = &createdAt
	return post, nil
}

func (h *PostsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := models.PostID(mux.Vars(r)["id"])

	err := deletePost(ctx, h.DB, id)
	if errors.Is(err, ErrPostNotFound) {
		middlewares.HttpError(w, "Post not found", http.StatusNotFound, err)
		return
	}
	if err != nil {
		middlewares.HttpError(w, "Failed to delete post", http.StatusInternalServerError, err)
		return
	}

	h.invalidate(ctx)
	middlewares.RespondJSON(w, nil, http.StatusNoContent)
}

func deletePost(ctx context.Context, conn *sql.DB, id models.PostID) error {
	res, err := conn.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", string(id))
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id models.PostID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("post %s: %w", id, ErrPostNotFound)
	}
	return nil
}

func (h *PostsHandler) invalidate(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Del(ctx, postsCacheKey); err != nil {
		log.Printf("error clearing posts cache: %v", err)
	}
}

func decodeFields(w http.ResponseWriter, r *http.Request) (models.PostFields, bool) {
	var fields models.PostFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		middlewares.HttpError(w, "Invalid JSON payload", http.StatusBadRequest, err)
		return fields, false
	}

	if err := validation.ValidatePost(fields); err != nil {
		middlewares.HttpError(w, err.Error(), http.StatusBadRequest, err)
		return fields, false
	}

	fields.Name = validation.SanitizeInput(fields.Name)
	fields.Email = validation.SanitizeInput(fields.Email)
	return fields, true
}
