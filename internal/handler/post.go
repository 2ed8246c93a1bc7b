package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/koyiljon-s/rest-redirect-chat/internal/model"
	"github.com/koyiljon-s/rest-redirect-chat/internal/service"
)

// PostService is the slice of the post service this handler needs.
type PostService interface {
	Create(ctx context.Context, userID, title string, commentID *string) (*model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	ListByUser(ctx context.Context, userID string) ([]model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	Update(ctx context.Context, id string, upd service.PostUpdate) (*model.Post, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// PostHandler manages the /api/posts endpoints.
type PostHandler struct {
	posts  PostService
	logger *slog.Logger
}

func NewPostHandler(posts PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

type createPostRequest struct {
	UserID    string  `json:"user_id"`
	Title     string  `json:"title"`
	CommentID *string `json:"comment_id"`
}

type updatePostRequest struct {
	Title     *string `json:"title"`
	Upvotes   *int    `json:"upvotes"`
	Downvotes *int    `json:"downvotes"`
}

type postResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	CreatedAt time.Time `json:"created_at"`
	CommentID *string   `json:"comment_id"`
}

func toPostResponse(post *model.Post) postResponse {
	resp := postResponse{
		ID:        post.ID.String(),
		UserID:    post.UserID.String(),
		Title:     post.Title,
		Upvotes:   post.Upvotes,
		Downvotes: post.Downvotes,
		CreatedAt: post.CreatedAt,
	}
	if post.CommentID != nil {
		s := post.CommentID.String()
		resp.CommentID = &s
	}
	return resp
}

func toPostResponses(posts []model.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	return out
}

// HandleCreate creates a post for an existing user.
//
// HTTP: POST /api/posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid post JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	post, err := h.posts.Create(r.Context(), req.UserID, req.Title, req.CommentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// HandleGetByID returns a single post.
//
// HTTP: GET /api/posts/{id}
func (h *PostHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// HandleList returns all posts.
//
// HTTP: GET /api/posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponses(posts))
}

// HandleListByUser returns all posts owned by a user.
//
// HTTP: GET /api/users/{id}/posts
func (h *PostHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListByUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponses(posts))
}

// HandleUpdate applies a partial update to title or vote counters. The
// comment backlink is not updatable here; it belongs to the comment
// lifecycle.
//
// HTTP: PUT /api/posts/{id}
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid post JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	post, err := h.posts.Update(r.Context(), r.PathValue("id"), service.PostUpdate{
		Title:     req.Title,
		Upvotes:   req.Upvotes,
		Downvotes: req.Downvotes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// HandleDelete removes a post (and, by cascade, its linked comment).
//
// HTTP: DELETE /api/posts/{id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.posts.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Post not found",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
