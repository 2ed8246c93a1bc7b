package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/koyiljon-s/rest-redirect-chat/internal/model"
)

// CommentService is the slice of the comment service this handler needs.
type CommentService interface {
	Create(ctx context.Context, userID, title, postID string) (*model.Comment, error)
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	GetByPostID(ctx context.Context, postID string) (*model.Comment, error)
	ListByUser(ctx context.Context, userID string) ([]model.Comment, error)
	List(ctx context.Context) ([]model.Comment, error)
	Update(ctx context.Context, id string, title *string) (*model.Comment, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CommentHandler manages the /api/comments endpoints plus the one-to-one
// lookup under /api/posts/{id}/comment.
type CommentHandler struct {
	comments CommentService
	logger   *slog.Logger
}

func NewCommentHandler(comments CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

type createCommentRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	PostID string `json:"post_id"`
}

type updateCommentRequest struct {
	Title *string `json:"title"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentResponse(comment *model.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID.String(),
		UserID:    comment.UserID.String(),
		Title:     comment.Title,
		PostID:    comment.PostID.String(),
		CreatedAt: comment.CreatedAt,
	}
}

func toCommentResponses(comments []model.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentResponse(&comments[i]))
	}
	return out
}

// HandleCreate attaches a comment to an uncommented post.
//
// HTTP: POST /api/comments
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid comment JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	comment, err := h.comments.Create(r.Context(), req.UserID, req.Title, req.PostID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// HandleGetByID returns a single comment.
//
// HTTP: GET /api/comments/{id}
func (h *CommentHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	comment, err := h.comments.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

// HandleGetByPost returns the single comment linked to a post.
//
// HTTP: GET /api/posts/{id}/comment
func (h *CommentHandler) HandleGetByPost(w http.ResponseWriter, r *http.Request) {
	comment, err := h.comments.GetByPostID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

// HandleList returns all comments.
//
// HTTP: GET /api/comments
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponses(comments))
}

// HandleListByUser returns all comments authored by a user.
//
// HTTP: GET /api/users/{id}/comments
func (h *CommentHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.ListByUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponses(comments))
}

// HandleUpdate changes a comment's title.
//
// HTTP: PUT /api/comments/{id}
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid comment JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	comment, err := h.comments.Update(r.Context(), r.PathValue("id"), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

// HandleDelete removes a comment and clears the post backlink.
//
// HTTP: DELETE /api/comments/{id}
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.comments.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Comment not found",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
