package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/koyiljon-s/rest-redirect-chat/internal/apperror"
	"github.com/koyiljon-s/rest-redirect-chat/internal/model"
	"github.com/koyiljon-s/rest-redirect-chat/internal/repository"
)

// PostService handles post CRUD with referential checks against users.
//
// Note what is absent: the comment backlink. Linking and unlinking a
// comment belongs exclusively to CommentService; exposing comment_id on
// the general update surface would let callers bypass the one-comment-
// per-post invariant.
type PostService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

func NewPostService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		users:    users,
		logger:   logger,
	}
}

// PostUpdate carries the optional fields of a post update.
type PostUpdate struct {
	Title     *string
	Upvotes   *int
	Downvotes *int
}

// Create creates a post owned by an existing user. Vote counters start at
// zero. The optional commentID is validated for form only (the original
// create schema accepts it); an unparseable value fails with ErrInvalidID.
func (s *PostService) Create(ctx context.Context, userID, title string, commentID *string) (*model.Post, error) {
	title = strings.TrimSpace(title)
	if err := validatePostTitle(title); err != nil {
		return nil, err
	}

	uid, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var cid *model.CommentID
	if commentID != nil && *commentID != "" {
		parsed, err := model.ParseCommentID(*commentID)
		if err != nil {
			return nil, apperror.InvalidID("comment_id")
		}
		cid = &parsed
	}

	post := &model.Post{
		UserID:    uid,
		Title:     title,
		CommentID: cid,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID.String()),
		slog.String("user_id", userID),
	)
	return post, nil
}

// GetByID fetches a post; a malformed id is treated as not-found.
func (s *PostService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	pid, err := model.ParsePostID(id)
	if err != nil {
		return nil, apperror.NotFound("post", id)
	}
	return s.posts.GetByID(ctx, pid)
}

// ListByUser returns all posts owned by a user. A malformed user id yields
// an empty list, consistent with lookup semantics elsewhere.
func (s *PostService) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	uid, err := model.ParseUserID(userID)
	if err != nil {
		return []model.Post{}, nil
	}
	return s.posts.ListByUser(ctx, uid)
}

// List returns every post.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	return s.posts.List(ctx)
}

// Update applies the provided fields. Vote counters must stay non-negative.
// Reports not-found for an unknown or malformed id, when no field was
// provided, and when nothing effectively changed.
func (s *PostService) Update(ctx context.Context, id string, upd PostUpdate) (*model.Post, error) {
	pid, err := model.ParsePostID(id)
	if err != nil {
		return nil, apperror.NotFound("post", id)
	}

	fields := repository.PostUpdate{}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if err := validatePostTitle(title); err != nil {
			return nil, err
		}
		fields.Title = &title
	}
	if upd.Upvotes != nil {
		if *upd.Upvotes < 0 {
			return nil, apperror.ValidationFailed("upvotes", "upvotes must not be negative")
		}
		fields.Upvotes = upd.Upvotes
	}
	if upd.Downvotes != nil {
		if *upd.Downvotes < 0 {
			return nil, apperror.ValidationFailed("downvotes", "downvotes must not be negative")
		}
		fields.Downvotes = upd.Downvotes
	}

	modified, err := s.posts.Update(ctx, pid, fields)
	if err != nil {
		s.logger.Error("failed to update post",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating post: %w", err)
	}
	if !modified {
		return nil, apperror.NotFound("post", id)
	}

	s.logger.Info("post updated", slog.String("id", id))
	return s.posts.GetByID(ctx, pid)
}

// Delete removes a post and cascades to its linked comment, so no comment is
// left pointing at a missing post. Returns whether the post existed.
func (s *PostService) Delete(ctx context.Context, id string) (bool, error) {
	pid, err := model.ParsePostID(id)
	if err != nil {
		return false, nil
	}

	deleted, err := s.posts.Delete(ctx, pid)
	if err != nil {
		return false, fmt.Errorf("deleting post: %w", err)
	}
	if !deleted {
		return false, nil
	}

	// Cascade. The post is already gone at this point, so a failure here
	// leaves an orphaned comment; log loudly rather than failing a delete
	// that did happen.
	if _, err := s.comments.DeleteByPostID(ctx, pid); err != nil {
		s.logger.Error("failed to cascade comment delete",
			slog.String("post_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("post deleted", slog.String("id", id))
	return true, nil
}

// resolveUser parses and looks up the owning user, translating both a
// malformed id and a missing record into the reference error the API
// reports for an unknown author.
func (s *PostService) resolveUser(ctx context.Context, userID string) (model.UserID, error) {
	uid, err := model.ParseUserID(userID)
	if err != nil {
		return model.UserID{}, apperror.Reference("User not found")
	}
	if _, err := s.users.GetByID(ctx, uid); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return model.UserID{}, apperror.Reference("User not found")
		}
		return model.UserID{}, fmt.Errorf("resolving user: %w", err)
	}
	return uid, nil
}

func validatePostTitle(title string) error {
	if title == "" {
		return apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxPostTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxPostTitleLength))
	}
	return nil
}
