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

// CommentService owns the post↔comment one-to-one relationship: it is the
// only code path that sets or clears a post's comment backlink.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
		logger:   logger,
	}
}

// Create attaches a comment to a post. Checks run in order: the author must
// exist, the post must exist, and the post must not already have a comment.
//
// The invariant is enforced by the conditional LinkComment write, not by the
// preliminary read: two concurrent creates can both observe an uncommented
// post, but only one can win the conditional update. The loser compensates
// by removing its freshly inserted comment and reports the same conflict a
// sequential second create would see.
func (s *CommentService) Create(ctx context.Context, userID, title, postID string) (*model.Comment, error) {
	title = strings.TrimSpace(title)
	if err := validateCommentTitle(title); err != nil {
		return nil, err
	}

	uid, err := model.ParseUserID(userID)
	if err != nil {
		return nil, apperror.Reference("User not found")
	}
	if _, err := s.users.GetByID(ctx, uid); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Reference("User not found")
		}
		return nil, fmt.Errorf("resolving user: %w", err)
	}

	pid, err := model.ParsePostID(postID)
	if err != nil {
		return nil, apperror.Reference("Post not found")
	}
	post, err := s.posts.GetByID(ctx, pid)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Reference("Post not found")
		}
		return nil, fmt.Errorf("resolving post: %w", err)
	}

	// Fast-path rejection; the authoritative check is LinkComment below.
	if post.Commented() {
		return nil, apperror.Conflict("Post already has a comment")
	}

	comment := &model.Comment{
		UserID: uid,
		Title:  title,
		PostID: pid,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	linked, err := s.posts.LinkComment(ctx, pid, comment.ID)
	if err != nil {
		s.compensate(ctx, comment.ID)
		return nil, fmt.Errorf("linking comment: %w", err)
	}
	if !linked {
		// Lost the race (or the post vanished between the read and the
		// write). Undo the insert and report the conflict.
		s.compensate(ctx, comment.ID)
		return nil, apperror.Conflict("Post already has a comment")
	}

	s.logger.Info("comment created",
		slog.String("id", comment.ID.String()),
		slog.String("post_id", postID),
	)
	return comment, nil
}

// compensate removes a comment whose linkage write did not go through.
// A failure here leaves an orphaned comment with no backlink, the known
// consistency gap of the two-document design; it is logged, not hidden.
func (s *CommentService) compensate(ctx context.Context, id model.CommentID) {
	if _, err := s.comments.Delete(ctx, id); err != nil {
		s.logger.Error("failed to remove unlinked comment",
			slog.String("id", id.String()),
			slog.String("error", err.Error()),
		)
	}
}

// GetByID fetches a comment; a malformed id is treated as not-found.
func (s *CommentService) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	cid, err := model.ParseCommentID(id)
	if err != nil {
		return nil, apperror.NotFound("comment", id)
	}
	return s.comments.GetByID(ctx, cid)
}

// GetByPostID returns the post's single comment, or not-found.
func (s *CommentService) GetByPostID(ctx context.Context, postID string) (*model.Comment, error) {
	pid, err := model.ParsePostID(postID)
	if err != nil {
		return nil, apperror.NotFound("comment for post", postID)
	}
	return s.comments.GetByPostID(ctx, pid)
}

// ListByUser returns all comments authored by a user; a malformed user id
// yields an empty list.
func (s *CommentService) ListByUser(ctx context.Context, userID string) ([]model.Comment, error) {
	uid, err := model.ParseUserID(userID)
	if err != nil {
		return []model.Comment{}, nil
	}
	return s.comments.ListByUser(ctx, uid)
}

// List returns every comment.
func (s *CommentService) List(ctx context.Context) ([]model.Comment, error) {
	return s.comments.List(ctx)
}

// Update changes a comment's title, the only mutable field. Reports
// not-found for an unknown id, a missing title, or a no-op change.
func (s *CommentService) Update(ctx context.Context, id string, title *string) (*model.Comment, error) {
	cid, err := model.ParseCommentID(id)
	if err != nil {
		return nil, apperror.NotFound("comment", id)
	}
	if title == nil {
		return nil, apperror.NotFound("comment", id)
	}

	trimmed := strings.TrimSpace(*title)
	if err := validateCommentTitle(trimmed); err != nil {
		return nil, err
	}

	modified, err := s.comments.UpdateTitle(ctx, cid, trimmed)
	if err != nil {
		s.logger.Error("failed to update comment",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating comment: %w", err)
	}
	if !modified {
		return nil, apperror.NotFound("comment", id)
	}

	s.logger.Info("comment updated", slog.String("id", id))
	return s.comments.GetByID(ctx, cid)
}

// Delete removes a comment and clears its post's backlink. Deleting an
// unknown or malformed id is a no-op returning false, with no side effects.
func (s *CommentService) Delete(ctx context.Context, id string) (bool, error) {
	cid, err := model.ParseCommentID(id)
	if err != nil {
		return false, nil
	}

	comment, err := s.comments.GetByID(ctx, cid)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("fetching comment: %w", err)
	}

	deleted, err := s.comments.Delete(ctx, cid)
	if err != nil {
		return false, fmt.Errorf("deleting comment: %w", err)
	}
	if !deleted {
		return false, nil
	}

	// Clear the backlink only while it still points at this comment.
	if err := s.posts.UnlinkComment(ctx, comment.PostID, cid); err != nil {
		s.logger.Error("failed to clear comment backlink",
			slog.String("id", id),
			slog.String("post_id", comment.PostID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("comment deleted", slog.String("id", id))
	return true, nil
}

func validateCommentTitle(title string) error {
	if title == "" {
		return apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxCommentTitleLen {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxCommentTitleLen))
	}
	return nil
}
