// Package repository defines the storage interfaces the service layer
// programs against. The concrete implementation lives in repository/mongodb;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/koyiljon-s/rest-redirect-chat/internal/model"
)

// UserUpdate carries the fields of a partial user update. Nil means "leave
// unchanged". Password changes arrive as an already-derived hash/salt pair;
// plaintext never crosses this boundary.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	PasswordSalt *string
}

// PostUpdate carries the fields of a partial post update. The comment
// backlink is deliberately not here: linkage mutates only through
// LinkComment/UnlinkComment on PostRepository.
type PostUpdate struct {
	Title     *string
	Upvotes   *int
	Downvotes *int
}

type UserRepository interface {
	// Create assigns a fresh id and creation timestamp and inserts the user.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id model.UserID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ExistsWithUsernameOrEmail reports whether any user already holds
	// either value.
	ExistsWithUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// Update applies the provided fields and reports whether a stored
	// document actually changed.
	Update(ctx context.Context, id model.UserID, upd UserUpdate) (bool, error)
	// Delete reports whether a document was removed.
	Delete(ctx context.Context, id model.UserID) (bool, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id model.PostID) (*model.Post, error)
	ListByUser(ctx context.Context, userID model.UserID) ([]model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	Update(ctx context.Context, id model.PostID, upd PostUpdate) (bool, error)
	Delete(ctx context.Context, id model.PostID) (bool, error)

	// LinkComment sets the post's comment backlink if and only if the post
	// currently has none. It reports whether the link was won: under
	// concurrent comment creation exactly one caller sees true. This
	// conditional write is the sole enforcement point of the one-comment-
	// per-post invariant.
	LinkComment(ctx context.Context, postID model.PostID, commentID model.CommentID) (bool, error)

	// UnlinkComment clears the backlink only if it still points at the
	// given comment, so a stale delete cannot clobber a newer link.
	UnlinkComment(ctx context.Context, postID model.PostID, commentID model.CommentID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id model.CommentID) (*model.Comment, error)
	// GetByPostID returns the post's single comment, or ErrNotFound.
	GetByPostID(ctx context.Context, postID model.PostID) (*model.Comment, error)
	ListByUser(ctx context.Context, userID model.UserID) ([]model.Comment, error)
	List(ctx context.Context) ([]model.Comment, error)
	UpdateTitle(ctx context.Context, id model.CommentID, title string) (bool, error)
	Delete(ctx context.Context, id model.CommentID) (bool, error)
	// DeleteByPostID removes the comment linked to a post, if any. Used by
	// the post-delete cascade.
	DeleteByPostID(ctx context.Context, postID model.PostID) (bool, error)
}
