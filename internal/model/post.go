package model

import "time"

// Post represents a post authored by a user.
//
// CommentID is the backlink of the one-to-one Post↔Comment relationship:
// nil while the post is uncommented, set to the comment's id once a comment
// is created against it. A nil pointer is stored as an explicit BSON null,
// which is what the conditional linkage write in the repository filters on.
//
// Only the comment lifecycle (create/delete, plus the post-delete cascade)
// may mutate CommentID; it is absent from the general post update surface.
type Post struct {
	ID        PostID     `bson:"_id,omitempty"`
	UserID    UserID     `bson:"user_id"`
	Title     string     `bson:"title"`
	Upvotes   int        `bson:"upvotes"`
	Downvotes int        `bson:"downvotes"`
	CreatedAt time.Time  `bson:"created_at"`
	CommentID *CommentID `bson:"comment_id"`
}

// Commented reports whether the post already has a linked comment.
func (p *Post) Commented() bool { return p.CommentID != nil }
