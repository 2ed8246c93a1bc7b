package model

import "time"

// Comment represents the single comment attached to a post.
// PostID must reference an existing, previously uncommented post; the
// invariant is enforced by the comment service at creation time.
type Comment struct {
	ID        CommentID `bson:"_id,omitempty"`
	UserID    UserID    `bson:"user_id"`
	Title     string    `bson:"title"`
	PostID    PostID    `bson:"post_id"`
	CreatedAt time.Time `bson:"created_at"`
}
