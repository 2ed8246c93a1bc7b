package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/koyiljon-s/rest-redirect-chat/internal/apperror"
	"github.com/koyiljon-s/rest-redirect-chat/internal/model"
	"github.com/koyiljon-s/rest-redirect-chat/internal/repository"
)

// Compile-time interface check.
var _ repository.CommentRepository = (*CommentRepo)(nil)

// CommentRepo implements repository.CommentRepository against the comments
// collection.
type CommentRepo struct {
	coll *mongo.Collection
}

func NewCommentRepo(db *DB) *CommentRepo {
	return &CommentRepo{coll: db.comments}
}

func (r *CommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = model.NewCommentID()
	comment.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("mongodb: creating comment: %w", err)
	}
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id model.CommentID) (*model.Comment, error) {
	var comment model.Comment
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("comment", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb: fetching comment: %w", err)
	}
	return &comment, nil
}

// GetByPostID returns the single comment linked to a post. The relationship
// is one-to-one, so FindOne is exact, not "first of many".
func (r *CommentRepo) GetByPostID(ctx context.Context, postID model.PostID) (*model.Comment, error) {
	var comment model.Comment
	err := r.coll.FindOne(ctx, bson.M{"post_id": postID}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("comment for post", postID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb: fetching comment by post: %w", err)
	}
	return &comment, nil
}

func (r *CommentRepo) ListByUser(ctx context.Context, userID model.UserID) ([]model.Comment, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *CommentRepo) List(ctx context.Context) ([]model.Comment, error) {
	return r.list(ctx, bson.M{})
}

func (r *CommentRepo) list(ctx context.Context, filter bson.M) ([]model.Comment, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongodb: listing comments: %w", err)
	}

	comments := []model.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("mongodb: decoding comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepo) UpdateTitle(ctx context.Context, id model.CommentID, title string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"title": title}},
	)
	if err != nil {
		return false, fmt.Errorf("mongodb: updating comment: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *CommentRepo) Delete(ctx context.Context, id model.CommentID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("mongodb: deleting comment: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *CommentRepo) DeleteByPostID(ctx context.Context, postID model.PostID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"post_id": postID})
	if err != nil {
		return false, fmt.Errorf("mongodb: deleting comment by post: %w", err)
	}
	return res.DeletedCount > 0, nil
}
