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
var _ repository.PostRepository = (*PostRepo)(nil)

// PostRepo implements repository.PostRepository against the posts collection.
type PostRepo struct {
	coll *mongo.Collection
}

func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{coll: db.posts}
}

func (r *PostRepo) Create(ctx context.Context, post *model.Post) error {
	post.ID = model.NewPostID()
	post.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("mongodb: creating post: %w", err)
	}
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id model.PostID) (*model.Post, error) {
	var post model.Post
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("post", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb: fetching post: %w", err)
	}
	return &post, nil
}

func (r *PostRepo) ListByUser(ctx context.Context, userID model.UserID) ([]model.Post, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *PostRepo) List(ctx context.Context) ([]model.Post, error) {
	return r.list(ctx, bson.M{})
}

func (r *PostRepo) list(ctx context.Context, filter bson.M) ([]model.Post, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongodb: listing posts: %w", err)
	}

	posts := []model.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("mongodb: decoding posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepo) Update(ctx context.Context, id model.PostID, upd repository.PostUpdate) (bool, error) {
	set := bson.M{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Upvotes != nil {
		set["upvotes"] = *upd.Upvotes
	}
	if upd.Downvotes != nil {
		set["downvotes"] = *upd.Downvotes
	}
	if len(set) == 0 {
		return false, nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("mongodb: updating post: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *PostRepo) Delete(ctx context.Context, id model.PostID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("mongodb: deleting post: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// LinkComment claims the post's comment slot with a single conditional
// write: the filter matches only while comment_id is null, so of any number
// of concurrent claims exactly one modifies the document. ModifiedCount
// tells the caller whether it won.
func (r *PostRepo) LinkComment(ctx context.Context, postID model.PostID, commentID model.CommentID) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": postID, "comment_id": nil},
		bson.M{"$set": bson.M{"comment_id": commentID}},
	)
	if err != nil {
		return false, fmt.Errorf("mongodb: linking comment to post: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// UnlinkComment clears the backlink only while it still points at the given
// comment. A no-op when the link has already moved on or the post is gone.
func (r *PostRepo) UnlinkComment(ctx context.Context, postID model.PostID, commentID model.CommentID) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": postID, "comment_id": commentID},
		bson.M{"$set": bson.M{"comment_id": nil}},
	)
	if err != nil {
		return fmt.Errorf("mongodb: unlinking comment from post: %w", err)
	}
	return nil
}
