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
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implements repository.UserRepository against the users collection.
type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{coll: db.users}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = model.NewUserID()
	user.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("mongodb: creating user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Translate the driver's sentinel to our domain error, the same way
		// a SQL layer translates sql.ErrNoRows.
		return nil, apperror.NotFound("user", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb: fetching user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb: fetching user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) ExistsWithUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}

	err := r.coll.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("mongodb: checking username/email uniqueness: %w", err)
	}
	return true, nil
}

func (r *UserRepo) Update(ctx context.Context, id model.UserID, upd repository.UserUpdate) (bool, error) {
	set := bson.M{}
	if upd.Username != nil {
		set["username"] = *upd.Username
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		set["password"] = *upd.PasswordHash
	}
	if upd.PasswordSalt != nil {
		set["password_salt"] = *upd.PasswordSalt
	}
	if len(set) == 0 {
		return false, nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("mongodb: updating user: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *UserRepo) Delete(ctx context.Context, id model.UserID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("mongodb: deleting user: %w", err)
	}
	return res.DeletedCount > 0, nil
}
