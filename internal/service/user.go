// Package service contains the business logic layer: validation, referential
// checks, and the post↔comment linkage rules. Services accept primitives and
// return domain models and apperror values; they know nothing about HTTP or
// about MongoDB. The handler layer translates errors to status codes; the
// repository layer owns the queries.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/koyiljon-s/rest-redirect-chat/internal/apperror"
	"github.com/koyiljon-s/rest-redirect-chat/internal/auth"
	"github.com/koyiljon-s/rest-redirect-chat/internal/model"
	"github.com/koyiljon-s/rest-redirect-chat/internal/repository"
)

// Validation constants. Limits mirror the API's request schemas.
const (
	MaxUsernameLength    = 50
	MinPasswordLength    = 8
	MaxPostTitleLength   = 200
	MaxCommentTitleLen   = 500
)

// UserService handles registration, lookups and profile updates.
type UserService struct {
	repo   repository.UserRepository
	hasher *auth.PasswordHasher
	logger *slog.Logger
}

func NewUserService(repo repository.UserRepository, hasher *auth.PasswordHasher, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

// UserUpdate carries the optional fields of a user update. Password is the
// plaintext replacement; the service derives a fresh salt and hash from it.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// Create registers a new user. Username and email must be unique across all
// users; a collision on either fails with ErrDuplicate. The plaintext
// password is hashed with a fresh salt and the process pepper before
// anything is persisted.
func (s *UserService) Create(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsWithUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("checking uniqueness: %w", err)
	}
	if taken {
		return nil, apperror.Duplicate("Username or email already exists")
	}

	hash, salt, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created",
		slog.String("id", user.ID.String()),
		slog.String("username", user.Username),
	)
	return user, nil
}

// GetByID fetches a user. A malformed id string is treated as not-found;
// lookups never surface an invalid-identifier error.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := model.ParseUserID(id)
	if err != nil {
		return nil, apperror.NotFound("user", id)
	}
	return s.repo.GetByID(ctx, uid)
}

// GetByEmail fetches a user by their unique email address.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(email))
}

// Update applies the provided fields. A password change re-derives the salt
// and hash. Reports not-found when the id is unknown or malformed, when no
// field was provided, and when nothing effectively changed, matching the
// store's modified-count semantics.
func (s *UserService) Update(ctx context.Context, id string, upd UserUpdate) (*model.User, error) {
	uid, err := model.ParseUserID(id)
	if err != nil {
		return nil, apperror.NotFound("user", id)
	}

	fields := repository.UserUpdate{}
	if upd.Username != nil {
		username := strings.TrimSpace(*upd.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		fields.Username = &username
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		fields.Email = &email
	}
	if upd.Password != nil {
		if err := validatePassword(*upd.Password); err != nil {
			return nil, err
		}
		hash, salt, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		fields.PasswordHash = &hash
		fields.PasswordSalt = &salt
	}

	modified, err := s.repo.Update(ctx, uid, fields)
	if err != nil {
		s.logger.Error("failed to update user",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if !modified {
		return nil, apperror.NotFound("user", id)
	}

	s.logger.Info("user updated", slog.String("id", id))
	return s.repo.GetByID(ctx, uid)
}

// Delete removes a user record. Posts and comments authored by the user are
// left in place; user deletion does not cascade. Returns whether a record
// was actually removed; a malformed id removes nothing.
func (s *UserService) Delete(ctx context.Context, id string) (bool, error) {
	uid, err := model.ParseUserID(id)
	if err != nil {
		return false, nil
	}

	deleted, err := s.repo.Delete(ctx, uid)
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}
	if deleted {
		s.logger.Info("user deleted", slog.String("id", id))
	}
	return deleted, nil
}

func validateUsername(username string) error {
	if username == "" {
		return apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperror.ValidationFailed("email", "email is not a valid address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}
