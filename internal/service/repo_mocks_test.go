package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/koyiljon-s/rest-redirect-chat/internal/apperror"
	"github.com/koyiljon-s/rest-redirect-chat/internal/auth"
	"github.com/koyiljon-s/rest-redirect-chat/internal/model"
	"github.com/koyiljon-s/rest-redirect-chat/internal/repository"
)

// In-memory fakes of the repository interfaces, shared by the service tests
// in this package. They replicate the store's observable semantics (copies
// in and out, modified/deleted counts, the conditional linkage write) so
// the services are exercised against the same contract MongoDB provides.

// ---------------------------------------------------------------------------
// users

type mockUserRepo struct {
	users map[model.UserID]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[model.UserID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = model.NewUserID()
	user.CreatedAt = time.Now().UTC()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id model.UserID) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id.String())
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			result := *user
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) ExistsWithUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, user := range m.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Update(_ context.Context, id model.UserID, upd repository.UserUpdate) (bool, error) {
	user, ok := m.users[id]
	if !ok {
		return false, nil
	}

	// Like UpdateOne's ModifiedCount: setting a field to its current value
	// does not count as a modification.
	modified := false
	if upd.Username != nil && user.Username != *upd.Username {
		user.Username = *upd.Username
		modified = true
	}
	if upd.Email != nil && user.Email != *upd.Email {
		user.Email = *upd.Email
		modified = true
	}
	if upd.PasswordHash != nil && user.PasswordHash != *upd.PasswordHash {
		user.PasswordHash = *upd.PasswordHash
		modified = true
	}
	if upd.PasswordSalt != nil && user.PasswordSalt != *upd.PasswordSalt {
		user.PasswordSalt = *upd.PasswordSalt
		modified = true
	}
	return modified, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id model.UserID) (bool, error) {
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

// ---------------------------------------------------------------------------
// posts

type mockPostRepo struct {
	posts map[model.PostID]*model.Post

	// denyLink simulates losing the conditional linkage write to a
	// concurrent creator.
	denyLink bool
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[model.PostID]*model.Post)}
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	post.ID = model.NewPostID()
	post.CreatedAt = time.Now().UTC()
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id model.PostID) (*model.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id.String())
	}
	result := *post
	return &result, nil
}

func (m *mockPostRepo) ListByUser(_ context.Context, userID model.UserID) ([]model.Post, error) {
	result := []model.Post{}
	for _, post := range m.posts {
		if post.UserID == userID {
			result = append(result, *post)
		}
	}
	return result, nil
}

func (m *mockPostRepo) List(_ context.Context) ([]model.Post, error) {
	result := []model.Post{}
	for _, post := range m.posts {
		result = append(result, *post)
	}
	return result, nil
}

func (m *mockPostRepo) Update(_ context.Context, id model.PostID, upd repository.PostUpdate) (bool, error) {
	post, ok := m.posts[id]
	if !ok {
		return false, nil
	}

	modified := false
	if upd.Title != nil && post.Title != *upd.Title {
		post.Title = *upd.Title
		modified = true
	}
	if upd.Upvotes != nil && post.Upvotes != *upd.Upvotes {
		post.Upvotes = *upd.Upvotes
		modified = true
	}
	if upd.Downvotes != nil && post.Downvotes != *upd.Downvotes {
		post.Downvotes = *upd.Downvotes
		modified = true
	}
	return modified, nil
}

func (m *mockPostRepo) Delete(_ context.Context, id model.PostID) (bool, error) {
	if _, ok := m.posts[id]; !ok {
		return false, nil
	}
	delete(m.posts, id)
	return true, nil
}

func (m *mockPostRepo) LinkComment(_ context.Context, postID model.PostID, commentID model.CommentID) (bool, error) {
	if m.denyLink {
		return false, nil
	}
	post, ok := m.posts[postID]
	if !ok || post.CommentID != nil {
		return false, nil
	}
	cid := commentID
	post.CommentID = &cid
	return true, nil
}

func (m *mockPostRepo) UnlinkComment(_ context.Context, postID model.PostID, commentID model.CommentID) error {
	post, ok := m.posts[postID]
	if !ok || post.CommentID == nil || *post.CommentID != commentID {
		return nil
	}
	post.CommentID = nil
	return nil
}

// ---------------------------------------------------------------------------
// comments

type mockCommentRepo struct {
	comments map[model.CommentID]*model.Comment
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[model.CommentID]*model.Comment)}
}

func (m *mockCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	comment.ID = model.NewCommentID()
	comment.CreatedAt = time.Now().UTC()
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *mockCommentRepo) GetByID(_ context.Context, id model.CommentID) (*model.Comment, error) {
	comment, ok := m.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id.String())
	}
	result := *comment
	return &result, nil
}

func (m *mockCommentRepo) GetByPostID(_ context.Context, postID model.PostID) (*model.Comment, error) {
	for _, comment := range m.comments {
		if comment.PostID == postID {
			result := *comment
			return &result, nil
		}
	}
	return nil, apperror.NotFound("comment for post", postID.String())
}

func (m *mockCommentRepo) ListByUser(_ context.Context, userID model.UserID) ([]model.Comment, error) {
	result := []model.Comment{}
	for _, comment := range m.comments {
		if comment.UserID == userID {
			result = append(result, *comment)
		}
	}
	return result, nil
}

func (m *mockCommentRepo) List(_ context.Context) ([]model.Comment, error) {
	result := []model.Comment{}
	for _, comment := range m.comments {
		result = append(result, *comment)
	}
	return result, nil
}

func (m *mockCommentRepo) UpdateTitle(_ context.Context, id model.CommentID, title string) (bool, error) {
	comment, ok := m.comments[id]
	if !ok {
		return false, nil
	}
	if comment.Title == title {
		return false, nil
	}
	comment.Title = title
	return true, nil
}

func (m *mockCommentRepo) Delete(_ context.Context, id model.CommentID) (bool, error) {
	if _, ok := m.comments[id]; !ok {
		return false, nil
	}
	delete(m.comments, id)
	return true, nil
}

func (m *mockCommentRepo) DeleteByPostID(_ context.Context, postID model.PostID) (bool, error) {
	for id, comment := range m.comments {
		if comment.PostID == postID {
			delete(m.comments, id)
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// helpers

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testEnv wires all three services over shared mocks, mirroring the
// production composition root.
type testEnv struct {
	users    *UserService
	posts    *PostService
	comments *CommentService

	userRepo    *mockUserRepo
	postRepo    *mockPostRepo
	commentRepo *mockCommentRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userRepo := newMockUserRepo()
	postRepo := newMockPostRepo()
	commentRepo := newMockCommentRepo()
	logger := testLogger()
	hasher := auth.NewPasswordHasherForTest("test-pepper")

	return &testEnv{
		users:       NewUserService(userRepo, hasher, logger),
		posts:       NewPostService(postRepo, commentRepo, userRepo, logger),
		comments:    NewCommentService(commentRepo, postRepo, userRepo, logger),
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// mustUser creates a user directly through the service, failing the test on
// error. Shared setup for post/comment tests.
func (e *testEnv) mustUser(t *testing.T, username, email string) *model.User {
	t.Helper()
	user, err := e.users.Create(context.Background(), username, email, "password123")
	if err != nil {
		t.Fatalf("setup: creating user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) mustPost(t *testing.T, userID, title string) *model.Post {
	t.Helper()
	post, err := e.posts.Create(context.Background(), userID, title, nil)
	if err != nil {
		t.Fatalf("setup: creating post %q: %v", title, err)
	}
	return post
}
