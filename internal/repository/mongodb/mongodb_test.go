package mongodb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/koyiljon-s/rest-redirect-chat/internal/apperror"
	"github.com/koyiljon-s/rest-redirect-chat/internal/model"
	"github.com/koyiljon-s/rest-redirect-chat/internal/repository"
)

// These tests need a running MongoDB instance. Set MONGO_TEST_URI to enable:
//
//	MONGO_TEST_URI=mongodb://localhost:27017 go test ./internal/repository/mongodb/
//
// Each run uses a unique database which is dropped on cleanup.
func testDB(t *testing.T) *DB {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	name := fmt.Sprintf("redirect_chat_test_%d", time.Now().UnixNano())
	db, err := New(ctx, uri, name)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.client.Database(name).Drop(ctx); err != nil {
			t.Errorf("dropping test database: %v", err)
		}
		if err := db.Close(ctx); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	return db
}

func seedUser(t *testing.T, repo *UserRepo, username, email string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		PasswordSalt: "salt",
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return user
}

func TestUserRepo_CRUD(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	user := seedUser(t, repo, "alice", "alice@example.com")
	if user.ID.IsZero() {
		t.Fatal("Create() did not assign an id")
	}

	found, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Username != "alice" || found.Email != "alice@example.com" {
		t.Errorf("GetByID() = %+v", found)
	}
	if found.PasswordHash != "hash" || found.PasswordSalt != "salt" {
		t.Error("credentials did not round-trip")
	}

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetByEmail() id = %s, want %s", byEmail.ID, user.ID)
	}

	// Either half of the pair counts as taken.
	for _, pair := range [][2]string{
		{"alice", "other@example.com"},
		{"other", "alice@example.com"},
	} {
		exists, err := repo.ExistsWithUsernameOrEmail(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("ExistsWithUsernameOrEmail(%v) error = %v", pair, err)
		}
		if !exists {
			t.Errorf("ExistsWithUsernameOrEmail(%v) = false, want true", pair)
		}
	}
	exists, err := repo.ExistsWithUsernameOrEmail(ctx, "bob", "bob@example.com")
	if err != nil {
		t.Fatalf("ExistsWithUsernameOrEmail() error = %v", err)
	}
	if exists {
		t.Error("ExistsWithUsernameOrEmail() = true for a free pair")
	}

	username := "alicia"
	modified, err := repo.Update(ctx, user.ID, repository.UserUpdate{Username: &username})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !modified {
		t.Fatal("Update() = false, want true")
	}

	// Writing the same value again changes nothing.
	modified, err = repo.Update(ctx, user.ID, repository.UserUpdate{Username: &username})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if modified {
		t.Error("no-op Update() = true, want false")
	}

	deleted, err := repo.Delete(ctx, user.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Fatal("Delete() = false, want true")
	}

	if _, err := repo.GetByID(ctx, user.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	deleted, err = repo.Delete(ctx, user.ID)
	if err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if deleted {
		t.Error("second Delete() = true, want false")
	}
}

func TestPostRepo_LinkComment_Conditional(t *testing.T) {
	db := testDB(t)
	users := NewUserRepo(db)
	posts := NewPostRepo(db)
	ctx := context.Background()

	user := seedUser(t, users, "alice", "alice@example.com")
	post := &model.Post{UserID: user.ID, Title: "hi"}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Fresh posts come back uncommented, with an explicit null backlink.
	stored, err := posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.CommentID != nil {
		t.Fatalf("new post backlink = %v, want nil", stored.CommentID)
	}

	first := model.NewCommentID()
	linked, err := posts.LinkComment(ctx, post.ID, first)
	if err != nil {
		t.Fatalf("LinkComment() error = %v", err)
	}
	if !linked {
		t.Fatal("LinkComment() = false on an uncommented post")
	}

	// The slot is taken; a second claim loses.
	second := model.NewCommentID()
	linked, err = posts.LinkComment(ctx, post.ID, second)
	if err != nil {
		t.Fatalf("second LinkComment() error = %v", err)
	}
	if linked {
		t.Fatal("second LinkComment() = true, want false")
	}

	stored, err = posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.CommentID == nil || *stored.CommentID != first {
		t.Errorf("backlink = %v, want %s", stored.CommentID, first)
	}

	// Unlinking with the wrong comment id leaves the link alone.
	if err := posts.UnlinkComment(ctx, post.ID, second); err != nil {
		t.Fatalf("UnlinkComment(wrong) error = %v", err)
	}
	stored, _ = posts.GetByID(ctx, post.ID)
	if stored.CommentID == nil {
		t.Fatal("stale unlink cleared the backlink")
	}

	if err := posts.UnlinkComment(ctx, post.ID, first); err != nil {
		t.Fatalf("UnlinkComment() error = %v", err)
	}
	stored, _ = posts.GetByID(ctx, post.ID)
	if stored.CommentID != nil {
		t.Fatalf("backlink = %v after unlink, want nil", stored.CommentID)
	}

	// And the freed slot can be claimed again.
	linked, err = posts.LinkComment(ctx, post.ID, second)
	if err != nil {
		t.Fatalf("relink error = %v", err)
	}
	if !linked {
		t.Error("LinkComment() = false after unlink")
	}
}

func TestCommentRepo_Flow(t *testing.T) {
	db := testDB(t)
	users := NewUserRepo(db)
	posts := NewPostRepo(db)
	comments := NewCommentRepo(db)
	ctx := context.Background()

	user := seedUser(t, users, "alice", "alice@example.com")
	post := &model.Post{UserID: user.ID, Title: "hi"}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("posts.Create() error = %v", err)
	}

	comment := &model.Comment{UserID: user.ID, Title: "first", PostID: post.ID}
	if err := comments.Create(ctx, comment); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byPost, err := comments.GetByPostID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByPostID() error = %v", err)
	}
	if byPost.ID != comment.ID {
		t.Errorf("GetByPostID() = %s, want %s", byPost.ID, comment.ID)
	}

	byUser, err := comments.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(byUser) != 1 {
		t.Errorf("ListByUser() len = %d, want 1", len(byUser))
	}

	modified, err := comments.UpdateTitle(ctx, comment.ID, "edited")
	if err != nil {
		t.Fatalf("UpdateTitle() error = %v", err)
	}
	if !modified {
		t.Fatal("UpdateTitle() = false, want true")
	}
	modified, err = comments.UpdateTitle(ctx, comment.ID, "edited")
	if err != nil {
		t.Fatalf("UpdateTitle() error = %v", err)
	}
	if modified {
		t.Error("no-op UpdateTitle() = true, want false")
	}

	deleted, err := comments.DeleteByPostID(ctx, post.ID)
	if err != nil {
		t.Fatalf("DeleteByPostID() error = %v", err)
	}
	if !deleted {
		t.Fatal("DeleteByPostID() = false, want true")
	}
	if _, err := comments.GetByPostID(ctx, post.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByPostID() after delete error = %v, want ErrNotFound", err)
	}

	lists, err := comments.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(lists) != 0 {
		t.Errorf("List() len = %d, want 0", len(lists))
	}
}
