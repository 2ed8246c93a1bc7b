package model

import "time"

// User represents a registered account.
//
// The `bson:"..."` tags map struct fields to MongoDB document keys. We keep
// the original document layout: the hashed credential lives under "password"
// and the per-user salt under "password_salt". The plaintext password is
// never part of this struct; it only exists transiently inside the service
// layer during Create/Update.
//
// Username and email are unique across all users; the repository checks both
// in one query before inserting.
type User struct {
	ID           UserID    `bson:"_id,omitempty"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	PasswordSalt string    `bson:"password_salt"`
	CreatedAt    time.Time `bson:"created_at"`
}
