// Package model defines the data structures used throughout the application.
package model

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Each entity gets its own identifier type instead of sharing a raw string or
// ObjectID. The underlying representation is still MongoDB's 12-byte object
// id (24 hex characters on the wire), but the compiler now rejects passing a
// CommentID where a PostID is expected.
//
// Every id type marshals to a native ObjectID in BSON, so documents and
// filters built with these types look exactly like documents built with
// primitive.ObjectID.

// UserID identifies a User document.
type UserID primitive.ObjectID

// PostID identifies a Post document.
type PostID primitive.ObjectID

// CommentID identifies a Comment document.
type CommentID primitive.ObjectID

// NewUserID returns a freshly generated UserID.
func NewUserID() UserID { return UserID(primitive.NewObjectID()) }

// NewPostID returns a freshly generated PostID.
func NewPostID() PostID { return PostID(primitive.NewObjectID()) }

// NewCommentID returns a freshly generated CommentID.
func NewCommentID() CommentID { return CommentID(primitive.NewObjectID()) }

// ParseUserID parses the 24-hex-character string form of a user id.
func ParseUserID(s string) (UserID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return UserID{}, fmt.Errorf("model: parsing user id %q: %w", s, err)
	}
	return UserID(oid), nil
}

// ParsePostID parses the 24-hex-character string form of a post id.
func ParsePostID(s string) (PostID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return PostID{}, fmt.Errorf("model: parsing post id %q: %w", s, err)
	}
	return PostID(oid), nil
}

// ParseCommentID parses the 24-hex-character string form of a comment id.
func ParseCommentID(s string) (CommentID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return CommentID{}, fmt.Errorf("model: parsing comment id %q: %w", s, err)
	}
	return CommentID(oid), nil
}

// String returns the 24-hex-character form, as used in URLs and responses.
func (id UserID) String() string { return primitive.ObjectID(id).Hex() }

// IsZero reports whether the id is the all-zero ObjectID. The bson encoder
// also uses this to honour the `omitempty` tag on _id fields.
func (id UserID) IsZero() bool { return primitive.ObjectID(id).IsZero() }

// MarshalBSONValue encodes the id as a native BSON ObjectID.
func (id UserID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(primitive.ObjectID(id))
}

// UnmarshalBSONValue decodes a native BSON ObjectID into the id.
func (id *UserID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var oid primitive.ObjectID
	if err := bson.UnmarshalValue(t, data, &oid); err != nil {
		return fmt.Errorf("model: decoding user id: %w", err)
	}
	*id = UserID(oid)
	return nil
}

func (id PostID) String() string { return primitive.ObjectID(id).Hex() }

func (id PostID) IsZero() bool { return primitive.ObjectID(id).IsZero() }

func (id PostID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(primitive.ObjectID(id))
}

func (id *PostID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var oid primitive.ObjectID
	if err := bson.UnmarshalValue(t, data, &oid); err != nil {
		return fmt.Errorf("model: decoding post id: %w", err)
	}
	*id = PostID(oid)
	return nil
}

func (id CommentID) String() string { return primitive.ObjectID(id).Hex() }

func (id CommentID) IsZero() bool { return primitive.ObjectID(id).IsZero() }

func (id CommentID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(primitive.ObjectID(id))
}

func (id *CommentID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var oid primitive.ObjectID
	if err := bson.UnmarshalValue(t, data, &oid); err != nil {
		return fmt.Errorf("model: decoding comment id: %w", err)
	}
	*id = CommentID(oid)
	return nil
}
