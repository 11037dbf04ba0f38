package models

import (
	"strings"
	"time"
)

// Rating bounds for a single review.
const (
	MinRating     = 1
	MaxRating     = 10
	DefaultRating = 5
)

// Comment is a user review of an album.
//
// AlbumTitle and CoverImageURL are only populated when listing a user's comments.
type Comment struct {
	ID            int       `json:"id"`
	AlbumID       int       `json:"album_id"`
	Username      string    `json:"username,omitempty"`
	Rating        int       `json:"rating"`
	CommentText   string    `json:"comment_text"`
	CreatedAt     time.Time `json:"created_at"`
	AlbumTitle    string    `json:"album_title,omitempty"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
}

// Anonymous reports whether the comment has no author.
func (c Comment) Anonymous() bool {
	return strings.TrimSpace(c.Username) == ""
}

// Author returns the username, or "anonymous".
func (c Comment) Author() string {
	if c.Anonymous() {
		return "anonymous"
	}
	return c.Username
}

// CommentRequest is the body of POST /albums/{id}/comments.
//
// Username is always sent; the empty string marks an anonymous comment.
type CommentRequest struct {
	Rating      int    `json:"rating"`
	CommentText string `json:"comment_text"`
	Username    string `json:"username"`
}

// ValidateText checks the only precondition enforced before sending: non-empty text.
func (r CommentRequest) ValidateText() error {
	if r.CommentText == "" {
		return &FieldError{Field: "comment_text", Reason: "is required"}
	}
	return nil
}

// ValidRating reports whether r lies within [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
