package models

import (
	"fmt"
	"net/url"
	"strings"
)

// AlbumSummary is one row of the album list or search results.
type AlbumSummary struct {
	ID            int     `json:"album_id"`
	Title         string  `json:"title"`
	ArtistName    string  `json:"artist_name"`
	CoverImageURL string  `json:"cover_image_url,omitempty"`
	AverageRating float64 `json:"average_rating"`
	TotalComments int     `json:"total_comments"`
}

// AlbumDetail is the detail-view projection of an album.
type AlbumDetail struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	ArtistID      int    `json:"artist_id,omitempty"`
	ArtistName    string `json:"artist_name"`
	ReleaseDate   Date   `json:"release_date"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
}

// Genre is a read-only tag attached to an album.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AlbumDetailResponse is the payload of GET /albums/{id}.
//
// Album is nil when the server returned no album for the id.
type AlbumDetailResponse struct {
	Album    *AlbumDetail `json:"album_details"`
	Comments []Comment    `json:"comments"`
	Genres   []Genre      `json:"genres"`
}

// Normalize replaces nil slices with empty ones.
func (r *AlbumDetailResponse) Normalize() {
	if r.Comments == nil {
		r.Comments = []Comment{}
	}
	if r.Genres == nil {
		r.Genres = []Genre{}
	}
}

// Artist is a performer albums are attributed to.
type Artist struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Bio        string `json:"bio,omitempty"`
	FormedYear int    `json:"formed_year,omitempty"`
}

// ArtistCreateRequest is the body of POST /artists.
type ArtistCreateRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

// Validate checks that the artist has a name.
func (r ArtistCreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &FieldError{Field: "name", Reason: "is required"}
	}
	return nil
}

// AlbumCreateRequest is the body of POST /albums.
type AlbumCreateRequest struct {
	Title         string `json:"title"`
	ArtistID      int    `json:"artist_id"`
	ReleaseDate   string `json:"release_date,omitempty"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
}

// Validate checks the title, the artist reference and the optional date and cover url.
func (r AlbumCreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &FieldError{Field: "title", Reason: "is required"}
	}
	if r.ArtistID <= 0 {
		return &FieldError{Field: "artist_id", Reason: "must be a positive integer"}
	}
	if r.ReleaseDate != "" {
		if _, err := ParseDate(r.ReleaseDate); err != nil {
			return &FieldError{Field: "release_date", Reason: "must use YYYY-MM-DD"}
		}
	}
	if r.CoverImageURL != "" {
		u, err := url.Parse(r.CoverImageURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &FieldError{Field: "cover_image_url", Reason: "must be an http(s) url"}
		}
	}
	return nil
}

// CreatedArtist acknowledges POST /artists.
type CreatedArtist struct {
	Message  string `json:"message"`
	ArtistID int    `json:"artist_id"`
}

// CreatedAlbum acknowledges POST /albums.
type CreatedAlbum struct {
	Message string `json:"message"`
	AlbumID int    `json:"album_id"`
}

// Acknowledgement is a bare {"message": ...} reply.
type Acknowledgement struct {
	Message string `json:"message"`
}

// FieldError reports a client-side validation failure on a single field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
