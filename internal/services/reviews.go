package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/spindle/internal/models"
)

// API lists one operation per backend capability of the music-review service.
type API interface {
	Signup(ctx context.Context, username, email, password string) (*models.Acknowledgement, error)
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	ListAlbums(ctx context.Context) ([]models.AlbumSummary, error)
	SearchAlbums(ctx context.Context, query string) ([]models.AlbumSummary, error)
	GetAlbumDetail(ctx context.Context, albumID int) (*models.AlbumDetailResponse, error)
	PostComment(ctx context.Context, albumID int, req models.CommentRequest) (*models.Acknowledgement, error)
	GetUserComments(ctx context.Context, username string) ([]models.Comment, error)
	DeleteUser(ctx context.Context, username string) (*models.Acknowledgement, error)
	CreateArtist(ctx context.Context, req models.ArtistCreateRequest) (*models.CreatedArtist, error)
	CreateAlbum(ctx context.Context, req models.AlbumCreateRequest) (*models.CreatedAlbum, error)
	ListArtists(ctx context.Context) ([]models.Artist, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
}

var _ API = (*ReviewService)(nil)

// ReviewService implements [API] as thin typed wrappers over [Client].
//
// Transport failures are returned unchanged so the extracted message reaches the caller intact.
type ReviewService struct {
	client *Client
}

// NewReviewService creates a ReviewService over the given transport.
func NewReviewService(client *Client) *ReviewService {
	return &ReviewService{client: client}
}

// Client returns the underlying transport.
func (s *ReviewService) Client() *Client {
	return s.client
}

func (s *ReviewService) Signup(ctx context.Context, username, email, password string) (*models.Acknowledgement, error) {
	var ack models.Acknowledgement
	body := models.SignupRequest{Username: username, Email: email, Password: password}
	if err := s.client.Do(ctx, http.MethodPost, "/signup", body, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

func (s *ReviewService) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	var result models.LoginResult
	body := models.LoginRequest{Email: email, Password: password}
	if err := s.client.Do(ctx, http.MethodPost, "/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ReviewService) ListAlbums(ctx context.Context) ([]models.AlbumSummary, error) {
	return s.albums(ctx, "/albums")
}

// SearchAlbums runs a server-side search. A blank query behaves exactly like [ReviewService.ListAlbums].
func (s *ReviewService) SearchAlbums(ctx context.Context, query string) ([]models.AlbumSummary, error) {
	if strings.TrimSpace(query) == "" {
		return s.ListAlbums(ctx)
	}
	return s.albums(ctx, "/albums/search?q="+url.QueryEscape(query))
}

func (s *ReviewService) albums(ctx context.Context, endpoint string) ([]models.AlbumSummary, error) {
	albums := []models.AlbumSummary{}
	if err := s.client.Do(ctx, http.MethodGet, endpoint, nil, &albums); err != nil {
		return nil, err
	}
	if albums == nil {
		albums = []models.AlbumSummary{}
	}
	return albums, nil
}

func (s *ReviewService) GetAlbumDetail(ctx context.Context, albumID int) (*models.AlbumDetailResponse, error) {
	var detail models.AlbumDetailResponse
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/albums/%d", albumID), nil, &detail); err != nil {
		return nil, err
	}
	detail.Normalize()
	return &detail, nil
}

// PostComment rejects empty comment text before sending. Rating bounds are enforced by the server.
func (s *ReviewService) PostComment(ctx context.Context, albumID int, req models.CommentRequest) (*models.Acknowledgement, error) {
	if err := req.ValidateText(); err != nil {
		return nil, newValidationError(err)
	}

	var ack models.Acknowledgement
	if err := s.client.Do(ctx, http.MethodPost, fmt.Sprintf("/albums/%d/comments", albumID), req, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

func (s *ReviewService) GetUserComments(ctx context.Context, username string) ([]models.Comment, error) {
	comments := []models.Comment{}
	endpoint := "/users/" + url.PathEscape(username) + "/comments"
	if err := s.client.Do(ctx, http.MethodGet, endpoint, nil, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// DeleteUser removes the account. A repeat call fails with a 404 [APIError]; see [IsNotFound].
func (s *ReviewService) DeleteUser(ctx context.Context, username string) (*models.Acknowledgement, error) {
	var ack models.Acknowledgement
	if err := s.client.Do(ctx, http.MethodDelete, "/users/"+url.PathEscape(username), nil, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

func (s *ReviewService) CreateArtist(ctx context.Context, req models.ArtistCreateRequest) (*models.CreatedArtist, error) {
	var created models.CreatedArtist
	if err := s.client.Do(ctx, http.MethodPost, "/artists", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ReviewService) CreateAlbum(ctx context.Context, req models.AlbumCreateRequest) (*models.CreatedAlbum, error) {
	var created models.CreatedAlbum
	if err := s.client.Do(ctx, http.MethodPost, "/albums", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ReviewService) ListArtists(ctx context.Context) ([]models.Artist, error) {
	artists := []models.Artist{}
	if err := s.client.Do(ctx, http.MethodGet, "/artists", nil, &artists); err != nil {
		return nil, err
	}
	if artists == nil {
		artists = []models.Artist{}
	}
	return artists, nil
}

func (s *ReviewService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	genres := []models.Genre{}
	if err := s.client.Do(ctx, http.MethodGet, "/genres", nil, &genres); err != nil {
		return nil, err
	}
	if genres == nil {
		genres = []models.Genre{}
	}
	return genres, nil
}
