package pages

import (
	"context"
	"sync/atomic"

	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/services"
	"github.com/desertthunder/spindle/internal/session"
)

// stubAPI is a [services.API] whose behavior is set per test. Unset operations fail the call.
type stubAPI struct {
	calls atomic.Int32

	listAlbums      func() ([]models.AlbumSummary, error)
	searchAlbums    func(query string) ([]models.AlbumSummary, error)
	getAlbumDetail  func(ctx context.Context, id int) (*models.AlbumDetailResponse, error)
	postComment     func(id int, req models.CommentRequest) (*models.Acknowledgement, error)
	getUserComments func(username string) ([]models.Comment, error)
	deleteUser      func(username string) (*models.Acknowledgement, error)
	login           func(email, password string) (*models.LoginResult, error)
	signup          func(username, email, password string) (*models.Acknowledgement, error)
	createArtist    func(req models.ArtistCreateRequest) (*models.CreatedArtist, error)
	createAlbum     func(req models.AlbumCreateRequest) (*models.CreatedAlbum, error)
}

var errUnset = &services.APIError{Status: 501, Message: "not stubbed"}

func (s *stubAPI) Signup(ctx context.Context, username, email, password string) (*models.Acknowledgement, error) {
	s.calls.Add(1)
	if s.signup == nil {
		return nil, errUnset
	}
	return s.signup(username, email, password)
}

func (s *stubAPI) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	s.calls.Add(1)
	if s.login == nil {
		return nil, errUnset
	}
	return s.login(email, password)
}

func (s *stubAPI) ListAlbums(ctx context.Context) ([]models.AlbumSummary, error) {
	s.calls.Add(1)
	if s.listAlbums == nil {
		return nil, errUnset
	}
	return s.listAlbums()
}

func (s *stubAPI) SearchAlbums(ctx context.Context, query string) ([]models.AlbumSummary, error) {
	s.calls.Add(1)
	if s.searchAlbums == nil {
		return nil, errUnset
	}
	return s.searchAlbums(query)
}

func (s *stubAPI) GetAlbumDetail(ctx context.Context, id int) (*models.AlbumDetailResponse, error) {
	s.calls.Add(1)
	if s.getAlbumDetail == nil {
		return nil, errUnset
	}
	return s.getAlbumDetail(ctx, id)
}

func (s *stubAPI) PostComment(ctx context.Context, id int, req models.CommentRequest) (*models.Acknowledgement, error) {
	s.calls.Add(1)
	if s.postComment == nil {
		return nil, errUnset
	}
	return s.postComment(id, req)
}

func (s *stubAPI) GetUserComments(ctx context.Context, username string) ([]models.Comment, error) {
	s.calls.Add(1)
	if s.getUserComments == nil {
		return nil, errUnset
	}
	return s.getUserComments(username)
}

func (s *stubAPI) DeleteUser(ctx context.Context, username string) (*models.Acknowledgement, error) {
	s.calls.Add(1)
	if s.deleteUser == nil {
		return nil, errUnset
	}
	return s.deleteUser(username)
}

func (s *stubAPI) CreateArtist(ctx context.Context, req models.ArtistCreateRequest) (*models.CreatedArtist, error) {
	s.calls.Add(1)
	if s.createArtist == nil {
		return nil, errUnset
	}
	return s.createArtist(req)
}

func (s *stubAPI) CreateAlbum(ctx context.Context, req models.AlbumCreateRequest) (*models.CreatedAlbum, error) {
	s.calls.Add(1)
	if s.createAlbum == nil {
		return nil, errUnset
	}
	return s.createAlbum(req)
}

func (s *stubAPI) ListArtists(ctx context.Context) ([]models.Artist, error) {
	s.calls.Add(1)
	return []models.Artist{}, nil
}

func (s *stubAPI) ListGenres(ctx context.Context) ([]models.Genre, error) {
	s.calls.Add(1)
	return []models.Genre{}, nil
}

func newSessions(username string) *session.Store {
	store, _ := session.New(session.NewMemoryBackend(), nil)
	if username != "" {
		store.Set(username)
	}
	return store
}

func albumResponse(id int, title string, comments ...models.Comment) *models.AlbumDetailResponse {
	resp := &models.AlbumDetailResponse{
		Album:    &models.AlbumDetail{ID: id, Title: title, ArtistName: "Artist"},
		Comments: comments,
	}
	resp.Normalize()
	return resp
}
