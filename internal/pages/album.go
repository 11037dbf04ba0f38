package pages

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/services"
	"github.com/desertthunder/spindle/internal/shared"
)

// Draft is the comment form.
type Draft struct {
	Rating int
	Text   string
}

func newDraft() Draft {
	return Draft{Rating: models.DefaultRating}
}

// AlbumView is a snapshot of the album detail page.
type AlbumView struct {
	AlbumID  int
	State    State
	Album    *models.AlbumDetail
	Comments []models.Comment
	Genres   []models.Genre
	Err      error

	Draft      Draft
	FormError  error
	Submitting bool
}

// AlbumDetail shows one album and accepts new comments for it.
type AlbumDetail struct {
	api      services.API
	sessions Sessions
	logger   *log.Logger

	mu         sync.Mutex
	gen        generation
	albumID    int
	state      State
	album      *models.AlbumDetail
	comments   []models.Comment
	genres     []models.Genre
	err        error
	draft      Draft
	formErr    error
	submitting bool
}

func NewAlbumDetail(api services.API, sessions Sessions, logger *log.Logger) *AlbumDetail {
	return &AlbumDetail{api: api, sessions: sessions, logger: pageLogger(logger, "album"), draft: newDraft()}
}

// SetAlbum switches the page to albumID and loads it. Switching to a different album resets the form.
func (a *AlbumDetail) SetAlbum(ctx context.Context, albumID int) error {
	a.mu.Lock()
	if albumID != a.albumID {
		a.albumID = albumID
		a.clear()
		a.draft = newDraft()
		a.formErr = nil
	}
	a.mu.Unlock()

	return a.Load(ctx)
}

// Load fetches the album with its comments and genres.
//
// A 404 or a missing album puts the page in [NotFound]; any other failure clears the page and records the error.
func (a *AlbumDetail) Load(ctx context.Context) error {
	a.mu.Lock()
	gen := a.gen.next()
	albumID := a.albumID
	a.state = Loading
	a.mu.Unlock()

	detail, err := a.api.GetAlbumDetail(ctx, albumID)

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.gen.current(gen) {
		a.logger.Debug("dropping stale album detail", "album_id", albumID)
		return nil
	}

	switch {
	case services.IsNotFound(err):
		a.clear()
		a.state = NotFound
		return nil
	case err != nil:
		a.logger.Error("failed to load album", "album_id", albumID, "error", err)
		a.clear()
		a.state = Failed
		a.err = err
		return err
	case detail.Album == nil:
		a.clear()
		a.state = NotFound
		return nil
	}

	a.album = detail.Album
	a.comments = detail.Comments
	a.genres = detail.Genres
	a.err = nil
	a.state = Loaded
	return nil
}

// clear drops loaded data. Callers hold the lock.
func (a *AlbumDetail) clear() {
	a.album = nil
	a.comments = []models.Comment{}
	a.genres = []models.Genre{}
	a.err = nil
}

// SetDraft updates the comment form.
func (a *AlbumDetail) SetDraft(rating int, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.draft = Draft{Rating: rating, Text: text}
}

// Submit posts the draft as the signed-in user, or anonymously with an empty username.
//
// On success the draft is reset and the page reloads. On failure the draft is kept and the error is
// recorded as the form error. A post that succeeded but whose reload failed returns an error
// matching [shared.ErrRefreshFailed] and leaves the form error unset.
func (a *AlbumDetail) Submit(ctx context.Context) error {
	a.mu.Lock()
	if a.submitting {
		a.mu.Unlock()
		return nil
	}
	albumID := a.albumID
	draft := a.draft
	a.submitting = true
	a.mu.Unlock()

	username, _ := a.sessions.Get()
	req := models.CommentRequest{Rating: draft.Rating, CommentText: draft.Text, Username: username}

	_, err := a.api.PostComment(ctx, albumID, req)

	a.mu.Lock()
	a.submitting = false
	if err != nil {
		a.logger.Error("failed to post comment", "album_id", albumID, "error", err)
		a.formErr = err
		a.mu.Unlock()
		return err
	}

	a.formErr = nil
	sameAlbum := a.albumID == albumID
	if sameAlbum {
		a.draft = newDraft()
	}
	a.mu.Unlock()

	if !sameAlbum {
		return nil
	}
	if err := a.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}
	return nil
}

func (a *AlbumDetail) Snapshot() AlbumView {
	a.mu.Lock()
	defer a.mu.Unlock()

	var album *models.AlbumDetail
	if a.album != nil {
		cp := *a.album
		album = &cp
	}

	return AlbumView{
		AlbumID:    a.albumID,
		State:      a.state,
		Album:      album,
		Comments:   slices.Clone(a.comments),
		Genres:     slices.Clone(a.genres),
		Err:        a.err,
		Draft:      a.draft,
		FormError:  a.formErr,
		Submitting: a.submitting,
	}
}
