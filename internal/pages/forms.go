package pages

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/services"
)

// FormView is a snapshot of a create form.
type FormView[T any] struct {
	Fields     T
	Message    string
	Err        error
	Submitting bool
}

// Form validates and submits a create request.
//
// On success the fields are reset and the server's message is kept for display; on failure the fields are kept.
type Form[T any, R any] struct {
	name     string
	validate func(T) error
	create   func(context.Context, T) (R, error)
	message  func(R) string
	logger   *log.Logger

	mu         sync.Mutex
	fields     T
	msg        string
	err        error
	submitting bool
}

// ArtistForm creates artists.
type ArtistForm = Form[models.ArtistCreateRequest, *models.CreatedArtist]

// AlbumForm creates albums.
type AlbumForm = Form[models.AlbumCreateRequest, *models.CreatedAlbum]

func NewArtistForm(api services.API, logger *log.Logger) *ArtistForm {
	return &ArtistForm{
		name:     "artist",
		validate: models.ArtistCreateRequest.Validate,
		create:   api.CreateArtist,
		message:  func(r *models.CreatedArtist) string { return r.Message },
		logger:   pageLogger(logger, "add-artist"),
	}
}

func NewAlbumForm(api services.API, logger *log.Logger) *AlbumForm {
	return &AlbumForm{
		name:     "album",
		validate: models.AlbumCreateRequest.Validate,
		create:   api.CreateAlbum,
		message:  func(r *models.CreatedAlbum) string { return r.Message },
		logger:   pageLogger(logger, "add-album"),
	}
}

// SetFields replaces the form contents and clears any previous outcome.
func (f *Form[T, R]) SetFields(fields T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
	f.msg = ""
	f.err = nil
}

// Submit sends the current fields.
func (f *Form[T, R]) Submit(ctx context.Context) (R, error) {
	var zero R

	f.mu.Lock()
	fields := f.fields
	f.mu.Unlock()

	if err := f.validate(fields); err != nil {
		verr := &services.ValidationError{Err: err}
		f.fail(verr)
		return zero, verr
	}

	f.mu.Lock()
	f.submitting = true
	f.mu.Unlock()

	created, err := f.create(ctx, fields)
	if err != nil {
		f.logger.Error("create failed", "form", f.name, "error", err)
		f.fail(err)
		return zero, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var empty T
	f.fields = empty
	f.msg = f.message(created)
	f.err = nil
	f.submitting = false
	f.logger.Info("created", "form", f.name, "message", f.msg)
	return created, nil
}

func (f *Form[T, R]) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msg = ""
	f.err = err
	f.submitting = false
}

func (f *Form[T, R]) Snapshot() FormView[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormView[T]{Fields: f.fields, Message: f.msg, Err: f.err, Submitting: f.submitting}
}
