package tasks

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
	defaultRate    = 5.0
)

// CatalogueReader is the read side of the review API used by exports.
type CatalogueReader interface {
	ListAlbums(ctx context.Context) ([]models.AlbumSummary, error)
	GetAlbumDetail(ctx context.Context, albumID int) (*models.AlbumDetailResponse, error)
}

// ExportOpts contains configuration for catalogue exports.
type ExportOpts struct {
	Title     string  // Heading for rendered output (default: "Album Catalogue")
	Details   bool    // Fetch detail, genres and comments for every album
	Workers   int     // Concurrent detail fetches (default: 4, max: 10)
	RateLimit float64 // Detail requests per second (default: 5)
}

// AlbumFailure records an album whose detail could not be fetched.
type AlbumFailure struct {
	AlbumID int
	Title   string
	Err     error
}

// ExportResult contains the assembled catalogue and per-album failures.
type ExportResult struct {
	Catalogue *models.CatalogueExport
	Fetched   int
	Failures  []AlbumFailure
}

// Exporter builds catalogue exports from the review API.
type Exporter struct {
	api    CatalogueReader
	logger *log.Logger
	now    func() time.Time
}

// NewExporter creates a new Exporter.
func NewExporter(api CatalogueReader, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Exporter{api: api, logger: shared.WithLogger(logger, "task", "export"), now: time.Now}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Export lists albums and optionally fetches every album's detail.
func (e *Exporter) Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: review API not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Title == "" {
		opts.Title = "Album Catalogue"
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRate
	}

	sendProgress(progress, fetchingAlbumsUpdate())
	albums, err := e.api.ListAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	sendProgress(progress, foundAlbumsUpdate(albums))

	entries := make([]models.CatalogueEntry, len(albums))
	for i, a := range albums {
		entries[i].Summary = a
	}

	result := &ExportResult{}
	if opts.Details && len(albums) > 0 {
		failures, err := e.fetchDetails(ctx, progress, entries, opts)
		if err != nil {
			return nil, err
		}
		result.Failures = failures
		result.Fetched = len(albums) - len(failures)
	}

	result.Catalogue = &models.CatalogueExport{
		Title:       opts.Title,
		GeneratedAt: e.now().UTC(),
		Albums:      entries,
	}
	sendProgress(progress, assembledUpdate(result.Catalogue))

	e.logger.Info("catalogue exported", "albums", len(entries), "details", result.Fetched, "failures", len(result.Failures))
	return result, nil
}

// fetchDetails fills entries in place. Only context cancellation aborts the group; per-album failures are collected.
func (e *Exporter) fetchDetails(ctx context.Context, progress chan<- ProgressUpdate, entries []models.CatalogueEntry, opts ExportOpts) ([]AlbumFailure, error) {
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	var (
		mu        sync.Mutex
		completed int
		failures  []AlbumFailure
	)
	total := len(entries)

	for i := range entries {
		album := entries[i].Summary

		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			detail, err := e.api.GetAlbumDetail(gctx, album.ID)
			if err == nil && detail.Album == nil {
				err = fmt.Errorf("%w: album %d", shared.ErrNotFound, album.ID)
			}
			if gctx.Err() != nil {
				return gctx.Err()
			}

			mu.Lock()
			defer mu.Unlock()
			completed++

			if err != nil {
				e.logger.Warn("detail fetch failed", "album_id", album.ID, "error", err)
				failures = append(failures, AlbumFailure{AlbumID: album.ID, Title: album.Title, Err: err})
				sendProgress(progress, detailFailedUpdate(completed, total, album, err))
				return nil
			}

			entries[i].Detail = detail.Album
			entries[i].Genres = detail.Genres
			entries[i].Comments = detail.Comments
			sendProgress(progress, detailFetchedUpdate(completed, total, album))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export cancelled: %w", err)
	}

	slices.SortFunc(failures, func(a, b AlbumFailure) int { return cmp.Compare(a.AlbumID, b.AlbumID) })
	return failures, nil
}
