package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/spindle/internal/formatter"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/pages"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/desertthunder/spindle/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AlbumsList prints every album, most reviewed first.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	api, err := r.reviews()
	if err != nil {
		return err
	}

	home := pages.NewHome(api, r.logger)
	if err := home.Load(ctx); err != nil {
		return err
	}
	return r.writeAlbums(cmd.String("format"), "Albums", home.Snapshot().Albums)
}

// AlbumsSearch prints albums whose title or artist matches the query.
func (r *Runner) AlbumsSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if shared.IsBlank(query) {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	api, err := r.reviews()
	if err != nil {
		return err
	}

	home := pages.NewHome(api, r.logger)
	home.SetSearchTerm(query)
	if err := home.Submit(ctx); err != nil {
		return err
	}

	view := home.Snapshot()
	return r.writeAlbums(cmd.String("format"), fmt.Sprintf("Results for %q", view.SearchTerm), view.Albums)
}

// AlbumsShow prints one album with its genres and reviews.
func (r *Runner) AlbumsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := albumIDArg(cmd)
	if err != nil {
		return err
	}

	view, err := r.loadAlbum(ctx, id)
	if err != nil {
		return err
	}
	detail := &models.AlbumDetailResponse{Album: view.Album, Comments: view.Comments, Genres: view.Genres}

	if cmd.Bool("open") {
		if view.Album.CoverImageURL == "" {
			r.logger.Warn("album has no cover image", "album_id", id)
		} else if err := shared.OpenURL(view.Album.CoverImageURL); err != nil {
			r.logger.Warn("failed to open cover image", "url", view.Album.CoverImageURL, "error", err)
		}
	}

	format := cmd.String("format")
	outputDir := cmd.String("output-dir")
	if outputDir != "" && format != "markdown" {
		return fmt.Errorf("%w: --output-dir requires --format markdown", shared.ErrInvalidFlag)
	}

	switch format {
	case "text":
		return r.writeBytes(formatter.AlbumDetailToText(detail))
	case "json":
		return r.writeJSON(detail, true)
	case "markdown":
		if outputDir == "" {
			data, err := formatter.AlbumDetailToMarkdown(detail, "")
			if err != nil {
				return err
			}
			return r.writeBytes(data)
		}

		result, err := formatter.WriteAlbumMarkdown(ctx, r.httpClient, detail, outputDir)
		if err != nil {
			return err
		}
		for _, warning := range result.Warnings {
			r.logger.Warn(warning)
		}
		r.writePlain("✓ Wrote %s\n", result.Directory)
		for _, file := range result.Files {
			r.writePlain("  - %s\n", file)
		}
		return nil
	default:
		return fmt.Errorf("%w: --format must be text, json or markdown", shared.ErrInvalidFlag)
	}
}

// AlbumsExport writes the whole catalogue, optionally with every album's detail.
func (r *Runner) AlbumsExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if format != "markdown" && format != "csv" && format != "json" {
		return fmt.Errorf("%w: --format must be markdown, csv or json", shared.ErrInvalidFlag)
	}

	api, err := r.reviews()
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	exporter := tasks.NewExporter(api, r.logger)
	result, err := exporter.Export(ctx, progressCh, tasks.ExportOpts{
		Title:   cmd.String("title"),
		Details: cmd.Bool("details"),
		Workers: cmd.Int("workers"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "markdown":
		data = formatter.CatalogueToMarkdown(result.Catalogue)
	case "csv":
		data, err = formatter.CatalogueToCSV(result.Catalogue)
	case "json":
		data, err = formatter.ToJSON(result.Catalogue)
	}
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if err := formatter.WriteFile(r.output, output, data); err != nil {
		return err
	}

	for _, failure := range result.Failures {
		r.logger.Warn("album exported without detail", "album_id", failure.AlbumID, "title", failure.Title, "error", failure.Err)
	}

	if output != "" && output != "-" {
		r.writePlain("✓ Exported %d albums to %s\n", len(result.Catalogue.Albums), output)
		if len(result.Failures) > 0 {
			r.writePlain("  %d without detail (see log)\n", len(result.Failures))
		}
	}
	return nil
}

// AlbumsCreate adds an album for an existing artist.
func (r *Runner) AlbumsCreate(ctx context.Context, cmd *cli.Command) error {
	api, err := r.reviews()
	if err != nil {
		return err
	}

	form := pages.NewAlbumForm(api, r.logger)
	form.SetFields(models.AlbumCreateRequest{
		Title:         cmd.String("title"),
		ArtistID:      cmd.Int("artist-id"),
		ReleaseDate:   cmd.String("release-date"),
		CoverImageURL: cmd.String("cover-url"),
	})

	created, err := form.Submit(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s (id %d)\n", created.Message, created.AlbumID)
}

// loadAlbum drives the album detail page for id and turns a missing album into [shared.ErrNotFound].
func (r *Runner) loadAlbum(ctx context.Context, id int) (pages.AlbumView, error) {
	page, err := r.albumPage()
	if err != nil {
		return pages.AlbumView{}, err
	}
	return r.openAlbum(ctx, page, id)
}

func (r *Runner) albumPage() (*pages.AlbumDetail, error) {
	api, err := r.reviews()
	if err != nil {
		return nil, err
	}
	sessions, err := r.store()
	if err != nil {
		return nil, err
	}
	return pages.NewAlbumDetail(api, sessions, r.logger), nil
}

func (r *Runner) openAlbum(ctx context.Context, page *pages.AlbumDetail, id int) (pages.AlbumView, error) {
	if err := page.SetAlbum(ctx, id); err != nil {
		return pages.AlbumView{}, err
	}

	view := page.Snapshot()
	if view.State == pages.NotFound {
		return view, fmt.Errorf("%w: album %d", shared.ErrNotFound, id)
	}
	return view, nil
}

func (r *Runner) writeAlbums(format, title string, albums []models.AlbumSummary) error {
	switch format {
	case "text":
		return r.writeBytes(formatter.AlbumsToText(albums))
	case "json":
		return r.writeJSON(albums, true)
	case "markdown":
		return r.writeBytes(formatter.AlbumsToMarkdown(title, albums))
	case "csv":
		data, err := formatter.AlbumsToCSV(albums)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	default:
		return fmt.Errorf("%w: --format must be text, json, markdown or csv", shared.ErrInvalidFlag)
	}
}

func albumIDArg(cmd *cli.Command) (int, error) {
	raw := strings.TrimSpace(cmd.StringArg("id"))
	if raw == "" {
		return 0, fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: album id must be a positive integer, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
