package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/pages"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

// ArtistsList prints every artist with its ID, for use with 'albums create'.
func (r *Runner) ArtistsList(ctx context.Context, cmd *cli.Command) error {
	api, err := r.reviews()
	if err != nil {
		return err
	}

	artists, err := api.ListArtists(ctx)
	if err != nil {
		return err
	}

	switch cmd.String("format") {
	case "json":
		return r.writeJSON(artists, true)
	case "text":
		if len(artists) == 0 {
			return r.writePlain("No artists found.\n")
		}
		for _, a := range artists {
			r.writePlain("%4d  %s\n", a.ID, a.Name)
		}
		return nil
	default:
		return fmt.Errorf("%w: --format must be text or json", shared.ErrInvalidFlag)
	}
}

// ArtistsCreate adds an artist.
func (r *Runner) ArtistsCreate(ctx context.Context, cmd *cli.Command) error {
	api, err := r.reviews()
	if err != nil {
		return err
	}

	form := pages.NewArtistForm(api, r.logger)
	form.SetFields(models.ArtistCreateRequest{Name: cmd.String("name"), Bio: cmd.String("bio")})

	created, err := form.Submit(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s (id %d)\n", created.Message, created.ArtistID)
}

// GenresList prints every genre.
func (r *Runner) GenresList(ctx context.Context, cmd *cli.Command) error {
	api, err := r.reviews()
	if err != nil {
		return err
	}

	genres, err := api.ListGenres(ctx)
	if err != nil {
		return err
	}

	switch cmd.String("format") {
	case "json":
		return r.writeJSON(genres, true)
	case "text":
		if len(genres) == 0 {
			return r.writePlain("No genres found.\n")
		}
		for _, g := range genres {
			r.writePlain("%4d  %s\n", g.ID, g.Name)
		}
		return nil
	default:
		return fmt.Errorf("%w: --format must be text or json", shared.ErrInvalidFlag)
	}
}
