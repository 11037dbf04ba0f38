package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/spindle/internal/formatter"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

// Comment posts a rated review for an album. Without a session the review is anonymous.
func (r *Runner) Comment(ctx context.Context, cmd *cli.Command) error {
	id, err := albumIDArg(cmd)
	if err != nil {
		return err
	}

	rating := cmd.Int("rating")
	if !models.ValidRating(rating) {
		return fmt.Errorf("%w: --rating must be between %d and %d", shared.ErrInvalidFlag, models.MinRating, models.MaxRating)
	}

	page, err := r.albumPage()
	if err != nil {
		return err
	}
	opened, err := r.openAlbum(ctx, page, id)
	if err != nil {
		return err
	}
	title := opened.Album.Title

	page.SetDraft(rating, cmd.String("text"))
	submitErr := page.Submit(ctx)
	if submitErr != nil && !errors.Is(submitErr, shared.ErrRefreshFailed) {
		return submitErr
	}

	author := "anonymous"
	if username, ok := r.sessions.Get(); ok {
		author = username
	}

	r.writePlain("✓ Posted %s review of %s as %s\n", formatter.RatingMarks(rating), title, author)
	if submitErr != nil {
		r.logger.Warn("review posted but album reload failed", "album_id", id, "error", submitErr)
		return r.writePlain("Could not reload %s, run 'albums show %d' to see it\n", title, id)
	}
	return r.writePlain("%s now has %s\n", title, formatter.FormatReviewCount(len(page.Snapshot().Comments)))
}
