package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spindle/internal/formatter"
	"github.com/desertthunder/spindle/internal/pages"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

// Profile prints the signed-in user's reviews. With --delete --yes it deletes the account instead.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	api, err := r.reviews()
	if err != nil {
		return err
	}
	sessions, err := r.store()
	if err != nil {
		return err
	}

	page := pages.NewProfile(api, sessions, r.logger)

	if cmd.Bool("delete") {
		return r.deleteAccount(ctx, cmd, page)
	}

	outcome, err := page.Open(ctx)
	if outcome == pages.RedirectHome {
		return fmt.Errorf("%w: run 'spindle auth login' first", shared.ErrNotAuthenticated)
	}
	if err != nil {
		return err
	}

	view := page.Snapshot()
	switch cmd.String("format") {
	case "json":
		return r.writeJSON(view.Comments, true)
	case "text":
		r.writePlainHeader(fmt.Sprintf("%s (%s)", view.Username, formatter.FormatReviewCount(len(view.Comments))))
		return r.writeBytes(formatter.CommentsToText(view.Comments, true))
	default:
		return fmt.Errorf("%w: --format must be text or json", shared.ErrInvalidFlag)
	}
}

func (r *Runner) deleteAccount(ctx context.Context, cmd *cli.Command, page *pages.Profile) error {
	username, ok := r.sessions.Get()
	if !ok {
		return fmt.Errorf("%w: run 'spindle auth login' first", shared.ErrNotAuthenticated)
	}
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to delete %s and all of their reviews", shared.ErrConfirmationRequired, username)
	}

	page.RequestDelete()
	if _, err := page.ConfirmDelete(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted %s and all of their reviews\n", username)
}
