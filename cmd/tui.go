package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spindle/internal/pages"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/desertthunder/spindle/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.UI.LogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	api, err := r.reviews()
	if err != nil {
		return err
	}
	sessions, err := r.store()
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, ui.Controllers{
		Home:     pages.NewHome(api, r.logger),
		Album:    pages.NewAlbumDetail(api, sessions, r.logger),
		Profile:  pages.NewProfile(api, sessions, r.logger),
		Auth:     pages.NewAuth(api, sessions, r.logger),
		Sessions: sessions,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.Watch(func(msg tea.Msg) { go p.Send(msg) })
	defer model.Close()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
