// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlag(value, usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   usage,
		Value:   value,
	}
}

// albumsCommand handles album browsing, export and creation
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "albums",
		Aliases: []string{"album", "a"},
		Usage:   "Browse and manage albums",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List albums, most reviewed first",
				Flags:  []cli.Flag{formatFlag("text", "Output format: text, json, markdown or csv")},
				Action: r.AlbumsList,
			},
			{
				Name:      "search",
				Usage:     "Search albums by title or artist",
				ArgsUsage: "<query>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  []cli.Flag{formatFlag("text", "Output format: text, json, markdown or csv")},
				Action: r.AlbumsSearch,
			},
			{
				Name:      "show",
				Usage:     "Show an album with its genres and reviews",
				ArgsUsage: "<album-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					formatFlag("text", "Output format: text, json or markdown"),
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Write README.md and the cover image into this directory (markdown only)",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the cover image in the browser",
					},
				},
				Action: r.AlbumsShow,
			},
			{
				Name:  "export",
				Usage: "Export the album catalogue",
				Flags: []cli.Flag{
					formatFlag("markdown", "Output format: markdown, csv or json"),
					&cli.BoolFlag{
						Name:  "details",
						Usage: "Include release date, genres and reviews for every album",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title",
						Value: "Album Catalogue",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent detail requests",
						Value: 4,
					},
				},
				Action: r.AlbumsExport,
			},
			{
				Name:  "create",
				Usage: "Add an album",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Album title", Required: true},
					&cli.IntFlag{Name: "artist-id", Usage: "Artist ID (see 'artists list')", Required: true},
					&cli.StringFlag{Name: "release-date", Usage: "Release date as YYYY-MM-DD"},
					&cli.StringFlag{Name: "cover-url", Usage: "Cover image URL"},
				},
				Action: r.AlbumsCreate,
			},
		},
	}
}

// commentCommand posts a review
func commentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "comment",
		Aliases:   []string{"review"},
		Usage:     "Rate and review an album as the signed-in user, or anonymously",
		ArgsUsage: "<album-id>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "rating", Aliases: []string{"r"}, Usage: "Rating from 1 to 10", Value: 5},
			&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Review text", Required: true},
		},
		Action: r.Comment,
	}
}

// artistsCommand handles artist listing and creation
func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artists",
		Usage: "Browse and manage artists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List artists",
				Flags:  []cli.Flag{formatFlag("text", "Output format: text or json")},
				Action: r.ArtistsList,
			},
			{
				Name:  "create",
				Usage: "Add an artist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Artist name", Required: true},
					&cli.StringFlag{Name: "bio", Usage: "Short biography"},
				},
				Action: r.ArtistsCreate,
			},
		},
	}
}

// genresCommand lists genres
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "Browse genres",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List genres",
				Flags:  []cli.Flag{formatFlag("text", "Output format: text or json")},
				Action: r.GenresList,
			},
		},
	}
}

// authCommand handles sign in, sign up and sign out
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Account password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "signup",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Usage: "Public username", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Account password", Required: true},
				},
				Action: r.AuthSignup,
			},
			{
				Name:   "logout",
				Usage:  "Forget the signed-in user",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Print the signed-in user",
				Action: r.AuthWhoami,
			},
		},
	}
}

// profileCommand lists the signed-in user's reviews and deletes the account
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show your reviews, or delete your account",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "delete", Usage: "Delete the account and all of its reviews"},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm --delete"},
			formatFlag("text", "Output format: text or json"),
		},
		Action: r.Profile,
	}
}

// setupCommand creates the config file and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml if missing and run database migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Roll back the most recent migration instead",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}
