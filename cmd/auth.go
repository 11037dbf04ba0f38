package main

import (
	"context"

	"github.com/desertthunder/spindle/internal/pages"
	"github.com/urfave/cli/v3"
)

func (r *Runner) authPage() (*pages.Auth, error) {
	api, err := r.reviews()
	if err != nil {
		return nil, err
	}
	sessions, err := r.store()
	if err != nil {
		return nil, err
	}
	return pages.NewAuth(api, sessions, r.logger), nil
}

// AuthLogin signs in and remembers the username for later commands.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authPage()
	if err != nil {
		return err
	}

	username, err := auth.Login(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Signed in as %s\n", username)
}

// AuthSignup creates an account and signs in with it.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authPage()
	if err != nil {
		return err
	}

	username, err := auth.Signup(ctx, cmd.String("username"), cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Account created, signed in as %s\n", username)
}

// AuthLogout forgets the signed-in user. Nothing is sent to the server.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	sessions, err := r.store()
	if err != nil {
		return err
	}

	username, ok := sessions.Get()
	if !ok {
		return r.writePlain("Not signed in\n")
	}
	if err := sessions.Clear(); err != nil {
		return err
	}

	r.logger.Info("signed out", "username", username)
	return r.writePlain("✓ Signed out %s\n", username)
}

// AuthWhoami prints the signed-in user.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	sessions, err := r.store()
	if err != nil {
		return err
	}

	if current := sessions.Current(); current.Active() {
		return r.writePlain("%s\n", current.Username)
	}
	return r.writePlain("Not signed in (reviews are posted anonymously)\n")
}
