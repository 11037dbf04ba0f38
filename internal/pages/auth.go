package pages

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/services"
	"github.com/desertthunder/spindle/internal/shared"
)

// Auth signs users in and out. A successful login or signup stores the username in the session.
type Auth struct {
	api      services.API
	sessions Sessions
	logger   *log.Logger
}

func NewAuth(api services.API, sessions Sessions, logger *log.Logger) *Auth {
	return &Auth{api: api, sessions: sessions, logger: pageLogger(logger, "auth")}
}

// Login authenticates by email and password and returns the username the server reports.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	if err := required(map[string]string{"email": email, "password": password}, "email", "password"); err != nil {
		return "", err
	}

	result, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.logger.Warn("login failed", "email", email, "error", err)
		return "", err
	}
	if shared.IsBlank(result.Username) {
		return "", fmt.Errorf("%w: login response did not include a username", shared.ErrAPIRequest)
	}

	if err := a.sessions.Set(result.Username); err != nil {
		return "", err
	}

	a.logger.Info("signed in", "username", result.Username)
	return result.Username, nil
}

// Signup creates the account and then logs in with the same credentials.
func (a *Auth) Signup(ctx context.Context, username, email, password string) (string, error) {
	fields := map[string]string{"username": username, "email": email, "password": password}
	if err := required(fields, "username", "email", "password"); err != nil {
		return "", err
	}

	if _, err := a.api.Signup(ctx, username, email, password); err != nil {
		a.logger.Warn("signup failed", "username", username, "error", err)
		return "", err
	}

	signedIn, err := a.Login(ctx, email, password)
	if err != nil {
		return "", fmt.Errorf("account created but login failed: %w", err)
	}
	return signedIn, nil
}

// Logout clears the session.
func (a *Auth) Logout() error {
	return a.sessions.Clear()
}

func required(values map[string]string, order ...string) error {
	for _, field := range order {
		if shared.IsBlank(values[field]) {
			return &services.ValidationError{Err: &models.FieldError{Field: field, Reason: "is required"}}
		}
	}
	return nil
}
