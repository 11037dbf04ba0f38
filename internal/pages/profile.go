package pages

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/services"
	"github.com/desertthunder/spindle/internal/shared"
)

// ProfileView is a snapshot of the profile page.
type ProfileView struct {
	Username   string
	Comments   []models.Comment
	State      State
	Err        error
	Confirming bool
	Deleting   bool
}

// Profile lists the signed-in user's comments and deletes the account.
//
// Without a session every operation redirects home without touching the network.
type Profile struct {
	api      services.API
	sessions Sessions
	logger   *log.Logger

	mu         sync.Mutex
	gen        generation
	username   string
	comments   []models.Comment
	state      State
	err        error
	confirming bool
	deleting   bool
}

func NewProfile(api services.API, sessions Sessions, logger *log.Logger) *Profile {
	return &Profile{api: api, sessions: sessions, logger: pageLogger(logger, "profile")}
}

// Open enters the page. Comments are fetched once per username; use [Profile.Reload] to refetch.
func (p *Profile) Open(ctx context.Context) (Outcome, error) {
	username, ok := p.sessions.Get()
	if !ok {
		p.reset()
		return RedirectHome, nil
	}

	p.mu.Lock()
	fresh := p.username == username && p.state == Loaded
	p.mu.Unlock()
	if fresh {
		return Stay, nil
	}

	return Stay, p.load(ctx, username)
}

// Reload refetches the comments for the current session.
func (p *Profile) Reload(ctx context.Context) (Outcome, error) {
	username, ok := p.sessions.Get()
	if !ok {
		p.reset()
		return RedirectHome, nil
	}
	return Stay, p.load(ctx, username)
}

func (p *Profile) load(ctx context.Context, username string) error {
	p.mu.Lock()
	gen := p.gen.next()
	if p.username != username {
		p.comments = nil
		p.confirming = false
	}
	p.username = username
	p.state = Loading
	p.mu.Unlock()

	comments, err := p.api.GetUserComments(ctx, username)

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.gen.current(gen) {
		p.logger.Debug("dropping stale profile", "username", username)
		return nil
	}

	if err != nil {
		p.logger.Error("failed to load comments", "username", username, "error", err)
		p.comments = []models.Comment{}
		p.state = Failed
		p.err = err
		return err
	}

	p.comments = comments
	p.state = Loaded
	p.err = nil
	return nil
}

// RequestDelete arms the confirmation gate.
func (p *Profile) RequestDelete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirming = true
}

// CancelDelete disarms the confirmation gate.
func (p *Profile) CancelDelete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirming = false
}

// ConfirmDelete deletes the account once [Profile.RequestDelete] has armed the gate.
//
// A "not found" reply means the account is already gone and counts as success. On success the session is
// cleared and the caller is sent home; on failure the error is shown and nothing else changes.
func (p *Profile) ConfirmDelete(ctx context.Context) (Outcome, error) {
	username, ok := p.sessions.Get()
	if !ok {
		p.reset()
		return RedirectHome, nil
	}

	p.mu.Lock()
	if !p.confirming {
		p.mu.Unlock()
		return Stay, shared.ErrConfirmationRequired
	}
	if p.deleting {
		p.mu.Unlock()
		return Stay, nil
	}
	p.confirming = false
	p.deleting = true
	p.mu.Unlock()

	_, err := p.api.DeleteUser(ctx, username)
	if services.IsNotFound(err) {
		p.logger.Info("account already deleted", "username", username)
		err = nil
	}

	if err != nil {
		p.logger.Error("failed to delete account", "username", username, "error", err)
		p.mu.Lock()
		p.deleting = false
		p.err = err
		p.mu.Unlock()
		return Stay, err
	}

	if err := p.sessions.Clear(); err != nil {
		p.mu.Lock()
		p.deleting = false
		p.err = err
		p.mu.Unlock()
		return Stay, fmt.Errorf("account deleted but session not cleared: %w", err)
	}

	p.reset()
	return RedirectHome, nil
}

func (p *Profile) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen.next()
	p.username = ""
	p.comments = nil
	p.state = Idle
	p.err = nil
	p.confirming = false
	p.deleting = false
}

func (p *Profile) Snapshot() ProfileView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProfileView{
		Username:   p.username,
		Comments:   slices.Clone(p.comments),
		State:      p.state,
		Err:        p.err,
		Confirming: p.confirming,
		Deleting:   p.deleting,
	}
}
