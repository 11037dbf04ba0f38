// Package session owns the client-held identity of the signed-in user.
//
// A [Store] is the single source of truth for the current username. It is initialized from a durable
// [Backend] once, and every change is written to the backend before it becomes visible in memory
// and before subscribers are told about it.
package session

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/shared"
)

// Backend persists the session slot.
//
// Load reports ok=false when no session is stored.
type Backend interface {
	Load() (username string, ok bool, err error)
	Save(username string) error
	Remove() error
}

// Listener is notified with the new session after every change.
type Listener func(models.Session)

// Store holds at most one identity.
type Store struct {
	mu        sync.Mutex
	backend   Backend
	current   models.Session
	listeners map[int]Listener
	nextID    int
	logger    *log.Logger
}

// New creates a Store seeded from the backend.
func New(backend Backend, logger *log.Logger) (*Store, error) {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	username, ok, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	s := &Store{
		backend:   backend,
		listeners: make(map[int]Listener),
		logger:    shared.WithLogger(logger, "component", "session"),
	}
	if ok {
		s.current = models.Session{Username: username}
	}
	return s, nil
}

// Get returns the current username, with ok=false when signed out.
func (s *Store) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Username, s.current.Active()
}

// Current returns the current session value.
func (s *Store) Current() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set records username as the signed-in user. A blank username is rejected; use [Store.Clear].
func (s *Store) Set(username string) error {
	if shared.IsBlank(username) {
		return fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
	}
	return s.update(models.Session{Username: username}, func() error { return s.backend.Save(username) })
}

// Clear signs the user out and removes the durable slot.
func (s *Store) Clear() error {
	return s.update(models.Session{}, s.backend.Remove)
}

// update writes through the backend, then memory, then notifies listeners. Listeners run with the lock held and
// must not call back into the store.
func (s *Store) update(next models.Session, persist func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := persist(); err != nil {
		s.logger.Error("session write failed", "error", err)
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.current = next
	s.logger.Debug("session changed", "active", next.Active(), "username", next.Username)

	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			fn(next)
		}
	}
	return nil
}

// Subscribe registers fn for change notifications in registration order. The returned func unsubscribes.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}
