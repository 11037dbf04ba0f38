package session

import "sync"

// MemoryBackend keeps the session slot in process memory.
//
// Used by tests and by the --ephemeral flag.
type MemoryBackend struct {
	mu       sync.Mutex
	username string
	present  bool
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Load() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.username, m.present, nil
}

func (m *MemoryBackend) Save(username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.username, m.present = username, true
	return nil
}

func (m *MemoryBackend) Remove() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.username, m.present = "", false
	return nil
}

// Stored reports whether the slot currently holds a value.
func (m *MemoryBackend) Stored() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.present
}
