package repositories

import "errors"

// SessionKey is the settings key holding the signed-in username.
const SessionKey = "username"

// SessionSlot stores the session username in a single settings row.
//
// It satisfies session.Backend.
type SessionSlot struct {
	repo *SettingsRepository
	key  string
}

// NewSessionSlot creates a [SessionSlot] over [SessionKey].
func NewSessionSlot(repo *SettingsRepository) *SessionSlot {
	return &SessionSlot{repo: repo, key: SessionKey}
}

func (s *SessionSlot) Load() (string, bool, error) {
	setting, err := s.repo.Get(s.key)
	if errors.Is(err, ErrSettingNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, setting.Value != "", nil
}

func (s *SessionSlot) Save(username string) error {
	return s.repo.Put(s.key, username)
}

func (s *SessionSlot) Remove() error {
	return s.repo.Delete(s.key)
}
