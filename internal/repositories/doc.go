// Package repositories implements SQLite persistence for client-local state.
//
// The review service owns all catalogue data, so the only thing stored locally is a small set of
// key/value settings. The session username is one of those keys.
//
// Key Implementations:
//   - [SettingsRepository] : key/value rows in the settings table with upsert semantics
//   - [SessionSlot] : adapts one settings key to the session store's durable backend
package repositories
