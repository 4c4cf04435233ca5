// Package session manages the locally cached "currently logged in" identity,
// stored as a single JSON object under the "currentUser" key.
//
// The session is a reduced projection of an account (email and username, no
// password). It is created on successful login, removed on logout, and
// force-cleared after a password change. Its email is not re-validated
// against the account directory after creation, so a session can outlive
// later changes to its account; callers that care must re-check.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"notevault/internal/accounts"
	"notevault/internal/kvstore"
	"notevault/internal/logging"
	"notevault/internal/models"
)

// CurrentUserKey is the storage key holding the session record.
const CurrentUserKey = "currentUser"

// Manager persists and retrieves the current session.
type Manager struct {
	store     kvstore.Store
	directory *accounts.Directory
	log       logging.Logger
}

// NewManager builds a Manager over the given store and account directory.
func NewManager(store kvstore.Store, directory *accounts.Directory, log logging.Logger) *Manager {
	return &Manager{store: store, directory: directory, log: log.With("component", "session")}
}

// Login authenticates against the account directory and persists the reduced
// session record. Fails with common.ErrInvalidCredentials when no account
// matches the exact (email, password) pair.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.Session, error) {
	account, err := m.directory.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s := &models.Session{Email: account.Email, Username: account.Username}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := m.store.Set(ctx, CurrentUserKey, raw); err != nil {
		return nil, fmt.Errorf("failed to write session: %w", err)
	}
	return s, nil
}

// Logout removes the session record. Idempotent: logging out while logged
// out is not an error.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Remove(ctx, CurrentUserKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns the persisted session, or nil when logged out. A malformed
// record is logged and treated as logged out.
func (m *Manager) Current(ctx context.Context) (*models.Session, error) {
	raw, err := m.store.Get(ctx, CurrentUserKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		m.log.Warn(ctx, "session record is malformed, treating as logged out", "error", err)
		return nil, nil
	}
	return &s, nil
}

// Refresh rewrites the session record after its account changed (e.g. a
// username update), keeping the projection in step with the directory.
func (m *Manager) Refresh(ctx context.Context, account *models.Account) (*models.Session, error) {
	s := &models.Session{Email: account.Email, Username: account.Username}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := m.store.Set(ctx, CurrentUserKey, raw); err != nil {
		return nil, fmt.Errorf("failed to write session: %w", err)
	}
	return s, nil
}
