// Package accounts manages the account directory: the full list of
// registered accounts stored as one JSON array under the "users" key.
//
// Lookups, uniqueness checks, and updates are linear scans over the
// deserialized list; every mutation rewrites the whole array. Passwords are
// stored and compared in plain text — a known insecurity kept deliberately
// for compatibility with the existing on-device storage format.
package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"notevault/internal/common"
	"notevault/internal/kvstore"
	"notevault/internal/logging"
	"notevault/internal/models"
)

// UsersKey is the storage key holding the JSON array of accounts.
const UsersKey = "users"

// MinPasswordLen is the minimum accepted password length on registration and
// password change.
const MinPasswordLen = 8

// Directory is the single source of truth for registered accounts.
type Directory struct {
	store kvstore.Store
	log   logging.Logger
}

// NewDirectory builds a Directory over the given store.
func NewDirectory(store kvstore.Store, log logging.Logger) *Directory {
	return &Directory{store: store, log: log.With("component", "accounts")}
}

// Register validates the input and appends a new account, failing with
// common.ErrEmailAlreadyTaken when an account with the same email exists.
func (d *Directory) Register(ctx context.Context, email, username, password string) error {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if email == "" {
		return common.NewValidationError("email", "is required")
	}
	if username == "" {
		return common.NewValidationError("username", "is required")
	}
	if len(password) < MinPasswordLen {
		return common.NewValidationError("password",
			fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}

	users, err := d.loadAll(ctx)
	if err != nil {
		return err
	}

	for _, u := range users {
		if u.Email == email {
			return common.ErrEmailAlreadyTaken
		}
	}

	users = append(users, models.Account{Email: email, Username: username, Password: password})
	return d.saveAll(ctx, users)
}

// FindByEmail returns the account registered under email, or
// common.ErrNotFound.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	users, err := d.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Email == email {
			u := users[i]
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

// Authenticate scans for an exact (email, password) match and returns the
// matching account, or common.ErrInvalidCredentials.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	users, err := d.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Email == email && users[i].Password == password {
			u := users[i]
			return &u, nil
		}
	}
	return nil, common.ErrInvalidCredentials
}

// UpdateUsername replaces the username of the account registered under email.
func (d *Directory) UpdateUsername(ctx context.Context, email, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return common.NewValidationError("username", "cannot be empty")
	}

	users, err := d.loadAll(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].Email == email {
			users[i].Username = username
			return d.saveAll(ctx, users)
		}
	}
	return common.ErrNotFound
}

// UpdatePassword verifies the current password and replaces it with next.
// Fails with common.ErrNotFound when the account is missing and with
// common.ErrInvalidCredentials when current does not match.
func (d *Directory) UpdatePassword(ctx context.Context, email, current, next string) error {
	if len(next) < MinPasswordLen {
		return common.NewValidationError("password",
			fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}

	users, err := d.loadAll(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].Email == email {
			if users[i].Password != current {
				return common.ErrInvalidCredentials
			}
			users[i].Password = next
			return d.saveAll(ctx, users)
		}
	}
	return common.ErrNotFound
}

// loadAll reads and deserializes the directory. An absent key yields an empty
// list; malformed JSON is logged and also degrades to an empty list so a
// corrupt read never poisons a later write.
func (d *Directory) loadAll(ctx context.Context) ([]models.Account, error) {
	raw, err := d.store.Get(ctx, UsersKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read account directory: %w", err)
	}
	if raw == nil {
		return []models.Account{}, nil
	}

	var users []models.Account
	if err := json.Unmarshal(raw, &users); err != nil {
		d.log.Warn(ctx, "account directory is malformed, treating as empty", "error", err)
		return []models.Account{}, nil
	}
	return users, nil
}

func (d *Directory) saveAll(ctx context.Context, users []models.Account) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to serialize account directory: %w", err)
	}
	if err := d.store.Set(ctx, UsersKey, raw); err != nil {
		return fmt.Errorf("failed to write account directory: %w", err)
	}
	return nil
}
