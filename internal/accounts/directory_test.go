package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notevault/internal/common"
	"notevault/internal/kvstore"
	"notevault/internal/logging"
	"notevault/internal/models"
)

func newDirectory(t *testing.T) (*Directory, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	return NewDirectory(store, logging.NewTextLogger(io.Discard, "error")), store
}

func storedUsers(t *testing.T, store kvstore.Store) []models.Account {
	t.Helper()
	raw, err := store.Get(context.Background(), UsersKey)
	require.NoError(t, err)
	if raw == nil {
		return nil
	}
	var users []models.Account
	require.NoError(t, json.Unmarshal(raw, &users))
	return users
}

func TestRegister_AppendsAccount(t *testing.T) {
	d, store := newDirectory(t)
	ctx := context.Background()

	require.NoError(t, d.Register(ctx, "ann@example.com", "ann", "password1"))

	users := storedUsers(t, store)
	require.Len(t, users, 1)
	assert.Equal(t, models.Account{Email: "ann@example.com", Username: "ann", Password: "password1"}, users[0])
}

func TestRegister_DuplicateEmailLeavesDirectoryUnchanged(t *testing.T) {
	d, store := newDirectory(t)
	ctx := context.Background()

	require.NoError(t, d.Register(ctx, "ann@example.com", "ann", "password1"))
	before := storedUsers(t, store)

	err := d.Register(ctx, "ann@example.com", "other", "password2")
	require.ErrorIs(t, err, common.ErrEmailAlreadyTaken)

	assert.Equal(t, before, storedUsers(t, store))
}

func TestRegister_Validation(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()

	tests := []struct {
		name                      string
		email, username, password string
	}{
		{"empty email", "", "ann", "password1"},
		{"blank email", "   ", "ann", "password1"},
		{"empty username", "a@b.c", "", "password1"},
		{"short password", "a@b.c", "ann", "1234567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.Register(ctx, tt.email, tt.username, tt.password)
			assert.True(t, common.IsValidation(err), "want ValidationError, got %v", err)
		})
	}
}

func TestFindByEmail(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()

	require.NoError(t, d.Register(ctx, "ann@example.com", "ann", "password1"))

	u, err := d.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ann", u.Username)

	_, err = d.FindByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAuthenticate(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()

	require.NoError(t, d.Register(ctx, "ann@example.com", "ann", "password1"))

	u, err := d.Authenticate(ctx, "ann@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)

	_, err = d.Authenticate(ctx, "ann@example.com", "wrong-password")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = d.Authenticate(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestUpdateUsername(t *testing.T) {
	d, store := newDirectory(t)
	ctx := context.Background()

	require.NoError(t, d.Register(ctx, "ann@example.com", "ann", "password1"))

	require.NoError(t, d.UpdateUsername(ctx, "ann@example.com", "  annie  "))
	users := storedUsers(t, store)
	assert.Equal(t, "annie", users[0].Username)

	err := d.UpdateUsername(ctx, "ann@example.com", "   ")
	assert.True(t, common.IsValidation(err))

	err = d.UpdateUsername(ctx, "ghost@example.com", "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdatePassword(t *testing.T) {
	d, store := newDirectory(t)
	ctx := context.Background()

	require.NoError(t, d.Register(ctx, "ann@example.com", "ann", "password1"))

	t.Run("wrong current password", func(t *testing.T) {
		err := d.UpdatePassword(ctx, "ann@example.com", "nope", "password2")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	})

	t.Run("short new password", func(t *testing.T) {
		err := d.UpdatePassword(ctx, "ann@example.com", "password1", "short")
		assert.True(t, common.IsValidation(err))
	})

	t.Run("unknown account", func(t *testing.T) {
		err := d.UpdatePassword(ctx, "ghost@example.com", "password1", "password2")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("success replaces in place", func(t *testing.T) {
		require.NoError(t, d.UpdatePassword(ctx, "ann@example.com", "password1", "password2"))
		users := storedUsers(t, store)
		require.Len(t, users, 1)
		assert.Equal(t, "password2", users[0].Password)
	})
}

func TestLoadAll_MalformedDirectoryDegradesToEmpty(t *testing.T) {
	d, store := newDirectory(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, UsersKey, []byte(`{not json`)))

	// registration still works: the corrupt blob is replaced wholesale
	require.NoError(t, d.Register(ctx, "ann@example.com", "ann", "password1"))
	assert.Len(t, storedUsers(t, store), 1)
}

type failingStore struct{ err error }

func (f *failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f *failingStore) Set(context.Context, string, []byte) error   { return f.err }
func (f *failingStore) Remove(context.Context, string) error        { return f.err }

func TestRegister_StorageFailureIsWrapped(t *testing.T) {
	boom := errors.New("disk gone")
	d := NewDirectory(&failingStore{err: boom}, logging.NewTextLogger(io.Discard, "error"))

	err := d.Register(context.Background(), "a@b.c", "ann", "password1")
	assert.ErrorIs(t, err, boom)
}
