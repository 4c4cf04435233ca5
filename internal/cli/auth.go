package cli

import (
	"context"
	"errors"
	"os"

	"notevault/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// errorMessage maps service errors to the dismissible one-liners the user
// sees. Validation and credential errors carry their own text; anything else
// (storage failures included) collapses to a generic message — the detail
// has already been logged where it happened.
func errorMessage(err error) string {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason + " (" + ve.Field + ")"
	}
	switch {
	case errors.Is(err, common.ErrEmailAlreadyTaken),
		errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrNotFound):
		return err.Error()
	default:
		return "operation failed, please try again"
	}
}

// Register prompts for the new account's fields and creates it in the
// directory. Registration does not log the user in; a login follows.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.directory.Register(ctx, email, username, password); err != nil {
		printlnFn(errorMessage(err))
		return err
	}

	printlnFn("Account created, you can log in now.")
	return nil
}

// Login prompts for credentials, authenticates against the directory, and on
// success holds the persisted session for the rest of the run.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	s, err := a.sessions.Login(ctx, email, password)
	if err != nil {
		printlnFn(errorMessage(err))
		return err
	}

	a.session = s
	printlnFn("Welcome, " + s.Username + "!")
	return nil
}

// Logout clears the persisted session and the in-memory copy.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Logout(ctx); err != nil {
		printlnFn(errorMessage(err))
		return err
	}
	a.session = nil
	printlnFn("Logged out.")
	return nil
}
