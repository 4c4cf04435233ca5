package cli

import (
	"context"
	"os"
)

// Profile changes the username of the logged-in account and keeps the
// session projection in step with the directory.
func (a *App) Profile(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter new username", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.directory.UpdateUsername(ctx, a.session.Email, username); err != nil {
		printlnFn(errorMessage(err))
		return err
	}

	account, err := a.directory.FindByEmail(ctx, a.session.Email)
	if err != nil {
		printlnFn(errorMessage(err))
		return err
	}

	s, err := a.sessions.Refresh(ctx, account)
	if err != nil {
		printlnFn(errorMessage(err))
		return err
	}
	a.session = s

	printlnFn("Profile updated.")
	return nil
}

// Password changes the logged-in account's password after verifying the
// current one, then force-clears the session so the user must log in again
// with the new credential.
func (a *App) Password(ctx context.Context) error {
	current, err := getPassword("Enter current password", os.Stdout)
	if err != nil {
		return err
	}
	next, err := getPassword("Enter new password", os.Stdout)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm new password", os.Stdout)
	if err != nil {
		return err
	}

	if next != confirm {
		printlnFn("Passwords do not match.")
		return nil
	}

	if err := a.directory.UpdatePassword(ctx, a.session.Email, current, next); err != nil {
		printlnFn(errorMessage(err))
		return err
	}

	// the cached credential is stale now, force a fresh login
	if err := a.sessions.Logout(ctx); err != nil {
		printlnFn(errorMessage(err))
		return err
	}
	a.session = nil

	printlnFn("Password changed, please log in again.")
	return nil
}
