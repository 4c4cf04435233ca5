// Package cli is the interactive front-end of the note vault: a small REPL
// that drives the account directory, session store, and note collection the
// way the mobile screens drove them.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"notevault/internal/accounts"
	"notevault/internal/config"
	"notevault/internal/kvstore"
	"notevault/internal/logging"
	"notevault/internal/models"
	"notevault/internal/notes"
	"notevault/internal/session"
)

// App wires configuration, storage, and services together and holds the
// explicit session state for the lifetime of the process. There is no global
// "current user"; whoever needs the session gets it from here.
type App struct {
	config    *config.Config
	log       logging.Logger
	db        *sql.DB
	directory *accounts.Directory
	sessions  *session.Manager
	notes     *notes.Service
	session   *models.Session
	reader    *bufio.Reader
}

// NewApp opens the local database and constructs the application. The
// persisted session (if any) is restored so a relaunch stays logged in.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	db, err := kvstore.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store := kvstore.NewSQLiteStore(db)
	app := newAppWithStore(cfg, store, log)
	app.db = db

	if err := app.restoreSession(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

// newAppWithStore builds an App over an arbitrary store. Used directly by
// tests with an in-memory store.
func newAppWithStore(cfg *config.Config, store kvstore.Store, log logging.Logger) *App {
	directory := accounts.NewDirectory(store, log)
	return &App{
		config:    cfg,
		log:       log,
		directory: directory,
		sessions:  session.NewManager(store, directory, log),
		notes:     notes.NewService(store, log),
		reader:    bufio.NewReader(os.Stdin),
	}
}

func (a *App) restoreSession(ctx context.Context) error {
	s, err := a.sessions.Current(ctx)
	if err != nil {
		return err
	}
	a.session = s
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

// status renders the prompt fragment: the logged-in email or "logged out".
func (a *App) status() string {
	if a.session == nil {
		return "logged out"
	}
	return a.session.Email
}

// Run starts the REPL on stdin and blocks until the user exits or input ends.
// The loop shares a.reader with the command handlers so buffered input is
// never split between two readers.
func (a *App) Run(ctx context.Context) {
	fmt.Println("Note vault (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

// Close releases the database handle.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
