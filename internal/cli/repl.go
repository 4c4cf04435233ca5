package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Password(ctx context.Context) error
	AddNote(ctx context.Context) error
	ListNotes(ctx context.Context, oldestFirst bool) error
	Search(ctx context.Context) error
	Show(ctx context.Context) error
	EditNote(ctx context.Context) error
	DeleteNote(ctx context.Context) error
}

// runREPL starts a read–eval–print loop over the vault commands.
//
// It reads a line from the provided reader, parses the first token as the
// command, and dispatches to methods on 'a'. The reader is the same buffer
// the command handlers prompt through, so lines typed (or piped) ahead of a
// prompt are seen by the handler and not swallowed here. Unknown commands
// are reported back to the user. The loop exits on reader EOF or when the
// user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - add            — create a note
//	  - list [asc]     — list notes, newest first (oldest first with "asc")
//	  - search         — filter notes by category and/or text
//	  - show           — show a single note (interactive ID prompt)
//	  - edit           — edit a note
//	  - delete         — delete a note
//	  - profile        — change the username
//	  - password       — change the password (forces re-login)
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own failures. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("vault> %s > ", statusFn()))
		line, readErr := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: add, (l)ist [asc], search, show, edit, delete, profile, password, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "password":
			_ = a.Password(ctx)

		case "add":
			_ = a.AddNote(ctx)

		case "l", "list":
			oldestFirst := len(args) > 0 && args[0] == "asc"
			_ = a.ListNotes(ctx, oldestFirst)

		case "search":
			_ = a.Search(ctx)

		case "show":
			_ = a.Show(ctx)

		case "edit":
			_ = a.EditNote(ctx)

		case "delete":
			_ = a.DeleteNote(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
