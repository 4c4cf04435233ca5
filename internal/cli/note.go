package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"notevault/internal/models"
	"notevault/internal/notes"
)

// getMultiline is an indirection over GetMultiline, swappable in tests.
var getMultiline = GetMultiline

// promptCategory asks for one of the known categories. Empty input selects
// "other", matching the form default.
func (a *App) promptCategory() (models.Category, error) {
	choices := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		choices = append(choices, string(c))
	}

	raw, err := getSimpleText(a.reader,
		"Enter category ("+strings.Join(choices, ", ")+")", os.Stdout)
	if err != nil {
		return "", err
	}
	if raw == "" {
		return models.CategoryOther, nil
	}
	return models.Category(strings.ToLower(raw)), nil
}

// AddNote collects title, category, and body, and creates the note.
func (a *App) AddNote(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title (optional)", os.Stdout)
	if err != nil {
		return err
	}
	category, err := a.promptCategory()
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Enter note text (double Enter to finish):", os.Stdout)
	if err != nil {
		return err
	}

	n, err := a.notes.Create(ctx, a.session.Email, title, content, category)
	if err != nil {
		printlnFn(errorMessage(err))
		return err
	}

	printlnFn("Created note " + n.ID)
	return nil
}

// ListNotes prints the whole collection, newest first unless oldestFirst.
func (a *App) ListNotes(ctx context.Context, oldestFirst bool) error {
	order := notes.OrderNewestFirst
	if oldestFirst {
		order = notes.OrderOldestFirst
	}

	list, err := a.notes.List(ctx, a.session.Email, order)
	if err != nil {
		printlnFn(errorMessage(err))
		return err
	}

	printNoteList(list)
	return nil
}

// Search prompts for an optional category and search text and prints the
// matching notes.
func (a *App) Search(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Enter category (empty for all)", os.Stdout)
	if err != nil {
		return err
	}
	category := models.Category(strings.ToLower(raw))
	if raw != "" && !category.Valid() {
		printlnFn("Unknown category: " + raw)
		return nil
	}

	search, err := getSimpleText(a.reader, "Enter search text (empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	list, err := a.notes.Filter(ctx, a.session.Email, category, search, notes.OrderNewestFirst)
	if err != nil {
		printlnFn(errorMessage(err))
		return err
	}

	printNoteList(list)
	return nil
}

// Show prints a single note in full, prompting for its ID.
func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter note id to show", os.Stdout)
	if err != nil {
		return err
	}

	n, err := a.notes.Get(ctx, a.session.Email, id)
	if err != nil {
		printlnFn(errorMessage(err))
		return err
	}

	title := n.TitleText()
	if title == "" {
		title = "(untitled)"
	}
	printlnFn(title + " [" + string(n.Category) + "]")
	printlnFn("created: " + n.CreatedAt.Format("2006-01-02 15:04"))
	if n.EditedAt != nil {
		printlnFn("edited:  " + n.EditedAt.Format("2006-01-02 15:04"))
	}
	printlnFn(n.Content)
	return nil
}

// EditNote prompts for an ID and replacement fields. Empty answers leave the
// corresponding field unchanged.
func (a *App) EditNote(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter note id to edit", os.Stdout)
	if err != nil {
		return err
	}

	var patch notes.Patch

	title, err := getSimpleText(a.reader, "Enter new title (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if title != "" {
		patch.Title = &title
	}

	raw, err := getSimpleText(a.reader, "Enter new category (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if raw != "" {
		category := models.Category(strings.ToLower(raw))
		patch.Category = &category
	}

	content, err := getMultiline(a.reader, "Enter new text (empty to keep, double Enter to finish):", os.Stdout)
	if err != nil {
		return err
	}
	if content != "" {
		patch.Content = &content
	}

	if _, err := a.notes.Update(ctx, a.session.Email, id, patch); err != nil {
		printlnFn(errorMessage(err))
		return err
	}

	printlnFn("Note updated.")
	return nil
}

// DeleteNote removes a note by ID. Deleting an unknown ID reports success,
// matching the collection's idempotent delete.
func (a *App) DeleteNote(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter note id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.notes.Delete(ctx, a.session.Email, id); err != nil {
		printlnFn(errorMessage(err))
		return err
	}

	printlnFn("Note deleted.")
	return nil
}

func printNoteList(list []models.Note) {
	if len(list) == 0 {
		printlnFn("No notes.")
		return
	}
	printlnFn(fmt.Sprintf("%d notes", len(list)))
	for _, n := range list {
		title := n.TitleText()
		if title == "" {
			title = "(untitled)"
		}
		line := fmt.Sprintf("%s  %s  [%s]  %s",
			n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.Category, title)
		if n.EditedAt != nil {
			line += " (edited)"
		}
		printlnFn(line)
	}
}
