// Package notes implements the per-account note collection: one JSON array
// per owner under the "notes:<email>" key.
//
// Listing, filtering, and updates are linear scans over the materialized
// list; each mutation is a single read-modify-write pass with no versioning
// (see the kvstore package doc for the lost-update caveat). Cross-account
// access is structurally impossible: a caller only ever touches its own key.
package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"notevault/internal/common"
	"notevault/internal/kvstore"
	"notevault/internal/logging"
	"notevault/internal/models"
)

const (
	// MaxTitleLen is the longest accepted note title, in characters.
	MaxTitleLen = 200
	// MaxContentLen is the longest accepted note body, in characters.
	MaxContentLen = 10000
)

// Order selects the sort direction for listings (by creation time).
type Order int

const (
	// OrderNewestFirst sorts by created_at descending (the default).
	OrderNewestFirst Order = iota
	// OrderOldestFirst sorts by created_at ascending.
	OrderOldestFirst
)

// Patch carries the fields of an update; nil fields are left unchanged.
type Patch struct {
	Title    *string
	Content  *string
	Category *models.Category
}

// now is a test seam for timestamping.
var now = time.Now

// Service manages one user's note collection per call.
type Service struct {
	store kvstore.Store
	log   logging.Logger
}

// NewService builds a Service over the given store.
func NewService(store kvstore.Store, log logging.Logger) *Service {
	return &Service{store: store, log: log.With("component", "notes")}
}

// Key returns the storage key of userID's note collection.
func Key(userID string) string {
	return "notes:" + userID
}

// List returns the user's full collection in the requested order.
func (s *Service) List(ctx context.Context, userID string, order Order) ([]models.Note, error) {
	list, err := s.loadAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortNotes(list, order)
	return list, nil
}

// Filter returns the subset of the user's notes matching category (exact,
// empty matches all) and search (case-insensitive substring over title or
// content, empty matches all), in the requested order.
func (s *Service) Filter(ctx context.Context, userID string, category models.Category, search string, order Order) ([]models.Note, error) {
	list, err := s.loadAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(search)
	filtered := make([]models.Note, 0, len(list))
	for _, n := range list {
		if category != "" && n.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(n.Content), query) &&
			!strings.Contains(strings.ToLower(n.TitleText()), query) {
			continue
		}
		filtered = append(filtered, n)
	}

	sortNotes(filtered, order)
	return filtered, nil
}

// Create validates the input, appends a new note with a fresh UUID and a
// created_at stamp, and returns it. edited_at stays nil until the first
// update.
func (s *Service) Create(ctx context.Context, userID, title, content string, category models.Category) (*models.Note, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	n := models.Note{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     titlePtr(title),
		Content:   content,
		Category:  category,
		CreatedAt: now().UTC(),
	}

	list, err := s.loadAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	list = append(list, n)
	if err := s.saveAll(ctx, userID, list); err != nil {
		return nil, err
	}
	return &n, nil
}

// Update re-validates the patched fields, stamps edited_at, and replaces the
// matching note in place. Fails with common.ErrNotFound when id is absent
// from the user's collection.
func (s *Service) Update(ctx context.Context, userID, id string, patch Patch) (*models.Note, error) {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Content != nil {
		if err := validateContent(*patch.Content); err != nil {
			return nil, err
		}
	}
	if patch.Category != nil {
		if err := validateCategory(*patch.Category); err != nil {
			return nil, err
		}
	}

	list, err := s.loadAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if list[i].ID != id {
			continue
		}
		if patch.Title != nil {
			list[i].Title = titlePtr(*patch.Title)
		}
		if patch.Content != nil {
			list[i].Content = *patch.Content
		}
		if patch.Category != nil {
			list[i].Category = *patch.Category
		}
		edited := now().UTC()
		list[i].EditedAt = &edited

		if err := s.saveAll(ctx, userID, list); err != nil {
			return nil, err
		}
		updated := list[i]
		return &updated, nil
	}
	return nil, common.ErrNotFound
}

// Delete removes the note with the given id. Deleting an absent id is a
// silent no-op, which also makes Delete idempotent.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	list, err := s.loadAll(ctx, userID)
	if err != nil {
		return err
	}

	kept := list[:0]
	for _, n := range list {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(list) {
		return nil
	}
	return s.saveAll(ctx, userID, kept)
}

// Get returns a single note by id, or common.ErrNotFound.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Note, error) {
	list, err := s.loadAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			n := list[i]
			return &n, nil
		}
	}
	return nil, common.ErrNotFound
}

func sortNotes(list []models.Note, order Order) {
	sort.SliceStable(list, func(i, j int) bool {
		if order == OrderOldestFirst {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

// titlePtr maps the empty string to nil so untitled notes serialize with a
// null title, matching the stored format.
func titlePtr(title string) *string {
	if title == "" {
		return nil
	}
	return &title
}

func validateTitle(title string) error {
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return common.NewValidationError("title",
			fmt.Sprintf("must be at most %d characters", MaxTitleLen))
	}
	return nil
}

func validateContent(content string) error {
	if content == "" {
		return common.NewValidationError("content", "is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLen {
		return common.NewValidationError("content",
			fmt.Sprintf("must be at most %d characters", MaxContentLen))
	}
	return nil
}

func validateCategory(category models.Category) error {
	if !category.Valid() {
		return common.NewValidationError("category", "unknown category")
	}
	return nil
}

// loadAll reads and deserializes one user's collection. An absent key yields
// an empty list; malformed JSON is logged and degrades to an empty list.
func (s *Service) loadAll(ctx context.Context, userID string) ([]models.Note, error) {
	raw, err := s.store.Get(ctx, Key(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to read note collection: %w", err)
	}
	if raw == nil {
		return []models.Note{}, nil
	}

	var list []models.Note
	if err := json.Unmarshal(raw, &list); err != nil {
		s.log.Warn(ctx, "note collection is malformed, treating as empty",
			"user", userID, "error", err)
		return []models.Note{}, nil
	}
	return list, nil
}

func (s *Service) saveAll(ctx context.Context, userID string, list []models.Note) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to serialize note collection: %w", err)
	}
	if err := s.store.Set(ctx, Key(userID), raw); err != nil {
		return fmt.Errorf("failed to write note collection: %w", err)
	}
	return nil
}
