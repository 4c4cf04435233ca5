package models

import "time"

// Category classifies a note.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryStudy    Category = "study"
	CategoryPersonal Category = "personal"
	CategoryFinance  Category = "finance"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
	CategoryOther    Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryWork,
	CategoryStudy,
	CategoryPersonal,
	CategoryFinance,
	CategoryHealth,
	CategoryLearning,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Note is a single note record, stored as an element of the JSON array under
// the "notes:<email>" key of its owner.
//
// CreatedAt and EditedAt marshal as RFC 3339 strings (time.Time default).
// EditedAt stays null until the first update. Title is null for untitled
// notes; Content is required.
type Note struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     *string    `json:"title"`
	Content   string     `json:"content"`
	Category  Category   `json:"category"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at"`
}

// TitleText returns the title, or "" for an untitled note.
func (n Note) TitleText() string {
	if n.Title == nil {
		return ""
	}
	return *n.Title
}
