// Package journal provides mood journal entries with optional AI
// reflections.
package journal

import (
	"errors"
	"time"

	"github.com/alessandro-lagamba/yachai-server/internal/insight"
)

// Predefined errors for journal operations.
var (
	// ErrEntryNotFound is returned when a journal entry does not exist
	// or belongs to another user.
	ErrEntryNotFound = errors.New("journal entry not found")

	// ErrEmptyContent is returned when an entry has no content.
	ErrEmptyContent = errors.New("journal entry content is empty")

	// ErrContentTooLong is returned when an entry exceeds the content limit.
	ErrContentTooLong = errors.New("journal entry content too long")
)

// MaxContentLength bounds a single entry's content.
const MaxContentLength = 10000

// Entry is a stored journal entry.
type Entry struct {
	ID         string
	UserID     string
	Content    string
	Mood       *float64 // self-reported, 0-100
	Reflection *insight.Reflection
	CreatedAt  time.Time
}

// ListOptions bounds entry listing.
type ListOptions struct {
	Before time.Time // only entries created before this instant
	Limit  int
}
