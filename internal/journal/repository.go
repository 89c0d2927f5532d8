package journal

import (
	"context"
	"sort"
	"sync"

	"github.com/alessandro-lagamba/yachai-server/internal/insight"
)

// Repository defines the interface for journal entry persistence.
type Repository interface {
	// Insert stores a new entry.
	Insert(ctx context.Context, e *Entry) error

	// Get retrieves one of the user's entries.
	Get(ctx context.Context, userID, entryID string) (*Entry, error)

	// List returns the user's entries, newest first.
	List(ctx context.Context, userID string, opts ListOptions) ([]*Entry, error)

	// SetReflection attaches an AI reflection to a stored entry.
	SetReflection(ctx context.Context, userID, entryID string, r *insight.Reflection) error

	// Delete removes one of the user's entries.
	Delete(ctx context.Context, userID, entryID string) error
}

// InMemoryRepository is an in-memory implementation of Repository used in
// tests and local development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewInMemoryRepository creates a new in-memory journal repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{entries: make(map[string]*Entry)}
}

// Insert stores a new entry.
func (r *InMemoryRepository) Insert(_ context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[e.ID] = copyEntry(e)
	return nil
}

// Get retrieves one of the user's entries.
func (r *InMemoryRepository) Get(_ context.Context, userID, entryID string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[entryID]
	if !ok || e.UserID != userID {
		return nil, ErrEntryNotFound
	}
	return copyEntry(e), nil
}

// List returns the user's entries, newest first.
func (r *InMemoryRepository) List(_ context.Context, userID string, opts ListOptions) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Entry
	for _, e := range r.entries {
		if e.UserID != userID {
			continue
		}
		if !opts.Before.IsZero() && !e.CreatedAt.Before(opts.Before) {
			continue
		}
		out = append(out, copyEntry(e))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// SetReflection attaches an AI reflection to a stored entry.
func (r *InMemoryRepository) SetReflection(_ context.Context, userID, entryID string, reflection *insight.Reflection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[entryID]
	if !ok || e.UserID != userID {
		return ErrEntryNotFound
	}
	cp := *reflection
	e.Reflection = &cp
	return nil
}

// Delete removes one of the user's entries.
func (r *InMemoryRepository) Delete(_ context.Context, userID, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[entryID]
	if !ok || e.UserID != userID {
		return ErrEntryNotFound
	}
	delete(r.entries, entryID)
	return nil
}

func copyEntry(e *Entry) *Entry {
	cp := *e
	if e.Mood != nil {
		mood := *e.Mood
		cp.Mood = &mood
	}
	if e.Reflection != nil {
		reflection := *e.Reflection
		cp.Reflection = &reflection
	}
	return &cp
}

var _ Repository = (*InMemoryRepository)(nil)
