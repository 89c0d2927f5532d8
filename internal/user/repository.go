package user

import (
	"context"
	"errors"
	"sync"

	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
)

// Repository errors.
var (
	ErrUserNotFound = errors.New("user not found")
)

// Repository defines the interface for user data persistence.
type Repository interface {
	// Get retrieves a user by ID.
	Get(ctx context.Context, id string) (*User, error)

	// GetByExternalSubject retrieves a user by identity provider subject.
	GetByExternalSubject(ctx context.Context, subject string) (*User, error)

	// List returns all user IDs, for batch jobs.
	List(ctx context.Context) ([]string, error)

	// Create creates a new user.
	Create(ctx context.Context, u *User) error

	// Update updates an existing user.
	Update(ctx context.Context, u *User) error

	// Delete deletes a user and all associated data.
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory implementation of Repository used in
// tests and local development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewInMemoryRepository creates a new in-memory user repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

// Get retrieves a user by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetByExternalSubject retrieves a user by identity provider subject.
func (r *InMemoryRepository) GetByExternalSubject(_ context.Context, subject string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ExternalSubject == subject {
			return copyUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

// List returns all user IDs.
func (r *InMemoryRepository) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids, nil
}

// Create creates a new user.
func (r *InMemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[u.ID] = copyUser(u)
	return nil
}

// Update updates an existing user.
func (r *InMemoryRepository) Update(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	r.users[u.ID] = copyUser(u)
	return nil
}

// Delete deletes a user.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

// copyUser creates a deep copy so callers cannot mutate stored state.
func copyUser(u *User) *User {
	if u == nil {
		return nil
	}

	out := &User{
		ID:              u.ID,
		ExternalSubject: u.ExternalSubject,
		Locale:          u.Locale,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}

	if u.Profile != nil {
		p := *u.Profile
		if u.Profile.Age != nil {
			age := *u.Profile.Age
			p.Age = &age
		}
		if u.Profile.DailyCalorieTarget != nil {
			target := *u.Profile.DailyCalorieTarget
			p.DailyCalorieTarget = &target
		}
		p.MedicalConditions = append([]personalization.Condition(nil), u.Profile.MedicalConditions...)
		p.Lifestyle = append([]string(nil), u.Profile.Lifestyle...)
		p.Goals = append([]string(nil), u.Profile.Goals...)
		out.Profile = &p
	}

	if u.Consents != nil {
		c := *u.Consents
		out.Consents = &c
	}

	return out
}
