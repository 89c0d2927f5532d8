package tracking

import (
	"context"
	"sort"
	"sync"
)

// Repository defines the interface for sample and baseline persistence.
type Repository interface {
	// Insert stores a new sample.
	Insert(ctx context.Context, s *Sample) error

	// List returns a user's samples for a metric, newest first.
	List(ctx context.Context, userID, metric string, opts ListOptions) ([]*Sample, error)

	// Delete removes one sample owned by the user.
	Delete(ctx context.Context, userID, sampleID string) error

	// UpsertBaseline stores or replaces a baseline snapshot.
	UpsertBaseline(ctx context.Context, b *Baseline) error

	// GetBaseline retrieves a user's baseline for a metric, or
	// ErrSampleNotFound when none has been computed yet.
	GetBaseline(ctx context.Context, userID, metric string) (*Baseline, error)
}

// InMemoryRepository is an in-memory implementation of Repository used in
// tests and local development.
type InMemoryRepository struct {
	mu        sync.RWMutex
	samples   map[string]*Sample            // sample ID -> sample
	baselines map[string]map[string]*Baseline // user ID -> metric -> baseline
}

// NewInMemoryRepository creates a new in-memory tracking repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		samples:   make(map[string]*Sample),
		baselines: make(map[string]map[string]*Baseline),
	}
}

// Insert stores a new sample.
func (r *InMemoryRepository) Insert(_ context.Context, s *Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *s
	r.samples[s.ID] = &cp
	return nil
}

// List returns a user's samples for a metric, newest first.
func (r *InMemoryRepository) List(_ context.Context, userID, metric string, opts ListOptions) ([]*Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Sample
	for _, s := range r.samples {
		if s.UserID != userID || s.Metric != metric {
			continue
		}
		if !opts.Since.IsZero() && s.RecordedAt.Before(opts.Since) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Delete removes one sample owned by the user.
func (r *InMemoryRepository) Delete(_ context.Context, userID, sampleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.samples[sampleID]
	if !ok || s.UserID != userID {
		return ErrSampleNotFound
	}
	delete(r.samples, sampleID)
	return nil
}

// UpsertBaseline stores or replaces a baseline snapshot.
func (r *InMemoryRepository) UpsertBaseline(_ context.Context, b *Baseline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byMetric, ok := r.baselines[b.UserID]
	if !ok {
		byMetric = make(map[string]*Baseline)
		r.baselines[b.UserID] = byMetric
	}
	cp := *b
	byMetric[b.Metric] = &cp
	return nil
}

// GetBaseline retrieves a user's baseline for a metric.
func (r *InMemoryRepository) GetBaseline(_ context.Context, userID, metric string) (*Baseline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b, ok := r.baselines[userID][metric]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, ErrSampleNotFound
}
