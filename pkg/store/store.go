package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/standardmorph/standardmorph/pkg/observability"
	"github.com/standardmorph/standardmorph/pkg/report"
)

// ErrNotFound is returned when no report exists for the requested ID.
var ErrNotFound = errors.New("report not found")

// Store persists standardization reports keyed by report ID.
type Store interface {
	Put(ctx context.Context, r report.Report) error
	Get(ctx context.Context, id string) (report.Report, error)

	// List returns reports newest first, at most limit entries. A zero
	// limit returns everything.
	List(ctx context.Context, limit int) ([]report.Report, error)

	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// MemoryStore is an in-process store guarded by a mutex.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]report.Report
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]report.Report)}
}

func (s *MemoryStore) Put(ctx context.Context, r report.Report) error {
	start := time.Now()
	if r.ID == "" {
		err := errors.New("report has no ID")
		observability.Store().OnPut(ctx, r.ID, time.Since(start), err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
	observability.Store().OnPut(ctx, r.ID, time.Since(start), nil)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (report.Report, error) {
	start := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		observability.Store().OnGet(ctx, id, time.Since(start), ErrNotFound)
		return report.Report{}, ErrNotFound
	}
	observability.Store().OnGet(ctx, id, time.Since(start), nil)
	return r, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]report.Report, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return ErrNotFound
	}
	delete(s.reports, id)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
