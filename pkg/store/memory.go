package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	errs "github.com/matzehuels/brickfall/pkg/errors"
	"github.com/matzehuels/brickfall/pkg/report"
)

// MemoryStore keeps reports in a map. Reports are immutable once saved.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*report.Report
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]*report.Report)}
}

func (s *MemoryStore) Save(ctx context.Context, r *report.Report) error {
	if err := checkSave(r); err != nil {
		return err
	}
	c := *r
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = &c
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*report.Report, error) {
	if err := errs.ValidateReportID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, notFound(id)
	}
	c := *r
	return &c, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	entries := make([]Entry, 0, len(s.reports))
	for _, r := range s.reports {
		entries = append(entries, EntryOf(r))
	}
	s.mu.RUnlock()

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if n := listLimit(limit); len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
