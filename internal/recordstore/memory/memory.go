package memory

import (
	"context"
	"fmt"
	"sync"

	"resolver/internal/domain"
	"resolver/internal/recordstore"
)

// Storage is an in-memory record store. Snapshots are copied on the way in
// and out so callers never share a slice with the store.
type Storage struct {
	mu      sync.RWMutex
	records map[domain.EntityType][]domain.Record
}

func NewStorage() *Storage {
	return &Storage{records: make(map[domain.EntityType][]domain.Record)}
}

func (s *Storage) Records(_ context.Context, t domain.EntityType) ([]domain.Record, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: entity type %q", recordstore.ErrInvalidInput, t)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.records[t]
	if len(recs) == 0 {
		return nil, nil
	}
	return append([]domain.Record(nil), recs...), nil
}

func (s *Storage) Replace(_ context.Context, t domain.EntityType, recs []domain.Record) error {
	if !t.Valid() {
		return fmt.Errorf("%w: entity type %q", recordstore.ErrInvalidInput, t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(recs) == 0 {
		delete(s.records, t)
		return nil
	}
	s.records[t] = append([]domain.Record(nil), recs...)
	return nil
}

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[domain.EntityType][]domain.Record)
	return nil
}
