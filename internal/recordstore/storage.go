// Package recordstore holds the cached record snapshots the launcher
// resolves queries against.
package recordstore

import (
	"context"
	"errors"
	"fmt"

	"resolver/internal/domain"
)

// ErrInvalidInput is returned for records or entity types a store cannot hold.
var ErrInvalidInput = errors.New("recordstore: invalid input")

// Storage persists record snapshots per entity type.
type Storage = domain.RecordStore

// Snapshot reads every entity type from s. Types with nothing cached map to nil.
func Snapshot(ctx context.Context, s Storage) (map[domain.EntityType][]domain.Record, error) {
	out := make(map[domain.EntityType][]domain.Record, len(domain.EntityTypes))
	for _, t := range domain.EntityTypes {
		recs, err := s.Records(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("load %s records: %w", t, err)
		}
		out[t] = recs
	}
	return out, nil
}
