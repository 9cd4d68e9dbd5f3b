package entity

import "resolver/internal/domain"

// Merge combines a cached collection with freshly fetched records. Records in
// fresh replace existing ones with the same value in idField; the rest of
// existing keeps its order ahead of fresh. Neither input is modified.
func Merge(existing, fresh []domain.Record, idField string) []domain.Record {
	ids := make(map[string]struct{}, len(fresh))
	for _, r := range fresh {
		if id := r.String(idField); id != "" {
			ids[id] = struct{}{}
		}
	}
	out := make([]domain.Record, 0, len(existing)+len(fresh))
	for _, r := range existing {
		if r == nil {
			continue
		}
		if _, replaced := ids[r.String(idField)]; replaced {
			continue
		}
		out = append(out, r)
	}
	for _, r := range fresh {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
