package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"resolver/internal/domain"
	"resolver/internal/entity"
	"resolver/internal/recordstore"
)

// LauncherServiceImpl answers launcher queries from the cached records.
type LauncherServiceImpl struct {
	store    recordstore.Storage
	resolver domain.Resolver
	logger   *slog.Logger
}

func NewLauncherService(store recordstore.Storage, resolver domain.Resolver, logger *slog.Logger) *LauncherServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &LauncherServiceImpl{store: store, resolver: resolver, logger: logger}
}

// Query resolves query against a fresh snapshot of the store. When the alias,
// mailbox and domain caches are all empty it returns a single hint instead.
func (s *LauncherServiceImpl) Query(ctx context.Context, query string) ([]domain.Suggestion, error) {
	snap, err := recordstore.Snapshot(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if len(snap[domain.Alias]) == 0 && len(snap[domain.Mailbox]) == 0 && len(snap[domain.Domain]) == 0 {
		return []domain.Suggestion{emptyCacheHint}, nil
	}
	return s.resolver.Resolve(query, snap), nil
}

var emptyCacheHint = domain.Suggestion{
	DisplayName: "No aliases...",
	Subtitle:    "Please use resolver import to load your aliases, domains and mailboxes.",
	Icon:        "icons/note.png",
}

// ImportRecords loads JSON arrays of records from paths (globs allowed),
// classifies each record and merges it into the cached collection of its
// type. Records already cached with the same id are replaced. It returns a
// short summary of what was imported.
func (s *LauncherServiceImpl) ImportRecords(ctx context.Context, paths []string) (string, error) {
	fresh := make(map[domain.EntityType][]domain.Record)
	files := 0
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			recs, err := readRecords(m)
			if err != nil {
				return "", err
			}
			files++
			for _, r := range recs {
				if len(r) == 0 {
					continue
				}
				t := entity.Classify(r)
				fresh[t] = append(fresh[t], r)
			}
		}
	}
	if files == 0 {
		return "", fmt.Errorf("no record files found")
	}

	var parts []string
	for _, t := range domain.EntityTypes {
		if len(fresh[t]) == 0 {
			continue
		}
		existing, err := s.store.Records(ctx, t)
		if err != nil {
			return "", fmt.Errorf("load %s records: %w", t, err)
		}
		merged := entity.Merge(existing, fresh[t], entity.IDField(t))
		if err := s.store.Replace(ctx, t, merged); err != nil {
			return "", fmt.Errorf("store %s records: %w", t, err)
		}
		s.logger.Info("imported records", "type", t, "fresh", len(fresh[t]), "total", len(merged))
		parts = append(parts, fmt.Sprintf("%d %s", len(fresh[t]), plural(t, len(fresh[t]))))
	}
	if len(parts) == 0 {
		return "nothing to import", nil
	}
	return "imported " + strings.Join(parts, ", "), nil
}

// Describe explains an action token in words, e.g. "Toggle John Doe@example Com".
func (s *LauncherServiceImpl) Describe(ctx context.Context, token string) (string, error) {
	a, err := domain.ParseAction(token)
	if err != nil {
		return "", err
	}
	recs, err := s.store.Records(ctx, a.Type)
	if err != nil {
		return "", err
	}
	name := "Item"
	for _, r := range recs {
		if entity.ID(r, a.Type) == a.ID {
			name = entity.NotifyName(r)
			break
		}
	}
	out := cases.Title(language.English).String(a.Command) + " " + name
	if len(a.Params) > 0 {
		out += " (" + strings.Join(a.Params, " ") + ")"
	}
	return strings.TrimSpace(out), nil
}

// TypeStatus summarises the cached records of one type.
type TypeStatus struct {
	Type  domain.EntityType
	Count int
	// UpdatedAt is zero when the store does not track update times.
	UpdatedAt time.Time
}

type updateTimer interface {
	UpdatedAt(ctx context.Context, t domain.EntityType) (time.Time, error)
}

// Status reports how many records of each type are cached and, for stores
// that track it, when they were last imported.
func (s *LauncherServiceImpl) Status(ctx context.Context) ([]TypeStatus, error) {
	snap, err := recordstore.Snapshot(ctx, s.store)
	if err != nil {
		return nil, err
	}
	timer, _ := s.store.(updateTimer)
	out := make([]TypeStatus, 0, len(domain.EntityTypes))
	for _, t := range domain.EntityTypes {
		st := TypeStatus{Type: t, Count: len(snap[t])}
		if timer != nil {
			if st.UpdatedAt, err = timer.UpdatedAt(ctx, t); err != nil {
				return nil, err
			}
		}
		out = append(out, st)
	}
	return out, nil
}

func readRecords(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var recs []domain.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return recs, nil
}

func plural(t domain.EntityType, n int) string {
	if n == 1 {
		return string(t)
	}
	if t == domain.Mailbox {
		return "mailboxes"
	}
	return string(t) + "s"
}
