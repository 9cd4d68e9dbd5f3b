// Package resolver turns a launcher query into suggestions across the record
// collections: it finds the records the query names, detects a trailing
// command and decides which (record, command, parameters) to offer.
package resolver

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"resolver/internal/command"
	"resolver/internal/domain"
	"resolver/internal/entity"
)

// DefaultMinScore is the lowest fuzzy score a record may have to be suggested.
const DefaultMinScore = 80.0

// Collection is one entity type's records and how to search them.
type Collection struct {
	Type     domain.EntityType
	Records  []domain.Record
	Commands map[string]domain.CommandDescriptor
	// IDField overrides the type's identifier field.
	IDField string
	// Key overrides the type's search key.
	Key func(domain.Record) string
}

func (c Collection) items() []entity.Item {
	items := entity.AnnotateAll(c.Records, c.Type)
	for i := range items {
		if c.IDField != "" {
			items[i].ID = items[i].Record.String(c.IDField)
		}
		if c.Key != nil {
			items[i].Key = c.Key(items[i].Record)
		}
	}
	return items
}

// Resolver holds the matching configuration. It keeps no state between calls
// and may be shared.
type Resolver struct {
	minScore float64
	commands command.Table
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMinScore sets the lowest fuzzy score a record needs to match.
func WithMinScore(min float64) Option {
	return func(r *Resolver) { r.minScore = min }
}

// WithCommands replaces the built-in command table.
func WithCommands(t command.Table) Option {
	return func(r *Resolver) { r.commands = t }
}

// WithLogger sets where resolution decisions are logged. Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		minScore: DefaultMinScore,
		commands: command.Default(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Commands returns the command table in use.
func (r *Resolver) Commands() command.Table { return r.commands }

// Collections pairs records with the resolver's command table, in resolution order.
func (r *Resolver) Collections(records map[domain.EntityType][]domain.Record) []Collection {
	cols := make([]Collection, 0, len(domain.EntityTypes))
	for _, t := range domain.EntityTypes {
		cols = append(cols, Collection{Type: t, Records: records[t], Commands: r.commands[t]})
	}
	return cols
}

// Resolve suggests records and commands for query across every entity type.
func (r *Resolver) Resolve(query string, records map[domain.EntityType][]domain.Record) []domain.Suggestion {
	return r.ResolveCollections(query, r.Collections(records))
}

type matched struct {
	col   Collection
	ext   Extraction
	items []entity.Item
}

// ResolveCollections suggests records and commands for query. When exactly one
// record matches across all collections, its commands are offered; otherwise
// every match is listed with the copy command.
func (r *Resolver) ResolveCollections(query string, cols []Collection) []domain.Suggestion {
	var (
		results []matched
		total   int
	)
	for _, c := range cols {
		items := c.items()
		if len(items) == 0 {
			continue
		}
		ext := r.Extract(query, items, names(c.Commands))
		found := r.match(ext.Query, items)
		if len(found) == 0 {
			continue
		}
		total += len(found)
		results = append(results, matched{col: c, ext: ext, items: found})
	}
	r.logger.Debug("resolved query", "query", query, "total", total, "collections", len(results))

	var out []domain.Suggestion
	for _, m := range results {
		if total == 1 {
			if s := r.expand(m); len(s) > 0 {
				out = append(out, s...)
				continue
			}
		}
		for _, it := range m.items {
			out = append(out, listing(it, m.col.Commands))
		}
	}
	return out
}

// expand offers the commands of a lone match that fit what was typed.
func (r *Resolver) expand(m matched) []domain.Suggestion {
	it := m.items[0]
	var cmds []string
	if _, ok := m.col.Commands[m.ext.Command]; ok && m.ext.Command != "" {
		cmds = []string{m.ext.Command}
	} else {
		for _, n := range names(m.col.Commands) {
			if strings.HasPrefix(n, m.ext.Prefix) {
				cmds = append(cmds, n)
			}
		}
	}
	title := cases.Title(language.English)
	out := make([]domain.Suggestion, 0, len(cmds))
	for _, name := range cmds {
		params, ok := resolveParams(m.col.Commands[name], it.Record, m.ext)
		out = append(out, domain.Suggestion{
			Record:       it.Record,
			Type:         it.Type,
			ID:           it.ID,
			DisplayName:  it.Name,
			Subtitle:     title.String(name) + " " + it.Name,
			Icon:         it.Icon,
			Command:      name,
			Params:       params,
			Actionable:   ok,
			Autocomplete: it.Name + " " + name,
		})
	}
	return out
}

// resolveParams picks a command's parameters: the ones typed in the query,
// else the record's fields, else the name typed. ok is false in the last case
// when the command needed fields or arguments it did not get.
func resolveParams(d domain.CommandDescriptor, rec domain.Record, ext Extraction) (params []string, ok bool) {
	if len(ext.Params) > 0 {
		return ext.Params, true
	}
	if len(d.Params) > 0 {
		vals := make([]string, 0, len(d.Params))
		complete := true
		for _, f := range d.Params {
			v := rec.String(f)
			if v == "" {
				complete = false
			}
			vals = append(vals, v)
		}
		if complete {
			return vals, true
		}
	}
	// Commands that need nothing from the record still receive the name typed.
	ok = len(d.Params) == 0 && !d.Arguments
	if q := strings.TrimSpace(ext.Query); q != "" {
		return []string{q}, ok
	}
	return nil, ok
}

// listing presents a match among several. Its copy action only runs directly
// when the type has no other command the user might have meant.
func listing(it entity.Item, commands map[string]domain.CommandDescriptor) domain.Suggestion {
	s := domain.Suggestion{
		Record:       it.Record,
		Type:         it.Type,
		ID:           it.ID,
		DisplayName:  it.Name,
		Subtitle:     entity.Subtitle(it.Record, it.Type),
		Icon:         it.Icon,
		Params:       []string{it.Name},
		Actionable:   len(commands) <= 1,
		Autocomplete: it.Name,
	}
	if _, ok := commands[command.Copy]; ok {
		s.Command = command.Copy
	}
	return s
}

func names(commands map[string]domain.CommandDescriptor) []string {
	out := make([]string, 0, len(commands))
	for n := range commands {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
