// Package command holds the commands each entity type supports.
package command

import (
	"errors"
	"fmt"
	"sort"

	"resolver/internal/domain"
	"resolver/internal/entity"
)

// Copy is the command offered by default when a record is listed.
const Copy = "clip"

// Table maps an entity type to its commands by name.
type Table map[domain.EntityType]map[string]domain.CommandDescriptor

// Default returns the built-in command table.
func Default() Table {
	return Table{
		domain.Alias: commands(
			domain.CommandDescriptor{Name: Copy, Params: []string{"email"}},
			domain.CommandDescriptor{Name: "contact", Action: "contact_new", Arguments: true},
			domain.CommandDescriptor{Name: "toggle"},
			domain.CommandDescriptor{Name: "update", Action: "upcontact"},
			domain.CommandDescriptor{Name: "enable"},
			domain.CommandDescriptor{Name: "disable"},
			domain.CommandDescriptor{Name: "delete"},
		),
		domain.Mailbox: commands(
			domain.CommandDescriptor{Name: Copy, Params: []string{"email"}},
		),
		domain.Domain: commands(
			domain.CommandDescriptor{Name: Copy, Params: []string{"suffix"}},
		),
		domain.Contact: commands(
			domain.CommandDescriptor{Name: Copy, Params: []string{"reverse_alias_address"}},
			domain.CommandDescriptor{Name: "toggle"},
			domain.CommandDescriptor{Name: "enable"},
			domain.CommandDescriptor{Name: "disable"},
			domain.CommandDescriptor{Name: "delete"},
		),
	}
}

func commands(descs ...domain.CommandDescriptor) map[string]domain.CommandDescriptor {
	m := make(map[string]domain.CommandDescriptor, len(descs))
	for _, d := range descs {
		if d.Action == "" {
			d.Action = d.Name
		}
		m[d.Name] = d
	}
	return m
}

// Lookup returns the descriptor for name under type t.
func (t Table) Lookup(et domain.EntityType, name string) (domain.CommandDescriptor, bool) {
	d, ok := t[et][name]
	return d, ok
}

// Names returns the command names of type et in sorted order.
func (t Table) Names(et domain.EntityType) []string {
	names := make([]string, 0, len(t[et]))
	for n := range t[et] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Count returns how many commands type et has.
func (t Table) Count(et domain.EntityType) int {
	return len(t[et])
}

// Validate reports parameter fields that records of their type never carry.
// Unknown fields still resolve to "" at call time, so callers may treat the
// error as a warning.
func (t Table) Validate() error {
	var errs []error
	for _, et := range domain.EntityTypes {
		for _, name := range t.Names(et) {
			d := t[et][name]
			if d.Name != name {
				errs = append(errs, fmt.Errorf("%s: command %q registered as %q", et, d.Name, name))
			}
			for _, f := range d.Params {
				if !entity.KnownField(et, f) {
					errs = append(errs, fmt.Errorf("%s %s: unknown parameter field %q", et, name, f))
				}
			}
		}
	}
	return errors.Join(errs...)
}
