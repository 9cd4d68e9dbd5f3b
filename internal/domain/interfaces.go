package domain

import "context"

// EntityType names one of the record collections a query is resolved against.
type EntityType string

const (
	Alias   EntityType = "alias"
	Mailbox EntityType = "mailbox"
	Domain  EntityType = "domain"
	Contact EntityType = "contact"
)

// EntityTypes lists every entity type in resolution order.
var EntityTypes = []EntityType{Alias, Mailbox, Domain, Contact}

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case Alias, Mailbox, Domain, Contact:
		return true
	}
	return false
}

// CommandDescriptor describes one command an entity type supports.
type CommandDescriptor struct {
	// Name is what the user types after the record name.
	Name string
	// Action is the backend operation the invoker runs; defaults to Name.
	Action string
	// Params are the record fields supplying the command's parameters
	// when the query carries none.
	Params []string
	// Arguments marks commands that need parameters typed in the query,
	// such as the address of a new contact.
	Arguments bool
}

// Suggestion is one presentable (record, command, parameters) unit.
type Suggestion struct {
	Record       Record
	Type         EntityType
	ID           string
	DisplayName  string
	Subtitle     string
	Icon         string
	Command      string
	Params       []string
	Actionable   bool
	Autocomplete string
}

// Action returns the opaque token a host hands to the command invoker.
func (s Suggestion) Action() string {
	return Action{ID: s.ID, Type: s.Type, Command: s.Command, Params: s.Params}.Encode()
}

// RecordStore holds cached record snapshots per entity type.
type RecordStore interface {
	// Records returns the cached records of type t, or nil when nothing is cached.
	Records(ctx context.Context, t EntityType) ([]Record, error)
	// Replace swaps the cached records of type t for recs.
	Replace(ctx context.Context, t EntityType, recs []Record) error
	Close() error
}

// Resolver turns a query and record collections into suggestions.
type Resolver interface {
	Resolve(query string, collections map[EntityType][]Record) []Suggestion
}
