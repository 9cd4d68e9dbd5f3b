package entity

import "resolver/internal/domain"

// Item is a record together with the fields derived from it for one
// resolution. Items are built per call and never written back to the record.
type Item struct {
	Record domain.Record
	Type   domain.EntityType
	ID     string
	Name   string
	Key    string
	Icon   string
}

// Annotate derives an Item for rec as type t.
func Annotate(rec domain.Record, t domain.EntityType) Item {
	return Item{
		Record: rec,
		Type:   t,
		ID:     ID(rec, t),
		Name:   DisplayName(rec, t),
		Key:    SearchKey(rec, t),
		Icon:   Icon(t),
	}
}

// AnnotateAll annotates every non-nil record.
func AnnotateAll(recs []domain.Record, t domain.EntityType) []Item {
	items := make([]Item, 0, len(recs))
	for _, r := range recs {
		if len(r) == 0 {
			continue
		}
		items = append(items, Annotate(r, t))
	}
	return items
}

// knownFields lists the fields the backend returns for each type.
var knownFields = map[domain.EntityType][]string{
	domain.Alias: {
		"id", "email", "name", "enabled", "creation_timestamp", "note", "disable_pgp",
		"mailbox", "mailboxes", "latest_activity", "nb_block", "nb_forward", "nb_reply", "pinned", "support_pgp",
	},
	domain.Mailbox: {"id", "email", "default", "verified", "nb_alias", "creation_timestamp"},
	domain.Domain:  {"suffix", "is_custom", "is_premium", "signed_suffix"},
	domain.Contact: {
		"id", "contact", "alias", "reverse_alias", "reverse_alias_address", "enabled",
		"block_forward", "creation_date", "creation_timestamp", "last_email_sent_date", "last_email_sent_timestamp",
	},
}

// KnownField reports whether field is one the backend returns for type t.
func KnownField(t domain.EntityType, field string) bool {
	for _, f := range knownFields[t] {
		if f == field {
			return true
		}
	}
	return false
}
