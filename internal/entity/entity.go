// Package entity derives everything the resolver needs to know about a record
// from its fields: its type, identifier, display name, search key and subtitle.
package entity

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"resolver/internal/domain"
)

// Classify decides a record's type from the fields it carries. The first
// distinguishing field wins, so records carrying several still classify the
// same way the backend cache does.
func Classify(rec domain.Record) domain.EntityType {
	switch {
	case rec.Has("disable_pgp"):
		return domain.Alias
	case rec.Has("is_premium"):
		return domain.Domain
	case rec.Has("nb_alias"):
		return domain.Mailbox
	case rec.Has("reverse_alias"):
		return domain.Contact
	default:
		return domain.Alias
	}
}

// IDField returns the field holding a type's stable identifier.
func IDField(t domain.EntityType) string {
	if t == domain.Domain {
		return "suffix"
	}
	return "id"
}

// NameField returns the field a type's display name is taken from.
func NameField(t domain.EntityType) string {
	switch t {
	case domain.Domain:
		return "suffix"
	case domain.Contact:
		return "contact"
	default:
		return "email"
	}
}

// ID returns the record's identifier as text.
func ID(rec domain.Record, t domain.EntityType) string {
	return rec.String(IDField(t))
}

// DisplayName returns the record's title with any leading '@' removed.
func DisplayName(rec domain.Record, t domain.EntityType) string {
	return strings.TrimPrefix(rec.String(NameField(t)), "@")
}

// Icon returns the icon reference for a type.
func Icon(t domain.EntityType) string {
	return "icons/" + string(t) + ".png"
}

var (
	emailDomainRe = regexp.MustCompile(`([^.@]+)\.(co\.\w{2}|com|org|net)`)
	contactRe     = regexp.MustCompile(`([^.]+)@(.*)`)
	notifySplitRe = regexp.MustCompile(`[.\s\-,]+`)
)

// EmailDomain returns the organisation name and top level domain of an
// address, e.g. "acme", "co.uk" for "bob@mail.acme.co.uk". A "-mail" qualifier
// on the name is dropped. Both are empty when the address has no known TLD.
func EmailDomain(email string) (name, tld string) {
	m := emailDomainRe.FindStringSubmatch(email)
	if m == nil {
		return "", ""
	}
	name = strings.ReplaceAll(m[1], "-mail", "")
	name = strings.TrimPrefix(name, "mail-")
	return name, m[2]
}

// SearchKey builds the space separated tokens a query is matched against.
// Tokens whose source field is missing are left out.
func SearchKey(rec domain.Record, t domain.EntityType) string {
	var elems []string
	switch t {
	case domain.Alias:
		if email := rec.String("email"); email != "" {
			elems = append(elems, email)
			elems = append(elems, strings.Split(email, "@")...)
		}
		if c := rec.String("latest_activity", "contact", "email"); c != "" {
			if name, _ := EmailDomain(c); name != "" {
				elems = append(elems, name)
			}
		}
	case domain.Mailbox:
		if email := rec.String("email"); email != "" {
			elems = append(elems, strings.Split(email, "@")...)
		}
	case domain.Domain:
		if suffix := rec.String("suffix"); suffix != "" {
			parts := strings.Split(suffix, "@")
			elems = append(elems, parts[len(parts)-1])
		}
	case domain.Contact:
		if c := rec.String("contact"); c != "" {
			if m := contactRe.FindStringSubmatch(c); m != nil {
				elems = append(elems, m[1], m[2])
			}
			elems = append(elems, c)
		}
	}
	return strings.Join(nonEmpty(elems), " ")
}

// NotifyName turns a record's address into words fit for a notification,
// e.g. "john.doe@example.com" becomes "John Doe@example Com".
func NotifyName(rec domain.Record) string {
	name := rec.String("email")
	if name == "" {
		name = rec.String("contact")
	}
	if name == "" {
		return "Item"
	}
	parts := notifySplitRe.Split(name, -1)
	for i, p := range parts {
		if p != "" {
			r, size := utf8.DecodeRuneInString(p)
			parts[i] = string(unicode.ToUpper(r)) + strings.ToLower(p[size:])
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func nonEmpty(ss []string) []string {
	out := ss[:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
