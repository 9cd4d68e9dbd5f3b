package entity

import (
	"strings"

	"resolver/internal/domain"
)

// Subtitle renders the status line shown under a record in listings.
func Subtitle(rec domain.Record, t domain.EntityType) string {
	var b strings.Builder
	switch t {
	case domain.Alias:
		if rec.Has("enabled") {
			b.WriteString(enabled(rec))
		}
		if rec.Has("mailbox") {
			b.WriteString("  📧 " + orNone(rec.String("mailbox", "email")))
		}
	case domain.Mailbox:
		if rec.Has("verified") {
			b.WriteString("  ✅ " + pick(rec.Bool("verified"), "verified", "not verified"))
		}
		if rec.Has("default") {
			b.WriteString("  🥇 " + pick(rec.Bool("default"), "default", "secondary"))
		}
	case domain.Domain:
		if rec.Has("is_custom") {
			b.WriteString("  🎈 " + pick(rec.Bool("is_custom"), "custom", "standard"))
		}
		if rec.Has("is_premium") {
			b.WriteString("  💵 " + pick(rec.Bool("is_premium"), "premium", "standard"))
		}
	case domain.Contact:
		if rec.Has("enabled") {
			b.WriteString(enabled(rec))
		}
		if rec.Has("alias") {
			b.WriteString("  📨 " + orNone(rec.String("alias")))
		}
		if rec.Has("reverse_alias_address") {
			b.WriteString("  📧 " + orNone(rec.String("reverse_alias_address")))
		}
	}
	return b.String()
}

func enabled(rec domain.Record) string {
	if rec.Bool("enabled") {
		return "  👍🏼 enabled"
	}
	return "  👎 disabled"
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
