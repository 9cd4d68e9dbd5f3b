package resolver

import (
	"strings"

	"resolver/internal/entity"
	"resolver/internal/fuzzy"
)

// Extraction is a query split into the name being searched for and the
// command typed after it.
type Extraction struct {
	// Query is the part of the query naming the record.
	Query string
	// Command is a complete command name, or "" when none was typed.
	Command string
	// Prefix is a partially typed command, set only when Command is empty.
	Prefix string
	// Params are the words typed after a two-word command.
	Params []string
}

// Extract looks for a command at the end of query. A trailing word is taken as
// a command only when dropping it narrows the matches down to exactly one
// record: record names span several words, so nothing else tells a command
// apart from the rest of a name. When more than one record is left the query
// is returned as is.
func (r *Resolver) Extract(query string, items []entity.Item, commands []string) Extraction {
	out := Extraction{Query: query}
	words := strings.Fields(query)
	n := len(words)
	if n < 2 || len(items) == 0 || len(commands) == 0 {
		return out
	}

	full := r.match(query, items)
	minus1 := r.match(strings.Join(words[:n-1], " "), items)
	var minus2 []entity.Item
	if n > 2 {
		minus2 = r.match(strings.Join(words[:n-2], " "), items)
	}

	// The whole query may already name the record: the same single match
	// with and without the last word still leaves room for a command, but
	// only a complete one. A partial command is taken only when the last word
	// stops the query matching at all.
	sameRecord := len(full) == 1 && len(minus1) == 1 && full[0].ID == minus1[0].ID
	if len(minus1) == 1 && (len(full) == 0 || sameRecord) {
		if cmd, prefix, ok := commandWord(words[n-1], commands); ok && (len(full) == 0 || cmd != "") {
			out.Query = strings.Join(words[:n-1], " ")
			out.Command, out.Prefix = cmd, prefix
			r.logger.Debug("extracted command", "query", out.Query, "command", cmd, "prefix", prefix, "record", minus1[0].ID)
			return out
		}
	}

	if n > 2 && len(minus2) == 1 && len(full) == 0 && len(minus1) == 0 {
		if cmd, _, ok := commandWord(words[n-2], commands); ok && cmd != "" {
			out.Query = strings.Join(words[:n-2], " ")
			out.Command = cmd
			out.Params = append([]string(nil), words[n-1:]...)
			r.logger.Debug("extracted command with params", "query", out.Query, "command", cmd, "params", out.Params, "record", minus2[0].ID)
		}
	}
	return out
}

// match filters items against query and keeps only an exact name match when
// there is one.
func (r *Resolver) match(query string, items []entity.Item) []entity.Item {
	res := fuzzy.Items(fuzzy.Filter(query, items, itemKey, fuzzy.WithMinScore(r.minScore)))
	return collapseExact(query, res)
}

func itemKey(it entity.Item) string { return it.Key }

func collapseExact(query string, items []entity.Item) []entity.Item {
	q := strings.Join(strings.Fields(query), " ")
	if q == "" {
		return items
	}
	for _, it := range items {
		if strings.EqualFold(it.Name, q) {
			return []entity.Item{it}
		}
	}
	return items
}

// commandWord resolves word against the command names. A complete name is
// returned as cmd; a word that only starts one or more names is returned as
// prefix.
func commandWord(word string, commands []string) (cmd, prefix string, ok bool) {
	w := strings.ToLower(word)
	for _, c := range commands {
		if c == w {
			return c, "", true
		}
	}
	for _, c := range commands {
		if strings.HasPrefix(c, w) {
			return "", w, true
		}
	}
	return "", "", false
}
