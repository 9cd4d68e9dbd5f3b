// Package fuzzy ranks candidates against a free-text query.
//
// Each query word is scored against a candidate's key with every rule that
// applies (atom, prefix, capitals, initials, initials-startswith,
// initials-contain, substring) and keeps the best. A candidate matches only if
// every word does; its score is the mean of the word scores on a 0-100 scale.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"
)

// Rule identifies the strategy that produced a word score.
type Rule int

const (
	RuleNone Rule = iota
	RuleAtom
	RuleStartsWith
	RuleSubstring
	RuleInitials
	RuleCapitals
	RuleInitialsStartsWith
	RuleInitialsContain
	// RuleAll is reported for empty queries, which match everything.
	RuleAll
)

func (r Rule) String() string {
	switch r {
	case RuleAtom:
		return "atom"
	case RuleStartsWith:
		return "startswith"
	case RuleSubstring:
		return "substring"
	case RuleInitials:
		return "initials"
	case RuleCapitals:
		return "capitals"
	case RuleInitialsStartsWith:
		return "initials-startswith"
	case RuleInitialsContain:
		return "initials-contain"
	case RuleAll:
		return "all"
	}
	return "none"
}

// Base scores per rule. The final word score subtracts len(key)/len(word),
// so short words against long keys rank lower.
const (
	scoreAtom               = 100.0
	scoreStartsWith         = 97.0
	scoreSubstring          = 90.0
	scoreInitials           = 90.0
	scoreCapitals           = 85.0
	scoreInitialsStartsWith = 85.0
	scoreInitialsContain    = 80.0

	// MaxScore is awarded to every candidate when the query is empty.
	MaxScore = 100.0
)

// Result is a candidate that passed the filter.
type Result[T any] struct {
	Item  T
	Score float64
	Rule  Rule
}

type options struct {
	minScore   float64
	maxResults int
}

// Option tunes Filter.
type Option func(*options)

// WithMinScore drops candidates scoring below min.
func WithMinScore(min float64) Option {
	return func(o *options) { o.minScore = min }
}

// WithMaxResults keeps at most n results; n <= 0 keeps all.
func WithMaxResults(n int) Option {
	return func(o *options) { o.maxResults = n }
}

// Filter returns the items whose key matches query, best first. Ties keep
// their input order.
func Filter[T any](query string, items []T, key func(T) string, opts ...Option) []Result[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	words := strings.Fields(query)
	out := make([]Result[T], 0, len(items))
	if len(words) == 0 {
		for _, it := range items {
			out = append(out, Result[T]{Item: it, Score: MaxScore, Rule: RuleAll})
		}
		return truncate(out, o.maxResults)
	}
	for _, it := range items {
		score, rule, ok := Score(key(it), words)
		if !ok || score < o.minScore {
			continue
		}
		out = append(out, Result[T]{Item: it, Score: score, Rule: rule})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return truncate(out, o.maxResults)
}

// Items strips the scores from results.
func Items[T any](results []Result[T]) []T {
	out := make([]T, len(results))
	for i, r := range results {
		out[i] = r.Item
	}
	return out
}

// Score matches every word against key. ok is false when any word misses.
// The returned rule is the one of the best-scoring word.
func Score(key string, words []string) (score float64, rule Rule, ok bool) {
	key = strings.TrimSpace(key)
	if key == "" || len(words) == 0 {
		return 0, RuleNone, false
	}
	k := newKey(key)
	best := -1.0
	total := 0.0
	for _, w := range words {
		s, r := k.score(strings.ToLower(w))
		if s <= 0 {
			return 0, RuleNone, false
		}
		if s > best {
			best, rule = s, r
		}
		total += s
	}
	return total / float64(len(words)), rule, true
}

// key caches the derived forms of a candidate key across query words.
type key struct {
	raw      string
	lower    string
	chars    map[rune]struct{}
	atoms    []string
	initials string
	capitals string
}

func newKey(raw string) *key {
	k := &key{raw: raw, lower: strings.ToLower(raw), chars: make(map[rune]struct{})}
	for _, r := range k.lower {
		k.chars[r] = struct{}{}
	}
	k.atoms = strings.FieldsFunc(k.lower, isDelimiter)
	var ini strings.Builder
	for _, a := range k.atoms {
		r := []rune(a)
		ini.WriteRune(r[0])
	}
	k.initials = ini.String()
	var caps strings.Builder
	for _, r := range raw {
		if unicode.IsUpper(r) || unicode.IsDigit(r) {
			caps.WriteRune(unicode.ToLower(r))
		}
	}
	k.capitals = caps.String()
	return k
}

func (k *key) score(word string) (float64, Rule) {
	if word == "" {
		return 0, RuleNone
	}
	for _, r := range word {
		if _, ok := k.chars[r]; !ok {
			return 0, RuleNone
		}
	}
	wl := float64(len([]rune(word)))
	penalty := func(s string) float64 { return float64(len([]rune(s))) / wl }

	best, rule := 0.0, RuleNone
	try := func(ok bool, base float64, against string, r Rule) {
		if !ok {
			return
		}
		if s := base - penalty(against); s > best {
			best, rule = s, r
		}
	}
	atom := false
	for _, a := range k.atoms {
		if a == word {
			atom = true
			break
		}
	}
	try(atom, scoreAtom, k.lower, RuleAtom)
	try(strings.HasPrefix(k.lower, word), scoreStartsWith, k.lower, RuleStartsWith)
	try(k.capitals != "" && strings.HasPrefix(k.capitals, word), scoreCapitals, k.capitals, RuleCapitals)
	try(k.initials == word, scoreInitials, k.initials, RuleInitials)
	try(strings.HasPrefix(k.initials, word), scoreInitialsStartsWith, k.initials, RuleInitialsStartsWith)
	try(strings.Contains(k.initials, word), scoreInitialsContain, k.initials, RuleInitialsContain)
	try(strings.Contains(k.lower, word), scoreSubstring, k.lower, RuleSubstring)
	return best, rule
}

func isDelimiter(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func truncate[T any](rs []Result[T], n int) []Result[T] {
	if n > 0 && len(rs) > n {
		return rs[:n]
	}
	return rs
}
