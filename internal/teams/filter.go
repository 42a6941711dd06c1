package teams

import (
	"fmt"
	"strings"
	"unicode"
)

// MatchMode selects how a search query is compared with team names.
type MatchMode string

const (
	// MatchWordPrefix matches at the start of the name or of any word in it.
	MatchWordPrefix MatchMode = "word-prefix"
	// MatchSubstring matches anywhere in the name.
	MatchSubstring MatchMode = "substring"
)

// ParseMatchMode validates a configured mode. Empty selects MatchWordPrefix.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.TrimSpace(s)) {
	case "", MatchWordPrefix:
		return MatchWordPrefix, nil
	case MatchSubstring:
		return MatchSubstring, nil
	}
	return "", fmt.Errorf("unknown search mode %q (want %s or %s)", s, MatchWordPrefix, MatchSubstring)
}

// FilterResult is the outcome of one filter pass.
type FilterResult struct {
	Query   string
	Matches map[int64]bool
	Path    map[int64]bool
}

// Active reports whether the result filters anything.
func (r FilterResult) Active() bool {
	return r.Query != ""
}

// IsMatch reports whether id matched the query.
func (r FilterResult) IsMatch(id int64) bool {
	return r.Matches[id]
}

// OnPath reports whether id is an ancestor of a match.
func (r FilterResult) OnPath(id int64) bool {
	return r.Path[id]
}

// Visible reports whether id passes the filter: it matched, it leads to a
// match, or it sits below a match. Expansion is not considered here.
func (r FilterResult) Visible(t *Tree, id int64) bool {
	if !r.Active() || r.Matches[id] || r.Path[id] {
		return true
	}
	for _, a := range t.AncestorsOf(id) {
		if r.Matches[a] {
			return true
		}
	}
	return false
}

// Filter computes matches for query and force-expands every ancestor of
// every match in exp. It never collapses anything. A blank query returns an
// inactive result and leaves exp untouched.
func Filter(t *Tree, query string, mode MatchMode, exp *Expansion) FilterResult {
	q := strings.ToLower(strings.TrimSpace(query))
	res := FilterResult{
		Matches: make(map[int64]bool),
		Path:    make(map[int64]bool),
	}
	if q == "" {
		return res
	}
	res.Query = q

	for _, id := range t.order {
		if !NameMatches(t.byID[id].Name, q, mode) {
			continue
		}
		res.Matches[id] = true
		for _, a := range t.AncestorsOf(id) {
			res.Path[a] = true
			if exp != nil {
				exp.SetExpanded(a, true)
			}
		}
	}
	return res
}

// NameMatches applies mode to a name. query must already be lower-cased and
// trimmed.
func NameMatches(name, query string, mode MatchMode) bool {
	if query == "" {
		return false
	}
	lower := strings.ToLower(name)
	if mode == MatchSubstring {
		return strings.Contains(lower, query)
	}

	prevWord := false
	for i, r := range lower {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r)
		if !prevWord && strings.HasPrefix(lower[i:], query) {
			return true
		}
		prevWord = isWord
	}
	return false
}
