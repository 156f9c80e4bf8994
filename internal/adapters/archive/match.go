package archive

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultPattern selects scene documents in Foundry adventure exports
const DefaultPattern = "scene/*.json"

// Matcher decides which entries are scene documents. A pattern is matched against the
// trailing segments of the entry name, so "scene/*.json" also accepts "a/scene/b.json";
// a leading "/" anchors the pattern to the whole name
type Matcher struct {
	patterns []pattern
}

type pattern struct {
	raw      string
	segs     []string
	anchored bool
}

// NewMatcher validates the patterns (path.Match syntax); none means DefaultPattern
func NewMatcher(patterns ...string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		clean := normalizeName(p)
		anchored := strings.HasPrefix(clean, "/")
		clean = strings.Trim(clean, "/")
		if clean == "" {
			return nil, fmt.Errorf("archive: empty pattern %q", p)
		}
		segs := strings.Split(clean, "/")
		for _, s := range segs {
			if _, err := path.Match(s, ""); err != nil {
				return nil, fmt.Errorf("archive: bad pattern %q: %w", p, err)
			}
		}
		m.patterns = append(m.patterns, pattern{raw: p, segs: segs, anchored: anchored})
	}
	if len(m.patterns) == 0 {
		m.patterns = []pattern{{raw: DefaultPattern, segs: strings.Split(DefaultPattern, "/")}}
	}
	return m, nil
}

// DefaultMatcher matches DefaultPattern
func DefaultMatcher() *Matcher {
	m, _ := NewMatcher(DefaultPattern)
	return m
}

// Patterns returns the configured patterns as given
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	for i, p := range m.patterns {
		out[i] = p.raw
	}
	return out
}

// Match reports whether name is a scene document. Directory names never match
func (m *Matcher) Match(name string) bool {
	n := normalizeName(name)
	if n == "" || strings.HasSuffix(n, "/") {
		return false
	}
	segs := strings.Split(strings.TrimLeft(n, "/"), "/")
	for _, p := range m.patterns {
		if p.match(segs) {
			return true
		}
	}
	return false
}

// MatchEntry is Match for an entry
func (m *Matcher) MatchEntry(e Entry) bool { return !e.Dir && m.Match(e.Name) }

func (p pattern) match(segs []string) bool {
	if len(segs) < len(p.segs) || (p.anchored && len(segs) != len(p.segs)) {
		return false
	}
	tail := segs[len(segs)-len(p.segs):]
	for i, ps := range p.segs {
		ok, err := path.Match(ps, tail[i])
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// normalizeName folds to NFC, uses forward slashes and drops "./" prefixes
func normalizeName(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\\", "/")
	for strings.HasPrefix(s, "./") {
		s = s[2:]
	}
	return s
}
