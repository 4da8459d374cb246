package filter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is returned by New when an ignore pattern is malformed.
var ErrInvalidPattern = errors.New("invalid ignore pattern")

// Filter holds a set of ignore patterns. The zero value allows every path.
// A Filter is safe for concurrent use.
type Filter struct {
	patterns []pattern
}

// pattern is one compiled ignore entry.
type pattern struct {
	glob   string
	negate bool
}

// New validates patterns and returns a Filter for them.
// Patterns are normalised to forward slashes and a leading "./" is removed.
// Empty patterns and comments (a leading "#") are dropped. Each leading "!"
// negates the pattern once, so "!src/**" excludes everything outside src.
func New(patterns ...string) (*Filter, error) {
	f := &Filter{patterns: make([]pattern, 0, len(patterns))}
	for _, raw := range patterns {
		p, ok := parse(raw)
		if !ok {
			continue
		}
		if p.glob == "" || !doublestar.ValidatePattern(p.glob) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, raw)
		}
		f.patterns = append(f.patterns, p)
	}
	return f, nil
}

// parse splits raw into its glob and negation. It returns false for empty
// patterns and comments.
func parse(raw string) (pattern, bool) {
	glob := strings.TrimSpace(raw)
	if glob == "" || strings.HasPrefix(glob, "#") {
		return pattern{}, false
	}
	var p pattern
	for strings.HasPrefix(glob, "!") {
		p.negate = !p.negate
		glob = glob[1:]
	}
	p.glob = normalize(glob)
	return p, true
}

// Allowed reports whether relativePath survives every ignore pattern.
// It returns false as soon as one pattern matches.
func (f *Filter) Allowed(relativePath string) bool {
	if f == nil {
		return true
	}
	name := normalize(relativePath)
	for _, p := range f.patterns {
		if p.matches(name) {
			return false
		}
	}
	return true
}

// matches reports whether name is excluded by p.
func (p pattern) matches(name string) bool {
	return match(p.glob, name) != p.negate
}

// match reports whether name matches pattern. A trailing "/**" also
// matches the directory it is rooted at, so "vendor/**" prunes "vendor".
func match(pattern, name string) bool {
	if ok, err := doublestar.Match(pattern, name); err == nil && ok {
		return true
	}
	if base, found := strings.CutSuffix(pattern, "/**"); found && base != "" {
		ok, err := doublestar.Match(base, name)
		return err == nil && ok
	}
	return false
}

// normalize converts p to forward slashes and strips a leading "./".
func normalize(p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}
