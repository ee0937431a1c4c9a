package filters

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/matcher"
)

const globCacheSize = 256

// Compiled glob matchers are shared across calls; lru.Cache is safe for
// concurrent use.
var globCache *lru.Cache[string, glob.Glob]

func init() {
	c, err := lru.New[string, glob.Glob](globCacheSize)
	if err != nil {
		panic(fmt.Sprintf("creating glob cache: %v", err))
	}
	globCache = c
}

// NameSet matches identifiers against exact names and glob patterns.
type NameSet struct {
	exact    map[string]bool
	patterns []glob.Glob
}

// NewNameSet builds a NameSet. Names containing any of "*?[{" are compiled
// as glob patterns; all others match exactly.
func NewNameSet(names []string) (*NameSet, error) {
	s := &NameSet{exact: make(map[string]bool, len(names))}
	for _, name := range names {
		if !strings.ContainsAny(name, "*?[{") {
			s.exact[name] = true
			continue
		}
		g, err := compileGlob(name)
		if err != nil {
			return nil, fmt.Errorf("compiling exclude pattern %q: %w", name, err)
		}
		s.patterns = append(s.patterns, g)
	}
	return s, nil
}

func compileGlob(pattern string) (glob.Glob, error) {
	if g, ok := globCache.Get(pattern); ok {
		return g, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	globCache.Add(pattern, g)
	return g, nil
}

// Contains reports whether name is in the set.
func (s *NameSet) Contains(name string) bool {
	if s.exact[name] {
		return true
	}
	for _, g := range s.patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Exclude drops every line whose identifier is in names. Comments, blank
// lines and anything else that does not match kind are kept verbatim.
func Exclude(block string, kind matcher.Kind, names []string) (string, error) {
	set, err := NewNameSet(names)
	if err != nil {
		return "", err
	}

	lines := matcher.SplitLines(block)
	keep := make([]bool, len(lines))
	for i, line := range lines {
		name, ok := matcher.Identifier(line, kind)
		keep[i] = !ok || !set.Contains(name)
	}
	return collect(lines, keep), nil
}
