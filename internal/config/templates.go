package config

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ResolveTemplates expands the Render.Templates patterns relative to
// rootPath, removes Render.Exclude matches and returns the sorted result.
func (c *Config) ResolveTemplates(rootPath string) ([]string, error) {
	include, err := compileAll(c.Render.Templates)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll(c.Render.Exclude)
	if err != nil {
		return nil, err
	}

	var result []string
	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries, continue walking
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if matchAny(include, rel) && !matchAny(exclude, rel) {
			result = append(result, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", rootPath, err)
	}

	slices.Sort(result)
	return result, nil
}

// compileAll compiles slash-separated patterns. A leading "**/" also
// matches files at the top level.
func compileAll(patterns []string) ([]glob.Glob, error) {
	var out []glob.Glob
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, g)
		if rest, ok := strings.CutPrefix(p, "**/"); ok {
			top, err := glob.Compile(rest, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
			}
			out = append(out, top)
		}
	}
	return out, nil
}

func matchAny(globs []glob.Glob, path string) bool {
	return slices.ContainsFunc(globs, func(g glob.Glob) bool { return g.Match(path) })
}
