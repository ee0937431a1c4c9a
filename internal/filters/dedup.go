// Package filters removes whole lines from declaration blocks based on the
// identifier each line declares. Lines are never reordered, and lines that
// do not match the grammar are always kept.
package filters

import (
	"strings"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/matcher"
)

// Deduplicate keeps the first line declaring each identifier and drops
// later repeats. With reverse set the scan starts from the end, so the last
// occurrence survives instead; the output keeps the original order either way.
func Deduplicate(block string, kind matcher.Kind, reverse bool) string {
	lines := matcher.SplitLines(block)
	keep := make([]bool, len(lines))
	seen := make(map[string]bool)

	visit := func(i int) {
		name, ok := matcher.Identifier(lines[i], kind)
		if !ok {
			keep[i] = true
			return
		}
		if seen[name] {
			return
		}
		seen[name] = true
		keep[i] = true
	}

	if reverse {
		for i := len(lines) - 1; i >= 0; i-- {
			visit(i)
		}
	} else {
		for i := range lines {
			visit(i)
		}
	}

	return collect(lines, keep)
}

func collect(lines []string, keep []bool) string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if keep[i] {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
