// Package host provides the default text collaborators the registry hands
// to the format pipeline: a marker column aligner and a space indenter.
package host

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/format"
)

// ColumnAligner pads marker-delimited columns to a common display width
// and drops the markers. Lines without a marker are only right-trimmed.
//
// A column that is empty on every line collapses to nothing, except for
// the last such run: that run is the doubled marker before the identifier
// and renders as one extra space.
type ColumnAligner struct{}

func (ColumnAligner) Align(text string) string {
	lines := strings.Split(text, "\n")
	rows := make([][]string, len(lines))
	var widths []int
	for i, line := range lines {
		if !strings.Contains(line, format.Marker) {
			continue
		}
		cols := strings.Split(line, format.Marker)
		rows[i] = cols
		for j, c := range cols[:len(cols)-1] {
			if j >= len(widths) {
				widths = append(widths, 0)
			}
			if w := uniseg.StringWidth(c); w > widths[j] {
				widths[j] = w
			}
		}
	}

	gap := gapColumn(widths)
	for i, cols := range rows {
		if cols == nil {
			lines[i] = strings.TrimRight(lines[i], " \t")
			continue
		}
		var b strings.Builder
		last := len(cols) - 1
		for j, c := range cols[:last] {
			if widths[j] == 0 {
				if j == gap {
					b.WriteByte(' ')
				}
				continue
			}
			b.WriteString(c)
			b.WriteString(strings.Repeat(" ", widths[j]-uniseg.StringWidth(c)+1))
		}
		b.WriteString(cols[last])
		lines[i] = strings.TrimRight(b.String(), " \t")
	}
	return strings.Join(lines, "\n")
}

// gapColumn returns the first index of the rightmost run of empty columns,
// or -1. Column 0 never counts.
func gapColumn(widths []int) int {
	for j := len(widths) - 1; j > 0; j-- {
		if widths[j] != 0 {
			continue
		}
		for j > 1 && widths[j-1] == 0 {
			j--
		}
		return j
	}
	return -1
}

// Indenter prefixes non-empty lines with Unit repeated per level.
type Indenter struct {
	Unit string
}

func (in Indenter) Indent(text string, levels int, first bool) string {
	if levels <= 0 {
		return text
	}
	prefix := strings.Repeat(in.Unit, levels)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if (i == 0 && !first) || line == "" {
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

var (
	_ format.Aligner  = ColumnAligner{}
	_ format.Indenter = Indenter{}
)
