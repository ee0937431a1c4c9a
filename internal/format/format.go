// Package format rewrites declaration blocks into marker-delimited columns
// and hands them to an external aligner.
//
// The marker protocol: Marker separates columns, a doubled Marker asks for
// a wider gap before an identifier, and an inline comment is attached as
// Marker followed by "//". Every keyword and identifier this package emits
// is ASCII, so the marker cannot collide with generated text.
package format

import (
	"strings"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/matcher"
)

// Marker delimits columns for the aligner.
const Marker = "§"

// Aligner lines up marker-delimited columns and removes the markers.
type Aligner interface {
	Align(text string) string
}

// Indenter prefixes lines with levels of indentation. When first is false
// the first line is left as is.
type Indenter interface {
	Indent(text string, levels int, first bool) string
}

// Formatter runs the line transform and the two collaborators.
type Formatter struct {
	Aligner  Aligner
	Indenter Indenter
}

// New returns a Formatter using a and i.
func New(a Aligner, i Indenter) *Formatter {
	return &Formatter{Aligner: a, Indenter: i}
}

// Format annotates every line of block for kind, aligns the result and
// indents it by levels, leaving the first line unindented.
func (f *Formatter) Format(block string, kind matcher.Kind, levels int) string {
	return f.indent(f.align(Annotate(block, kind)), levels, false)
}

// FormatBody is Format with the first line indented too, for blocks that
// are nested inside generated text.
func (f *Formatter) FormatBody(block string, kind matcher.Kind, levels int) string {
	return f.indent(f.align(Annotate(block, kind)), levels, true)
}

func (f *Formatter) align(text string) string {
	if f.Aligner == nil {
		return text
	}
	return f.Aligner.Align(text)
}

func (f *Formatter) indent(text string, levels int, first bool) string {
	if f.Indenter == nil || levels <= 0 {
		return text
	}
	return f.Indenter.Indent(text, levels, first)
}

// Annotate rewrites each line of block independently. Line count and order
// are preserved.
func Annotate(block string, kind matcher.Kind) string {
	lines := matcher.SplitLines(block)
	for i, line := range lines {
		lines[i] = AnnotateLine(line, kind)
	}
	return strings.Join(lines, "\n")
}

// AnnotateLine rewrites one line. Comment-only lines only lose trailing
// whitespace; lines that do not match kind keep their functional text.
func AnnotateLine(line string, kind matcher.Kind) string {
	p := matcher.Parse(line, kind)
	if p.IsComment {
		return strings.TrimRight(line, " \t\r")
	}

	out := p.Functional
	if p.Fields != nil {
		out = Columns(*p.Fields)
	}
	if p.HasComment {
		out += Marker + matcher.CommentOpener + p.Comment
	}
	return out
}
