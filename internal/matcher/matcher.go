// Package matcher extracts named fields from single lines of Verilog and
// SystemVerilog declarations.
//
// Each Kind has one anchored grammar. A line either yields every required
// field of its grammar or does not match at all; a mismatch is a normal
// outcome that callers treat as "leave the line alone".
package matcher

import "strings"

// CommentOpener starts an inline comment.
const CommentOpener = "//"

var grammars = map[Kind]func(string) (Fields, bool){
	PortDefinition:      matchPortDefinition,
	PortConnection:      matchPortConnection,
	SignalDefinition:    matchSignalDefinition,
	AssignStatement:     matchAssignStatement,
	ParameterDefinition: matchParameterDefinition,
}

// Match applies the grammar of kind to line.
func Match(line string, kind Kind) (Fields, bool) {
	grammar, ok := grammars[kind]
	if !ok {
		return Fields{}, false
	}
	return grammar(line)
}

// Identifier returns the identifying name of a declaration line, ignoring
// any inline comment.
func Identifier(line string, kind Kind) (string, bool) {
	if IsComment(line) {
		return "", false
	}
	functional, _, _ := SplitComment(line)
	fields, ok := Match(functional, kind)
	if !ok {
		return "", false
	}
	return fields.Name, true
}

// IsComment reports whether the first non-whitespace text of line opens a comment.
func IsComment(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*")
}

// SplitComment splits line at the first inline comment opener outside a
// string literal. The functional part keeps its leading whitespace and
// loses its trailing whitespace; comment is the text after the opener with
// trailing whitespace removed.
func SplitComment(line string) (functional, comment string, ok bool) {
	idx := commentIndex(line)
	if idx < 0 {
		return strings.TrimRight(line, " \t\r"), "", false
	}
	return strings.TrimRight(line[:idx], " \t"), strings.TrimRight(line[idx+len(CommentOpener):], " \t\r"), true
}

// commentIndex returns the offset of the first "//" that is not inside a
// double-quoted string, or -1. A backslash escapes the next byte in a string.
func commentIndex(line string) int {
	inString := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case !inString && strings.HasPrefix(line[i:], CommentOpener):
			return i
		}
	}
	return -1
}

// ParsedLine is one line of a block split into its parts.
type ParsedLine struct {
	Raw        string
	Indent     string
	Functional string
	Comment    string
	HasComment bool

	// IsComment marks a line that holds nothing but a comment.
	IsComment bool

	// Fields is nil when the functional text did not match.
	Fields *Fields
}

// Parse splits line and matches its functional text against kind.
func Parse(line string, kind Kind) ParsedLine {
	p := ParsedLine{Raw: line}
	p.Indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]

	if IsComment(line) {
		p.IsComment = true
		return p
	}

	p.Functional, p.Comment, p.HasComment = SplitComment(line)
	if fields, ok := Match(p.Functional, kind); ok {
		p.Fields = &fields
	}
	return p
}

// SplitLines splits a block on newlines, keeping empty lines.
func SplitLines(block string) []string {
	return strings.Split(block, "\n")
}
