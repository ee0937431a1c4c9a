package matcher

import (
	"regexp"
	"strings"
)

// Building blocks shared by the grammars.
const (
	identExpr    = `[A-Za-z_][\w$]*`
	typeExpr     = `[A-Za-z_]\w*(?:::[A-Za-z_]\w*)*`
	signingExpr  = `(?:\s+(signed|unsigned)\b)?`
	dimsExpr     = `((?:\[[^\]]*\]\s*)*)`
	paramValExpr = `((?:\{[^{}]*\}|\([^()]*\)|"[^"]*"|[^,;{}()"])*)`
)

var (
	// Pattern: <direction> [type [signing]] [packed] <name> [unpacked] <rest>
	portDefPattern = regexp.MustCompile(`^\s*(input|output|inout)\b\s*` +
		`(?:(` + typeExpr + `)\b` + signingExpr + `\s*)?` +
		dimsExpr + `(` + identExpr + `)\s*` + dimsExpr + `(.*)$`)

	// Pattern: .<name> ( <connection> ) [,]
	portConnPattern = regexp.MustCompile(`^\s*\.\s*(` + identExpr + `)\s*\((.*)\)\s*(,?)\s*$`)

	// Pattern: <type> [signing] [packed] <name> [unpacked] <rest>
	signalDefPattern = regexp.MustCompile(`^\s*(wire|logic|reg|bit|int)\b` + signingExpr + `\s*` +
		dimsExpr + `(` + identExpr + `)\s*` + dimsExpr + `(.*)$`)

	// Pattern: assign <lhs> = <rhs> ;
	assignPattern = regexp.MustCompile(`^\s*assign\b\s*([^=;\s][^=;]*?)\s*=\s*([^;]*?)\s*;(.*)$`)

	// Pattern: <keyword> [type [signing]] [packed] <name> [unpacked] [= <value>] <,|;>
	paramDefPattern = regexp.MustCompile(`^\s*(parameter|localparam|specparam)\b\s*` +
		`(?:(` + typeExpr + `)\b` + signingExpr + `\s*)?` +
		dimsExpr + `(` + identExpr + `)\s*` + dimsExpr +
		`(?:=\s*` + paramValExpr + `)?([,;])(.*)$`)
)

// matchPortDefinition returns the fields of a module port declaration
func matchPortDefinition(line string) (Fields, bool) {
	m := portDefPattern.FindStringSubmatch(line)
	if m == nil {
		return Fields{}, false
	}
	return Fields{
		Kind:     PortDefinition,
		Keyword:  m[1],
		Type:     m[2],
		Signing:  m[3],
		Packed:   strings.TrimSpace(m[4]),
		Name:     m[5],
		Unpacked: strings.TrimSpace(m[6]),
		Rest:     strings.TrimSpace(m[7]),
	}, true
}

// matchPortConnection returns the fields of an instance port connection
func matchPortConnection(line string) (Fields, bool) {
	m := portConnPattern.FindStringSubmatch(line)
	if m == nil {
		return Fields{}, false
	}
	return Fields{
		Kind:       PortConnection,
		Name:       m[1],
		Value:      strings.TrimSpace(m[2]),
		Terminator: m[3],
	}, true
}

// matchSignalDefinition returns the fields of a net or variable declaration
func matchSignalDefinition(line string) (Fields, bool) {
	m := signalDefPattern.FindStringSubmatch(line)
	if m == nil {
		return Fields{}, false
	}
	return Fields{
		Kind:     SignalDefinition,
		Keyword:  m[1],
		Signing:  m[2],
		Packed:   strings.TrimSpace(m[3]),
		Name:     m[4],
		Unpacked: strings.TrimSpace(m[5]),
		Rest:     strings.TrimSpace(m[6]),
	}, true
}

// matchAssignStatement returns the fields of a continuous assignment
func matchAssignStatement(line string) (Fields, bool) {
	m := assignPattern.FindStringSubmatch(line)
	if m == nil {
		return Fields{}, false
	}
	return Fields{
		Kind:       AssignStatement,
		Keyword:    "assign",
		Name:       m[1],
		Value:      m[2],
		Terminator: ";",
		Rest:       strings.TrimSpace(m[3]),
	}, true
}

// matchParameterDefinition returns the fields of a parameter declaration
func matchParameterDefinition(line string) (Fields, bool) {
	m := paramDefPattern.FindStringSubmatch(line)
	if m == nil {
		return Fields{}, false
	}
	return Fields{
		Kind:       ParameterDefinition,
		Keyword:    m[1],
		Type:       m[2],
		Signing:    m[3],
		Packed:     strings.TrimSpace(m[4]),
		Name:       m[5],
		Unpacked:   strings.TrimSpace(m[6]),
		Value:      strings.TrimSpace(m[7]),
		Terminator: m[8],
		Rest:       strings.TrimSpace(m[9]),
	}, true
}
