package matcher

import "fmt"

// Kind selects one of the declaration grammars.
type Kind int

const (
	PortDefinition Kind = iota
	PortConnection
	SignalDefinition
	AssignStatement
	ParameterDefinition
)

var kindNames = [...]string{
	PortDefinition:      "port_definition",
	PortConnection:      "port_connection",
	SignalDefinition:    "signal_definition",
	AssignStatement:     "assign_statement",
	ParameterDefinition: "parameter_definition",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Fields holds the pieces extracted from one declaration line.
// Which fields are populated depends on Kind; absent optional fields are empty.
type Fields struct {
	Kind Kind

	// Keyword is the leading token: the port direction, the signal type,
	// "assign", or the parameter keyword.
	Keyword string

	// Type is the optional type word of port and parameter definitions.
	Type string

	// Signing is "signed" or "unsigned" when present.
	Signing string

	Packed   string
	Name     string
	Unpacked string

	// Value is the connection expression, the assign right-hand side or
	// the parameter value.
	Value string

	// Terminator is "," or ";" when the grammar captures one.
	Terminator string

	// Rest is whatever followed the matched declaration on the line.
	Rest string
}

// TypeColumn returns the type word and signing joined by a space.
func (f Fields) TypeColumn() string {
	switch {
	case f.Type == "":
		return f.Signing
	case f.Signing == "":
		return f.Type
	default:
		return f.Type + " " + f.Signing
	}
}
