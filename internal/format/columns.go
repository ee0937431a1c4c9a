package format

import (
	"strings"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/matcher"
)

// Columns renders matched fields in the column order of their grammar.
func Columns(f matcher.Fields) string {
	switch f.Kind {
	case matcher.PortDefinition:
		return group(f.Keyword, f.TypeColumn(), f.Packed) + nameAndRest(f)

	case matcher.PortConnection:
		return "." + f.Name + Marker + "(" + f.Value + ")" + f.Terminator

	case matcher.SignalDefinition:
		return group(join(f.Keyword, f.Signing), f.Packed) + nameAndRest(f)

	case matcher.AssignStatement:
		out := f.Keyword + Marker + f.Name + Marker + "= " + f.Value + f.Terminator
		if f.Rest != "" {
			out += " " + f.Rest
		}
		return out

	case matcher.ParameterDefinition:
		out := group(f.Keyword, f.TypeColumn(), f.Packed) + join(f.Name, f.Unpacked)
		if f.Value != "" {
			out += Marker + "= " + f.Value
		}
		out += f.Terminator
		if f.Rest != "" {
			out += " " + f.Rest
		}
		return out
	}
	return ""
}

// group joins the leading columns and ends with the doubled marker that
// separates them from the identifier.
func group(cols ...string) string {
	return strings.Join(cols, Marker) + Marker + Marker
}

func nameAndRest(f matcher.Fields) string {
	out := join(f.Name, f.Unpacked)
	switch {
	case f.Rest == "":
	case strings.HasPrefix(f.Rest, ",") || strings.HasPrefix(f.Rest, ";"):
		out += f.Rest
	default:
		out += " " + f.Rest
	}
	return out
}

func join(a, b string) string {
	switch {
	case b == "":
		return a
	case a == "":
		return b
	default:
		return a + " " + b
	}
}
