package generators

import (
	"strings"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/format"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/matcher"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/validator"
)

// DefaultInstancePrefix is prepended to the module name when an instance
// has no explicit name.
const DefaultInstancePrefix = "i_"

// Connection binds a port to an expression. An empty Signal connects the
// port to a net of the same name.
type Connection struct {
	Port   string `json:"port"`
	Signal string `json:"signal,omitempty"`
}

// Instance describes one module instantiation.
type Instance struct {
	Module string
	Name   string
	Ports  []Connection
	Params []Connection
}

// Instantiate renders inst with its parameter overrides and port list laid
// out as named connections, each list aligned through f and indented one
// level.
func Instantiate(inst Instance, f *format.Formatter, prefix string) (string, error) {
	if inst.Module == "" {
		return "", validator.Errorf("instantiate", "module name is required")
	}
	if f == nil {
		f = &format.Formatter{}
	}
	name := inst.Name
	if name == "" {
		name = prefix + inst.Module
	}

	var b strings.Builder
	b.WriteString(inst.Module)
	if len(inst.Params) > 0 {
		b.WriteString(" #(\n")
		b.WriteString(f.FormatBody(connections(inst.Params), matcher.PortConnection, 1))
		b.WriteString("\n)")
	}
	b.WriteString(" " + name + " (")
	if len(inst.Ports) > 0 {
		b.WriteString("\n")
		b.WriteString(f.FormatBody(connections(inst.Ports), matcher.PortConnection, 1))
		b.WriteString("\n")
	}
	b.WriteString(");")
	return b.String(), nil
}

func connections(conns []Connection) string {
	lines := make([]string, len(conns))
	for i, c := range conns {
		sig := c.Signal
		if sig == "" {
			sig = c.Port
		}
		lines[i] = "." + c.Port + "(" + sig + ")"
		if i < len(conns)-1 {
			lines[i] += ","
		}
	}
	return strings.Join(lines, "\n")
}
