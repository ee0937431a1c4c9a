// Package decl emits one declaration statement per signal or parameter.
package decl

import (
	"fmt"
	"strings"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/bus"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/literal"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/validator"
)

// Net and variable keywords accepted by Signals.
const (
	Wire  = "wire"
	Reg   = "reg"
	Logic = "logic"
)

// Parameter keywords accepted by Params.
const (
	Parameter  = "parameter"
	Localparam = "localparam"
)

// Param is one named parameter with its value expression.
type Param struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Signals returns `keyword [W-1:0] name;` for every signal. Single-bit
// signals get no dimension; symbolic widths become [expr-1:0].
func Signals(keyword string, signals []bus.Signal, name bus.NameFunc) ([]string, error) {
	if name == nil {
		name = func(s string) string { return s }
	}
	lines := make([]string, 0, len(signals))
	for _, s := range signals {
		dim := literal.SymbolicArrayWidth(s.Width.String())
		if s.Width.IsStatic() {
			var err error
			dim, err = literal.ArrayWidth(s.Width.N())
			if err != nil {
				return nil, validator.WithOp("declare", fmt.Errorf("signal %s: %w", s.Name, err))
			}
		}
		lines = append(lines, statement(keyword, dim, name(s.Name)))
	}
	return lines, nil
}

func statement(keyword, dim, name string) string {
	parts := []string{keyword}
	if dim != "" {
		parts = append(parts, dim)
	}
	parts = append(parts, name)
	return strings.Join(parts, " ") + ";"
}

// Params returns `keyword NAME = value;` for every parameter.
func Params(keyword string, params []Param) []string {
	lines := make([]string, 0, len(params))
	for _, p := range params {
		lines = append(lines, fmt.Sprintf("%s %s = %s;", keyword, p.Name, p.Value))
	}
	return lines
}
