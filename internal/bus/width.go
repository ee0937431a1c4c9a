package bus

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Width is the bit width of a signal: either a concrete count or a
// symbolic expression such as "DATA_W".
type Width struct {
	bits int
	expr string
}

// Bits returns a numeric width.
func Bits(n int) Width {
	return Width{bits: n}
}

// Expr returns a symbolic width. Expressions that spell a plain decimal
// integer are folded into numeric widths.
func Expr(s string) Width {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Width{bits: n}
	}
	return Width{expr: s}
}

// IsStatic reports whether the width is a concrete integer.
func (w Width) IsStatic() bool {
	return w.expr == ""
}

// N returns the numeric width; it is zero for symbolic widths.
func (w Width) N() int {
	return w.bits
}

func (w Width) String() string {
	if w.IsStatic() {
		return strconv.Itoa(w.bits)
	}
	return w.expr
}

// MarshalJSON encodes static widths as numbers and symbolic widths as strings.
func (w Width) MarshalJSON() ([]byte, error) {
	if w.IsStatic() {
		return json.Marshal(w.bits)
	}
	return json.Marshal(w.expr)
}

// UnmarshalJSON accepts a number or a string.
func (w *Width) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*w = Bits(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("width must be a number or an expression: %w", err)
	}
	*w = Expr(s)
	return nil
}

// Signal is one named member of a packed bus.
type Signal struct {
	Name  string `json:"name"`
	Width Width  `json:"width"`
}

// AllStatic reports whether every signal has a numeric width.
func AllStatic(signals []Signal) bool {
	for _, s := range signals {
		if !s.Width.IsStatic() {
			return false
		}
	}
	return true
}
