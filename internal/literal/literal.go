// Package literal holds the small numeric and keyword helpers that other
// generators build on.
package literal

import (
	"fmt"
	"math/bits"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/validator"
)

// ArrayWidth returns the packed dimension for a vector of w bits:
// "" for a single bit, "[w-1:0]" otherwise.
func ArrayWidth(w int) (string, error) {
	if w < 1 {
		return "", validator.Errorf("arrayWidth", "width must be positive, got %d", w)
	}
	if w == 1 {
		return "", nil
	}
	return fmt.Sprintf("[%d:0]", w-1), nil
}

// SymbolicArrayWidth returns "[expr-1:0]" for a width expression.
func SymbolicArrayWidth(expr string) string {
	return fmt.Sprintf("[%s-1:0]", expr)
}

// Invert swaps input and output; inout is its own inverse.
func Invert(direction string) (string, error) {
	switch direction {
	case "input":
		return "output", nil
	case "output":
		return "input", nil
	case "inout":
		return "inout", nil
	}
	return "", validator.Errorf("invert", "unknown direction %q", direction)
}

// Clog2 returns ceil(log2(x)), the number of bits needed to index x items.
func Clog2(x int) (int, error) {
	if x < 1 {
		return 0, validator.Errorf("clog2", "argument must be positive, got %d", x)
	}
	return bits.Len(uint(x - 1)), nil
}

// IsPowerOfTwo reports whether x is a positive power of two.
func IsPowerOfTwo(x int) bool {
	return x > 0 && x&(x-1) == 0
}
