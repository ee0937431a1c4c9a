// Package bus computes bit ranges for packing an ordered list of signals
// into a flat vector and emits the matching assignments.
package bus

import (
	"fmt"
	"strconv"
)

// Range is the part of a bus occupied by one signal.
type Range struct {
	Low, High int

	// Base and Size describe an indexed part-select; they are set only
	// when Indexed is true.
	Base, Size string
	Indexed    bool
}

// String renders the range as a Verilog select, brackets included.
func (r Range) String() string {
	switch {
	case r.Indexed:
		return fmt.Sprintf("[%s +: %s]", r.Base, r.Size)
	case r.Low == r.High:
		return "[" + strconv.Itoa(r.Low) + "]"
	default:
		return fmt.Sprintf("[%d:%d]", r.High, r.Low)
	}
}

// Slice pairs a signal name with its range.
type Slice struct {
	Name  string
	Range Range
}

// Allocate assigns contiguous, non-overlapping ranges to signals in order,
// starting at bit 0. When every width is numeric the ranges are static
// [high:low] selects; otherwise they are indexed part-selects whose base is
// the running textual sum of the preceding widths.
//
// Widths are not validated: a zero or negative width yields a degenerate
// range rather than an error.
func Allocate(signals []Signal) []Slice {
	if len(signals) == 0 {
		return nil
	}
	if AllStatic(signals) {
		return allocateStatic(signals)
	}
	return allocateMixed(signals)
}

func allocateStatic(signals []Signal) []Slice {
	slices := make([]Slice, 0, len(signals))
	low := 0
	for _, s := range signals {
		high := low + s.Width.N() - 1
		slices = append(slices, Slice{Name: s.Name, Range: Range{Low: low, High: high}})
		low = high + 1
	}
	return slices
}

func allocateMixed(signals []Signal) []Slice {
	slices := make([]Slice, 0, len(signals))
	base := "0"
	for i, s := range signals {
		size := s.Width.String()
		slices = append(slices, Slice{
			Name:  s.Name,
			Range: Range{Base: base, Size: size, Indexed: true},
		})
		if i == 0 {
			base = size
		} else {
			base = base + "+" + size
		}
	}
	return slices
}
