// Package generators builds the small recurring pieces of RTL that
// templates otherwise spell out by hand: one-hot decoders, priority
// muxes, lane swaps and module instantiations.
package generators

import (
	"fmt"
	"strings"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/bus"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/validator"
)

// Swap granularities in bits.
const (
	Bit    = 1
	Nibble = 4
	Byte   = 8
	Word   = 16
)

// Entry is one guarded value of a priority encoder.
type Entry struct {
	Cond  string `json:"cond"`
	Value string `json:"value"`
}

// MaxIndexBits bounds OnehotDecode, which emits 2^indexBits lines.
const MaxIndexBits = 16

// OnehotDecode returns one assignment per index 0 .. 2^indexBits-1, each
// comparing signal against that index.
func OnehotDecode(signal string, indexBits int) ([]string, error) {
	if indexBits < 0 {
		return nil, validator.Errorf("onehotDecode", "index bits must not be negative, got %d", indexBits)
	}
	if indexBits > MaxIndexBits {
		return nil, validator.Errorf("onehotDecode", "index bits must be at most %d, got %d", MaxIndexBits, indexBits)
	}
	n := 1 << indexBits
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, fmt.Sprintf("assign %s_onehot[%d] = %s == %s;", signal, i, signal, sized(indexBits, i)))
	}
	return lines, nil
}

func sized(bits, v int) string {
	if bits == 0 {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%d'd%d", bits, v)
}

// PriorityEncode folds entries into a right-associated conditional. Every
// entry but the last is a guard; the last value is the fallback. No
// entries yields the fill literal '0.
func PriorityEncode(entries []Entry) string {
	switch len(entries) {
	case 0:
		return "'0"
	case 1:
		return entries[0].Value
	}
	expr := "(" + entries[len(entries)-1].Value + ")"
	for i := len(entries) - 2; i >= 0; i-- {
		e := entries[i]
		if i == 0 {
			expr = fmt.Sprintf("%s ? %s : %s", e.Cond, e.Value, expr)
		} else {
			expr = fmt.Sprintf("(%s ? %s : %s)", e.Cond, e.Value, expr)
		}
	}
	return expr
}

// swap concatenates count slices of granularity bits each, lowest slice
// first. The width of signal is not checked against count*granularity.
func swap(op, signal string, count, granularity int) (string, error) {
	if count < 1 {
		return "", validator.Errorf(op, "count must be positive, got %d", count)
	}
	if granularity < 1 {
		return "", validator.Errorf(op, "granularity must be positive, got %d", granularity)
	}
	lanes := make([]bus.Signal, count)
	for i := range lanes {
		lanes[i] = bus.Signal{Name: signal, Width: bus.Bits(granularity)}
	}
	parts := make([]string, 0, count)
	for _, s := range bus.Allocate(lanes) {
		parts = append(parts, s.Name+s.Range.String())
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

// BitReverse reverses the bit order of a count-bit signal.
func BitReverse(signal string, count int) (string, error) {
	return swap("bitReverse", signal, count, Bit)
}

// NibbleSwap reverses the nibble order of a signal holding count nibbles.
func NibbleSwap(signal string, count int) (string, error) {
	return swap("nibbleSwap", signal, count, Nibble)
}

// ByteSwap reverses the byte order of a signal holding count bytes.
func ByteSwap(signal string, count int) (string, error) {
	return swap("byteSwap", signal, count, Byte)
}

// WordSwap reverses the 16-bit word order of a signal holding count words.
func WordSwap(signal string, count int) (string, error) {
	return swap("wordSwap", signal, count, Word)
}
