package bus

import "fmt"

// NameFunc maps a signal name to the identifier used in generated code.
type NameFunc func(string) string

func identity(s string) string { return s }

// Pack returns one `assign bus[range] = signal;` statement per signal.
func Pack(bus string, signals []Signal, name NameFunc) []string {
	if name == nil {
		name = identity
	}
	slices := Allocate(signals)
	lines := make([]string, 0, len(slices))
	for _, s := range slices {
		lines = append(lines, fmt.Sprintf("assign %s%s = %s;", bus, s.Range, name(s.Name)))
	}
	return lines
}

// Unpack returns one `assign signal = bus[range];` statement per signal.
func Unpack(bus string, signals []Signal, name NameFunc) []string {
	if name == nil {
		name = identity
	}
	slices := Allocate(signals)
	lines := make([]string, 0, len(slices))
	for _, s := range slices {
		lines = append(lines, fmt.Sprintf("assign %s = %s%s;", name(s.Name), bus, s.Range))
	}
	return lines
}

// TotalWidth returns the width of the packed vector: a number when every
// width is numeric, otherwise the textual sum of all widths.
func TotalWidth(signals []Signal) Width {
	if len(signals) == 0 {
		return Bits(0)
	}
	if AllStatic(signals) {
		total := 0
		for _, s := range signals {
			total += s.Width.N()
		}
		return Bits(total)
	}
	expr := signals[0].Width.String()
	for _, s := range signals[1:] {
		expr += "+" + s.Width.String()
	}
	return Width{expr: expr}
}
