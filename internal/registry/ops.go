package registry

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/bus"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/casing"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/decl"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/filters"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/generators"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/literal"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/matcher"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/validator"
)

func (r *Registry) operations() template.FuncMap {
	return template.FuncMap{
		"autoformatModulePorts":       r.autoformat(matcher.PortDefinition),
		"autoformatInstancePorts":     r.autoformat(matcher.PortConnection),
		"autoformatSignalDefinitions": r.autoformat(matcher.SignalDefinition),
		"autoformatAssignStatements":  r.autoformat(matcher.AssignStatement),
		"autoformatParameterList":     r.autoformat(matcher.ParameterDefinition),

		"removeLastComma":              filters.RemoveLastComma,
		"removeDuplicateModulePorts":   deduplicate(matcher.PortDefinition),
		"removeDuplicateInstancePorts": deduplicate(matcher.PortConnection),
		"excludeListModulePorts":       r.exclude("excludeListModulePorts", matcher.PortDefinition),
		"excludeListInstancePorts":     r.exclude("excludeListInstancePorts", matcher.PortConnection),

		"packBus":   r.packBus,
		"unpackBus": r.unpackBus,

		"declareWires":       r.declare("declareWires", decl.Wire),
		"declareRegisters":   r.declare("declareRegisters", decl.Reg),
		"declareLogic":       r.declare("declareLogic", decl.Logic),
		"declareParameters":  r.declareParams("declareParameters", decl.Parameter),
		"declareLocalparams": r.declareParams("declareLocalparams", decl.Localparam),

		"onehotDecode":   r.onehotDecode,
		"priorityEncode": r.priorityEncode,
		"bitReverse":     r.swap("bitReverse", generators.BitReverse),
		"nibbleSwap":     r.swap("nibbleSwap", generators.NibbleSwap),
		"byteSwap":       r.swap("byteSwap", generators.ByteSwap),
		"wordSwap":       r.swap("wordSwap", generators.WordSwap),
		"instantiate":    r.instantiate,

		"arrayWidth":    r.arrayWidth,
		"busArrayWidth": r.busArrayWidth,
		"invert":        r.invert,
		"clog2":         r.clog2,
		"isPowerOfTwo":  r.isPowerOfTwo,
		"caseStyle":     r.caseStyle,
	}
}

// fail reports err for op. Operations return their zero value after
// calling it.
func (r *Registry) fail(op string, err error) {
	r.reporter.Report(validator.WithOp(op, err))
}

// check validates a non-empty argument list against def.
func (r *Registry) check(op string, def validator.Definition, n int, data any) error {
	if n == 0 {
		return nil
	}
	return r.contracts.Check(op, def, data)
}

func lines(l []string) string {
	return strings.Join(l, "\n")
}

func first[T any](vals []T) (T, bool) {
	var zero T
	if len(vals) == 0 {
		return zero, false
	}
	return vals[0], true
}

func (r *Registry) autoformat(kind matcher.Kind) func(block string, indent ...int) string {
	return func(block string, indent ...int) string {
		levels, _ := first(indent)
		return r.formatter.Format(block, kind, levels)
	}
}

func deduplicate(kind matcher.Kind) func(block string, reverse ...bool) string {
	return func(block string, reverse ...bool) string {
		rev, _ := first(reverse)
		return filters.Deduplicate(block, kind, rev)
	}
}

func (r *Registry) exclude(op string, kind matcher.Kind) func(block string, names any) string {
	return func(block string, names any) string {
		list, err := toNames(names)
		if err != nil {
			r.fail(op, err)
			return ""
		}
		out, err := filters.Exclude(block, kind, list)
		if err != nil {
			r.fail(op, err)
			return ""
		}
		return out
	}
}

// signals coerces and checks a signal list argument.
func (r *Registry) signals(op string, arg any) ([]bus.Signal, error) {
	sigs, err := toSignals(arg)
	if err != nil {
		return nil, err
	}
	if err := r.check(op, validator.Signals, len(sigs), sigs); err != nil {
		return nil, err
	}
	return sigs, nil
}

// naming builds the identifier transform from the optional
// prefix, suffix and case style arguments.
func naming(args []string) (bus.NameFunc, error) {
	var prefix, suffix, style string
	switch {
	case len(args) > 2:
		style = args[2]
		fallthrough
	case len(args) > 1:
		suffix = args[1]
		fallthrough
	case len(args) > 0:
		prefix = args[0]
	}
	st, err := casing.ParseStyle(style)
	if err != nil {
		return nil, err
	}
	return func(name string) string {
		return prefix + st.Apply(name) + suffix
	}, nil
}

func (r *Registry) busOp(op string, emit func(string, []bus.Signal, bus.NameFunc) []string) func(string, any, ...string) string {
	return func(busName string, signals any, opts ...string) string {
		sigs, err := r.signals(op, signals)
		if err != nil {
			r.fail(op, err)
			return ""
		}
		name, err := naming(opts)
		if err != nil {
			r.fail(op, err)
			return ""
		}
		return r.formatter.Format(lines(emit(busName, sigs, name)), matcher.AssignStatement, 0)
	}
}

func (r *Registry) packBus(busName string, signals any, opts ...string) string {
	return r.busOp("packBus", bus.Pack)(busName, signals, opts...)
}

func (r *Registry) unpackBus(busName string, signals any, opts ...string) string {
	return r.busOp("unpackBus", bus.Unpack)(busName, signals, opts...)
}

func (r *Registry) declare(op, keyword string) func(signals any, opts ...string) string {
	return func(signals any, opts ...string) string {
		sigs, err := r.signals(op, signals)
		if err != nil {
			r.fail(op, err)
			return ""
		}
		name, err := naming(opts)
		if err != nil {
			r.fail(op, err)
			return ""
		}
		out, err := decl.Signals(keyword, sigs, name)
		if err != nil {
			r.fail(op, err)
			return ""
		}
		return r.formatter.Format(lines(out), matcher.SignalDefinition, 0)
	}
}

func (r *Registry) declareParams(op, keyword string) func(params any) string {
	return func(params any) string {
		ps, err := toParams(params)
		if err != nil {
			r.fail(op, err)
			return ""
		}
		if err := r.check(op, validator.Params, len(ps), ps); err != nil {
			r.fail(op, err)
			return ""
		}
		return r.formatter.Format(lines(decl.Params(keyword, ps)), matcher.ParameterDefinition, 0)
	}
}

func (r *Registry) onehotDecode(signal string, indexBits any) string {
	const op = "onehotDecode"
	n, err := toInt(indexBits)
	if err != nil {
		r.fail(op, err)
		return ""
	}
	out, err := generators.OnehotDecode(signal, n)
	if err != nil {
		r.fail(op, err)
		return ""
	}
	return r.formatter.Format(lines(out), matcher.AssignStatement, 0)
}

func (r *Registry) priorityEncode(entries any) string {
	const op = "priorityEncode"
	es, err := toEntries(entries)
	if err != nil {
		r.fail(op, err)
		return ""
	}
	if err := r.check(op, validator.Entries, len(es), es); err != nil {
		r.fail(op, err)
		return ""
	}
	return generators.PriorityEncode(es)
}

func (r *Registry) swap(op string, fn func(string, int) (string, error)) func(signal string, count any) string {
	return func(signal string, count any) string {
		n, err := toInt(count)
		if err != nil {
			r.fail(op, err)
			return ""
		}
		out, err := fn(signal, n)
		if err != nil {
			r.fail(op, err)
			return ""
		}
		return out
	}
}

// instantiate takes the module name, the port list and optionally an
// instance name and a parameter list.
func (r *Registry) instantiate(module string, ports any, rest ...any) string {
	const op = "instantiate"
	inst := generators.Instance{Module: module}

	var err error
	if inst.Ports, err = r.connections(op, ports); err != nil {
		r.fail(op, err)
		return ""
	}
	if len(rest) > 0 && rest[0] != nil {
		name, ok := rest[0].(string)
		if !ok {
			r.fail(op, validator.Errorf(op, "instance name must be a string, got %T", rest[0]))
			return ""
		}
		inst.Name = name
	}
	if len(rest) > 1 {
		if inst.Params, err = r.connections(op, rest[1]); err != nil {
			r.fail(op, err)
			return ""
		}
	}
	if len(rest) > 2 {
		r.fail(op, validator.Errorf(op, "too many arguments"))
		return ""
	}

	out, err := generators.Instantiate(inst, r.formatter, r.prefix)
	if err != nil {
		r.fail(op, err)
		return ""
	}
	return out
}

func (r *Registry) connections(op string, arg any) ([]generators.Connection, error) {
	conns, err := toConnections(arg)
	if err != nil {
		return nil, err
	}
	if err := r.check(op, validator.Connections, len(conns), conns); err != nil {
		return nil, err
	}
	return conns, nil
}

func (r *Registry) arrayWidth(width any) string {
	const op = "arrayWidth"
	n, err := toInt(width)
	if err != nil {
		r.fail(op, err)
		return ""
	}
	out, err := literal.ArrayWidth(n)
	if err != nil {
		r.fail(op, err)
		return ""
	}
	return out
}

// busArrayWidth is the packed dimension of the vector packBus fills.
func (r *Registry) busArrayWidth(signals any) string {
	const op = "busArrayWidth"
	sigs, err := r.signals(op, signals)
	if err != nil {
		r.fail(op, err)
		return ""
	}
	if len(sigs) == 0 {
		r.fail(op, validator.Errorf(op, "bus has no signals"))
		return ""
	}
	total := bus.TotalWidth(sigs)
	if !total.IsStatic() {
		return literal.SymbolicArrayWidth(total.String())
	}
	out, err := literal.ArrayWidth(total.N())
	if err != nil {
		r.fail(op, err)
		return ""
	}
	return out
}

func (r *Registry) invert(direction string) string {
	out, err := literal.Invert(direction)
	if err != nil {
		r.fail("invert", err)
		return ""
	}
	return out
}

func (r *Registry) clog2(x any) string {
	const op = "clog2"
	n, err := toInt(x)
	if err != nil {
		r.fail(op, err)
		return ""
	}
	out, err := literal.Clog2(n)
	if err != nil {
		r.fail(op, err)
		return ""
	}
	return strconv.Itoa(out)
}

func (r *Registry) isPowerOfTwo(x any) bool {
	n, err := toInt(x)
	if err != nil {
		r.fail("isPowerOfTwo", err)
		return false
	}
	return literal.IsPowerOfTwo(n)
}

func (r *Registry) caseStyle(text, style string) string {
	st, err := casing.ParseStyle(style)
	if err != nil {
		r.fail("caseStyle", err)
		return ""
	}
	return st.Apply(text)
}
