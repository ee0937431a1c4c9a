package registry

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/bus"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/validator"
)

func newRegistry(t *testing.T, opts ...Option) (*Registry, *validator.Collector) {
	t.Helper()
	c := &validator.Collector{}
	r, err := New(append([]Option{WithReporter(c)}, opts...)...)
	require.NoError(t, err)
	return r, c
}

func call[F any](t *testing.T, r *Registry, name string) F {
	t.Helper()
	fn, ok := r.Lookup(name)
	require.True(t, ok, "operation %s not registered", name)
	typed, ok := fn.(F)
	require.True(t, ok, "operation %s has type %T", name, fn)
	return typed
}

func requireReported(t *testing.T, c *validator.Collector, op string) {
	t.Helper()
	errs := c.Errors()
	require.Len(t, errs, 1)
	var ve *validator.ValidationError
	require.True(t, errors.As(errs[0], &ve), "got %v", errs[0])
	assert.Equal(t, op, ve.Op)
}

func TestNames(t *testing.T) {
	r, _ := newRegistry(t)
	for _, name := range []string{
		"autoformatModulePorts", "autoformatInstancePorts", "autoformatSignalDefinitions",
		"autoformatAssignStatements", "autoformatParameterList",
		"removeLastComma", "removeDuplicateModulePorts", "removeDuplicateInstancePorts",
		"excludeListModulePorts", "excludeListInstancePorts",
		"packBus", "unpackBus",
		"declareWires", "declareRegisters", "declareLogic", "declareParameters", "declareLocalparams",
		"onehotDecode", "priorityEncode", "bitReverse", "nibbleSwap", "byteSwap", "wordSwap", "instantiate",
		"arrayWidth", "busArrayWidth", "invert", "clog2", "isPowerOfTwo", "caseStyle",
	} {
		assert.Contains(t, r.Names(), name)
	}
	assert.IsNonDecreasing(t, r.Names())
}

func TestFuncMapIsACopy(t *testing.T) {
	r, _ := newRegistry(t)
	fm := r.FuncMap()
	delete(fm, "packBus")
	fm["extra"] = strings.ToUpper

	_, ok := r.Lookup("packBus")
	assert.True(t, ok)
	_, ok = r.Lookup("extra")
	assert.False(t, ok)
}

func TestVersion(t *testing.T) {
	r, _ := newRegistry(t)
	assert.Equal(t, Version, r.Version().String())

	ok, err := r.Compatible(">= 1.0, < 2.0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Compatible("^2")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.Compatible("not a constraint")
	assert.Error(t, err)
}

func TestArrayWidth(t *testing.T) {
	r, c := newRegistry(t)
	arrayWidth := call[func(any) string](t, r, "arrayWidth")

	assert.Equal(t, "", arrayWidth(1))
	assert.Equal(t, "[7:0]", arrayWidth(8))
	assert.Equal(t, "[15:0]", arrayWidth("16"))
	assert.Empty(t, c.Errors())

	assert.Equal(t, "", arrayWidth(0))
	requireReported(t, c, "arrayWidth")
}

func TestArrayWidthNonNumeric(t *testing.T) {
	r, c := newRegistry(t)
	assert.Equal(t, "", call[func(any) string](t, r, "arrayWidth")("wide"))
	requireReported(t, c, "arrayWidth")
}

func TestLiterals(t *testing.T) {
	r, c := newRegistry(t)
	invert := call[func(string) string](t, r, "invert")
	clog2 := call[func(any) string](t, r, "clog2")
	pow2 := call[func(any) bool](t, r, "isPowerOfTwo")
	caseStyle := call[func(string, string) string](t, r, "caseStyle")

	assert.Equal(t, "output", invert("input"))
	assert.Equal(t, "input", invert("output"))
	assert.Equal(t, "inout", invert("inout"))
	assert.Equal(t, "0", clog2(1))
	assert.Equal(t, "3", clog2(5))
	assert.Equal(t, "4", clog2(16))
	assert.True(t, pow2(8))
	assert.False(t, pow2(6))
	assert.False(t, pow2(0))
	assert.Equal(t, "ReadData", caseStyle("read_data", "pascal"))
	assert.Empty(t, c.Errors())

	assert.Equal(t, "", clog2(0))
	requireReported(t, c, "clog2")
}

func TestInvertUnknownDirection(t *testing.T) {
	r, c := newRegistry(t)
	assert.Equal(t, "", call[func(string) string](t, r, "invert")("buffer"))
	requireReported(t, c, "invert")
}

func TestCaseStyleUnknown(t *testing.T) {
	r, c := newRegistry(t)
	assert.Equal(t, "", call[func(string, string) string](t, r, "caseStyle")("x", "screaming"))
	requireReported(t, c, "caseStyle")
}

func TestPackBus(t *testing.T) {
	r, c := newRegistry(t)
	pack := call[func(string, any, ...string) string](t, r, "packBus")

	signals := []bus.Signal{{Name: "a", Width: bus.Bits(4)}, {Name: "b", Width: bus.Bits(8)}}
	assert.Equal(t,
		"assign bus[3:0]  = a;\nassign bus[11:4] = b;",
		pack("bus", signals))

	assert.Equal(t,
		"assign bus[3:0]  = s_A_q;\nassign bus[11:4] = s_B_q;",
		pack("bus", signals, "s_", "_q", "upper"))
	assert.Empty(t, c.Errors())
}

func TestUnpackBusFromTemplateData(t *testing.T) {
	r, c := newRegistry(t)
	unpack := call[func(string, any, ...string) string](t, r, "unpackBus")

	signals := []any{
		map[string]any{"valid": 1},
		map[string]any{"data": 8},
	}
	assert.Equal(t,
		"assign valid = bus[0];\nassign data  = bus[8:1];",
		unpack("bus", signals))

	mixed := []any{
		map[string]any{"name": "hdr", "width": 4},
		map[string]any{"name": "body", "width": "DATA_W"},
		map[string]any{"name": "crc", "width": 8},
	}
	assert.Equal(t,
		"assign hdr  = bus[0 +: 4];\nassign body = bus[4 +: DATA_W];\nassign crc  = bus[4+DATA_W +: 8];",
		unpack("bus", mixed))

	assert.Equal(t,
		"assign x = bus[1:0];",
		unpack("bus", `[{"name": "x", "width": 2}]`))
	assert.Empty(t, c.Errors())
}

func TestPackBusEmpty(t *testing.T) {
	r, c := newRegistry(t)
	assert.Equal(t, "", call[func(string, any, ...string) string](t, r, "packBus")("bus", nil))
	assert.Empty(t, c.Errors())
}

func TestPackBusRejectsUnorderedMapping(t *testing.T) {
	r, c := newRegistry(t)
	out := call[func(string, any, ...string) string](t, r, "packBus")("bus", map[string]any{"a": 1, "b": 2})
	assert.Equal(t, "", out)
	requireReported(t, c, "packBus")
	assert.Contains(t, c.Errors()[0].Error(), "no defined order")
}

func TestPackBusRejectsBadWidth(t *testing.T) {
	r, c := newRegistry(t)
	out := call[func(string, any, ...string) string](t, r, "packBus")("bus", []bus.Signal{{Name: "a", Width: bus.Bits(0)}})
	assert.Equal(t, "", out)
	requireReported(t, c, "packBus")
}

func TestBusArrayWidth(t *testing.T) {
	r, c := newRegistry(t)
	width := call[func(any) string](t, r, "busArrayWidth")

	assert.Equal(t, "[11:0]", width([]any{map[string]any{"a": 4}, map[string]any{"b": 8}}))
	assert.Equal(t, "", width([]any{map[string]any{"a": 1}}))
	assert.Equal(t, "[4+DATA_W-1:0]", width([]any{map[string]any{"a": 4}, map[string]any{"b": "DATA_W"}}))
	assert.Empty(t, c.Errors())

	assert.Equal(t, "", width(nil))
	requireReported(t, c, "busArrayWidth")
}

func TestDeclare(t *testing.T) {
	r, c := newRegistry(t)
	wires := call[func(any, ...string) string](t, r, "declareWires")
	logic := call[func(any, ...string) string](t, r, "declareLogic")
	params := call[func(any) string](t, r, "declareLocalparams")

	signals := []any{
		map[string]any{"name": "a", "width": 1},
		map[string]any{"name": "b", "width": "W"},
	}
	assert.Equal(t, "wire          a;\nwire [W-1:0]  b;", wires(signals))
	assert.Equal(t, "logic          a_d;\nlogic [W-1:0]  b_d;", logic(signals, "", "_d"))

	out := params([]any{map[string]any{"DEPTH": 16}, map[string]any{"AW": "$clog2(DEPTH)"}})
	assert.Equal(t, "localparam  DEPTH = 16;\nlocalparam  AW    = $clog2(DEPTH);", out)
	assert.Empty(t, c.Errors())

	assert.Equal(t, "", wires([]any{map[string]any{"name": "1bad", "width": 1}}))
	requireReported(t, c, "declareWires")
}

func TestOnehotDecode(t *testing.T) {
	r, c := newRegistry(t)
	onehot := call[func(string, any) string](t, r, "onehotDecode")

	out := onehot("sel", 2)
	assert.Len(t, strings.Split(out, "\n"), 4)
	for i, line := range strings.Split(out, "\n") {
		assert.Contains(t, line, "sel == 2'd"+string(rune('0'+i)))
	}

	assert.Equal(t, "", onehot("sel", "two"))
	requireReported(t, c, "onehotDecode")

	r, c = newRegistry(t)
	onehot = call[func(string, any) string](t, r, "onehotDecode")
	assert.Equal(t, "", onehot("sel", 64))
	requireReported(t, c, "onehotDecode")
}

func TestPriorityEncode(t *testing.T) {
	r, c := newRegistry(t)
	prio := call[func(any) string](t, r, "priorityEncode")

	assert.Equal(t, "'0", prio(nil))
	assert.Equal(t, "1", prio([]any{map[string]any{"a": "1"}}))
	assert.Equal(t, "a ? 1 : (b ? 2 : (3))", prio([]any{
		map[string]any{"a": "1"},
		map[string]any{"b": 2},
		map[string]any{"c": "3"},
	}))
	assert.Equal(t, "x ? y : (z)", prio([]any{
		map[string]any{"cond": "x", "value": "y"},
		map[string]any{"cond": "w", "value": "z"},
	}))
	assert.Empty(t, c.Errors())
}

func TestSwaps(t *testing.T) {
	r, c := newRegistry(t)
	byteSwap := call[func(string, any) string](t, r, "byteSwap")
	bitReverse := call[func(string, any) string](t, r, "bitReverse")

	assert.Equal(t, "{d[7:0], d[15:8]}", byteSwap("d", 2))
	assert.Equal(t, "{d[0], d[1]}", bitReverse("d", "2"))
	assert.Empty(t, c.Errors())

	assert.Equal(t, "", byteSwap("d", 0))
	requireReported(t, c, "byteSwap")
}

func TestInstantiate(t *testing.T) {
	r, c := newRegistry(t, WithInstancePrefix("u_"))
	inst := call[func(string, any, ...any) string](t, r, "instantiate")

	ports := []any{"clk", map[string]any{"data_in": "d"}}
	params := []any{map[string]any{"DEPTH": 16}}

	assert.Equal(t,
		"fifo #(\n  .DEPTH (16)\n) u_fifo (\n  .clk     (clk),\n  .data_in (d)\n);",
		inst("fifo", ports, "", params))
	assert.Equal(t,
		"fifo core (\n  .clk     (clk),\n  .data_in (d)\n);",
		inst("fifo", ports, "core"))
	assert.Empty(t, c.Errors())

	assert.Equal(t, "", inst("fifo", ports, 7))
	requireReported(t, c, "instantiate")
}

func TestAutoformatKeepsStringLiterals(t *testing.T) {
	r, c := newRegistry(t)
	params := call[func(string, ...int) string](t, r, "autoformatParameterList")

	assert.Equal(t,
		"parameter  URL = \"http://x\";\nparameter  N   = 4; // count",
		params("parameter URL = \"http://x\";\nparameter N = 4; // count"))
	assert.Empty(t, c.Errors())
}

func TestFilters(t *testing.T) {
	r, c := newRegistry(t)
	exclude := call[func(string, any) string](t, r, "excludeListModulePorts")
	dedup := call[func(string, ...bool) string](t, r, "removeDuplicateInstancePorts")

	block := "// clocks\ninput clk,\ninput rst,\ninput clk,\ninput [7:0] data"
	assert.Equal(t, "// clocks\ninput rst,\ninput [7:0] data", exclude(block, []any{"clk"}))
	assert.Equal(t, "// clocks\ninput rst,\ninput [7:0] data", exclude(block, "clk"))

	assert.Equal(t, ".a(x),\n.b(y),", dedup(".a(x),\n.b(y),\n.a(z)"))
	assert.Equal(t, ".b(y),\n.a(z)", dedup(".a(x),\n.b(y),\n.a(z)", true))
	assert.Empty(t, c.Errors())
}

func TestTemplate(t *testing.T) {
	r, c := newRegistry(t)
	tmpl := template.Must(template.New("top").Funcs(r.FuncMap()).Parse(
		"module top (\n" +
			"  {{ autoformatModulePorts (removeLastComma .ports) 1 }}\n" +
			");\n" +
			"{{ declareWires .signals }}\n" +
			"{{ packBus \"flat\" .signals }}\n" +
			"endmodule\n"))

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, map[string]any{
		"ports":   "input clk,\ninput [7:0] d,",
		"signals": []any{map[string]any{"lo": 4}, map[string]any{"hi": 4}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"module top (\n"+
			"  input        clk,\n"+
			"  input [7:0]  d\n"+
			");\n"+
			"wire [3:0]  lo;\n"+
			"wire [3:0]  hi;\n"+
			"assign flat[3:0] = lo;\n"+
			"assign flat[7:4] = hi;\n"+
			"endmodule\n",
		buf.String())
	assert.Empty(t, c.Errors())
}
