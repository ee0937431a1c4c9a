package cli

// Test Plan for CLI:
// - ops lists the version and every operation
// - ops --require fails for an unsatisfied constraint
// - init writes a loadable default config and asks before overwriting
// - render writes a single template to stdout or --output
// - render without arguments renders every configured template in place
// - render --strict fails when an operation reports an error
// - render honours delimiters from --config
// - watch returns when its context is cancelled

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cfgFile, verbose = "", false
	renderDataFlag, renderOutputFlag = "", ""
	renderWatchFlag, renderStrictFlag = false, false
	opsRequireFlag = ""
	initForceFlag = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// workspace chdirs into a fresh directory with no config in reach.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOps(t *testing.T) {
	out, _, err := execute(t, "", "ops")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "operations 1.0.0\n"))
	assert.Contains(t, out, "  packBus\n")
	assert.Contains(t, out, "  instantiate\n")

	_, _, err = execute(t, "", "ops", "--require", ">= 1.0, < 2.0")
	assert.NoError(t, err)

	_, _, err = execute(t, "", "ops", "--require", "^2")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	dir := workspace(t)
	path := filepath.Join(dir, "verilog_tmpl.yaml")

	out, _, err := execute(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created verilog_tmpl.yaml")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	writeFile(t, path, "indent: \"\\t\"\n")
	out, _, err = execute(t, "n\n", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")
	cfg, err = config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\t", cfg.Indent)

	_, _, err = execute(t, "", "init", "--force")
	require.NoError(t, err)
	cfg, err = config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "  ", cfg.Indent)
}

const topTemplate = `module {{ .name }} (
  {{ autoformatModulePorts (removeLastComma .ports) 1 }}
);
{{ declareLogic .fields "" "_q" }}
endmodule
`

const topData = `name: top
ports: |-
  input clk,
  output [7:0] q,
fields:
  - valid: 1
  - data: 8
`

const topOutput = `module top (
  input         clk,
  output [7:0]  q
);
logic        valid_q;
logic [7:0]  data_q;
endmodule
`

func TestRenderToStdout(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "top.sv.tmpl"), topTemplate)
	writeFile(t, filepath.Join(dir, "top.yaml"), topData)

	out, _, err := execute(t, "", "render", "top.sv.tmpl", "--data", "top.yaml")
	require.NoError(t, err)
	assert.Equal(t, topOutput, out)
}

func TestRenderToFile(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "top.sv.tmpl"), topTemplate)
	writeFile(t, filepath.Join(dir, "top.yaml"), topData)

	out, _, err := execute(t, "", "render", "top.sv.tmpl", "-d", "top.yaml", "-o", "out.sv")
	require.NoError(t, err)
	assert.Empty(t, out)

	got, err := os.ReadFile(filepath.Join(dir, "out.sv"))
	require.NoError(t, err)
	assert.Equal(t, topOutput, string(got))

	_, _, err = execute(t, "", "render", "top.sv.tmpl", "top.sv.tmpl", "-o", "out.sv")
	assert.Error(t, err)
}

func TestRenderConfiguredTemplates(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "rtl", "swap.v.tmpl"), "assign y = {{ byteSwap \"x\" 2 }};\n")
	writeFile(t, filepath.Join(dir, "rtl", "notes.txt"), "not a template")

	_, _, err := execute(t, "", "render")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "rtl", "swap.v"))
	require.NoError(t, err)
	assert.Equal(t, "assign y = {x[7:0], x[15:8]};\n", string(got))
}

func TestRenderNothingToDo(t *testing.T) {
	workspace(t)
	_, _, err := execute(t, "", "render")
	assert.Error(t, err)
}

func TestRenderStrict(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "bad.v.tmpl"), "wire {{ arrayWidth 0 }} w;\n")

	out, stderr, err := execute(t, "", "render", "bad.v.tmpl")
	require.NoError(t, err)
	assert.Equal(t, "wire  w;\n", out)
	assert.Contains(t, stderr, "arrayWidth")

	_, _, err = execute(t, "", "render", "bad.v.tmpl", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arrayWidth")
}

func TestRenderMissingKey(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "t.v.tmpl"), "{{ .nope }}")

	_, _, err := execute(t, "", "render", "t.v.tmpl")
	assert.Error(t, err)
}

func TestRenderWithConfigDelims(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "alt.yaml"), "template:\n  left_delim: \"<%\"\n  right_delim: \"%>\"\ninstance_prefix: u_\n")
	writeFile(t, filepath.Join(dir, "inst.sv.tmpl"), `<% instantiate "adder" .ports %>`)
	writeFile(t, filepath.Join(dir, "ports.json"), `{"ports": ["a", "b", {"sum": "s"}]}`)

	out, _, err := execute(t, "", "--config", "alt.yaml", "render", "inst.sv.tmpl", "--data", "ports.json")
	require.NoError(t, err)
	assert.Equal(t, "adder u_adder (\n  .a   (a),\n  .b   (b),\n  .sum (s)\n);", out)
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()

	data, err := loadData("")
	require.NoError(t, err)
	assert.Empty(t, data)

	path := filepath.Join(dir, "d.json")
	writeFile(t, path, `{"width": 8, "names": ["a", "b"]}`)
	data, err = loadData(path)
	require.NoError(t, err)
	assert.Equal(t, 8, data["width"])
	assert.Equal(t, []any{"a", "b"}, data["names"])

	_, err = loadData(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestWatchStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "t.v.tmpl")
	writeFile(t, tmpl, "x")

	r, err := newRenderer(config.DefaultConfig(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	assert.NoError(t, r.watch(ctx, []job{{template: tmpl}}, &out))
}
