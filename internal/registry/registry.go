// Package registry exposes the template operations as a flat, immutable
// name → function table suitable for text/template.
package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"text/template"

	"github.com/Masterminds/semver/v3"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/format"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/generators"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/host"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/validator"
)

// Version is the version of the operation set. It changes major when an
// operation is removed or changes signature.
const Version = "1.0.0"

// Registry holds the operation table. It is built once by New and never
// modified, so it may be shared between goroutines.
type Registry struct {
	funcs     template.FuncMap
	formatter *format.Formatter
	reporter  validator.Reporter
	contracts *validator.Validator
	prefix    string
	version   *semver.Version
}

// Option configures a Registry.
type Option func(*Registry)

// WithAligner sets the column aligner used by formatting operations.
func WithAligner(a format.Aligner) Option {
	return func(r *Registry) { r.formatter.Aligner = a }
}

// WithIndenter sets the indenter used by formatting operations.
func WithIndenter(i format.Indenter) Option {
	return func(r *Registry) { r.formatter.Indenter = i }
}

// WithReporter sets the sink that receives validation errors.
func WithReporter(rep validator.Reporter) Option {
	return func(r *Registry) { r.reporter = rep }
}

// WithInstancePrefix sets the prefix of generated instance names.
func WithInstancePrefix(prefix string) Option {
	return func(r *Registry) { r.prefix = prefix }
}

// New builds the operation table.
func New(opts ...Option) (*Registry, error) {
	contracts, err := validator.New()
	if err != nil {
		return nil, fmt.Errorf("loading argument contracts: %w", err)
	}
	version, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("parsing registry version: %w", err)
	}

	r := &Registry{
		formatter: format.New(host.ColumnAligner{}, host.Indenter{Unit: "  "}),
		reporter:  validator.NewSlogReporter(slog.Default()),
		contracts: contracts,
		prefix:    generators.DefaultInstancePrefix,
		version:   version,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.reporter == nil {
		r.reporter = validator.Discard
	}
	r.funcs = r.operations()
	return r, nil
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (any, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered operation names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.funcs))
}

// FuncMap returns a copy of the table for template.Template.Funcs.
func (r *Registry) FuncMap() template.FuncMap {
	return maps.Clone(r.funcs)
}

// Version returns the version of the operation set.
func (r *Registry) Version() *semver.Version {
	return r.version
}

// Compatible reports whether the operation set satisfies constraint,
// e.g. ">= 1.0, < 2.0".
func (r *Registry) Compatible(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	return c.Check(r.version), nil
}
