package validator

import (
	"errors"
	"log/slog"
	"sync"
)

// Reporter is the host's error sink. The host decides whether a reported
// error is fatal.
type Reporter interface {
	Report(err error)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(error)

func (f ReporterFunc) Report(err error) { f(err) }

// Discard drops every report.
var Discard Reporter = ReporterFunc(func(error) {})

type slogReporter struct {
	logger *slog.Logger
}

// NewSlogReporter returns a Reporter that logs each error at warn level.
func NewSlogReporter(logger *slog.Logger) Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogReporter{logger: logger}
}

func (r *slogReporter) Report(err error) {
	if err == nil {
		return
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		r.logger.Warn("validation error", slog.String("op", ve.Op), slog.String("error", err.Error()))
		return
	}
	r.logger.Warn("operation error", slog.String("error", err.Error()))
}

// Collector records reports in order; tests and hosts that batch
// diagnostics use it.
type Collector struct {
	mu     sync.Mutex
	errors []error
}

func (c *Collector) Report(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
}

// Errors returns a copy of the reported errors.
func (c *Collector) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.errors...)
}
