package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/template"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/config"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/host"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/registry"
	"github.com/robert-at-pretension-io/verilog-tmpl/internal/validator"
)

var (
	renderDataFlag   string
	renderOutputFlag string
	renderWatchFlag  bool
	renderStrictFlag bool
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [template...]",
	Short: "Render templates",
	Long: `Render executes each template with the data file and writes the result.

A single named template is written to stdout unless --output is given.
Without arguments, every template matched by render.templates in the
config file is rendered next to its source, minus the template extension.

Examples:
  # Render one template to stdout
  verilog-tmpl render rtl/top.sv.tmpl --data top.yaml

  # Render all configured templates and re-render on change
  verilog-tmpl render --watch
`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderDataFlag, "data", "d", "", "YAML or JSON data file")
	renderCmd.Flags().StringVarP(&renderOutputFlag, "output", "o", "", "output file (single template only)")
	renderCmd.Flags().BoolVarP(&renderWatchFlag, "watch", "w", false, "re-render when a template or the data file changes")
	renderCmd.Flags().BoolVar(&renderStrictFlag, "strict", false, "fail when an operation reports an error")
}

// job is one template and where its output goes; an empty output means
// the command's stdout.
type job struct {
	template string
	output   string
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if renderDataFlag != "" {
		cfg.Render.Data = renderDataFlag
	}
	if renderStrictFlag {
		cfg.Render.Strict = true
	}

	jobs, err := planJobs(cfg, args, renderOutputFlag)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())
	r, err := newRenderer(cfg, logger)
	if err != nil {
		return err
	}

	if err := r.runAll(jobs, cmd.OutOrStdout()); err != nil && !renderWatchFlag {
		return err
	}
	if !renderWatchFlag {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.watch(ctx, jobs, cmd.OutOrStdout())
}

func planJobs(cfg *config.Config, args []string, output string) ([]job, error) {
	if len(args) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		templates, err := cfg.ResolveTemplates(wd)
		if err != nil {
			return nil, fmt.Errorf("resolving templates: %w", err)
		}
		if len(templates) == 0 {
			return nil, errors.New("no templates given and none matched render.templates")
		}
		args = templates
		if output == "" {
			jobs := make([]job, len(args))
			for i, t := range args {
				jobs[i] = job{template: t, output: cfg.OutputPath(t)}
			}
			return jobs, nil
		}
	}
	if output != "" && len(args) > 1 {
		return nil, errors.New("--output needs exactly one template")
	}

	jobs := make([]job, len(args))
	for i, t := range args {
		jobs[i] = job{template: t, output: output}
	}
	return jobs, nil
}

// renderer executes templates against one registry. Errors reported by
// operations are logged and counted per render.
type renderer struct {
	cfg       *config.Config
	logger    *slog.Logger
	registry  *registry.Registry
	collector *validator.Collector
}

func newRenderer(cfg *config.Config, logger *slog.Logger) (*renderer, error) {
	r := &renderer{
		cfg:       cfg,
		logger:    logger,
		collector: &validator.Collector{},
	}
	logReporter := validator.NewSlogReporter(logger)
	reporter := validator.ReporterFunc(func(err error) {
		logReporter.Report(err)
		r.collector.Report(err)
	})

	reg, err := registry.New(
		registry.WithReporter(reporter),
		registry.WithIndenter(host.Indenter{Unit: cfg.Indent}),
		registry.WithInstancePrefix(cfg.InstancePrefix),
	)
	if err != nil {
		return nil, fmt.Errorf("building operation registry: %w", err)
	}
	r.registry = reg
	return r, nil
}

func (r *renderer) runAll(jobs []job, stdout io.Writer) error {
	var errs []error
	for _, j := range jobs {
		if err := r.run(j, stdout); err != nil {
			r.logger.Error("render failed", slog.String("template", j.template), slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *renderer) run(j job, stdout io.Writer) error {
	var buf bytes.Buffer
	if err := r.render(j.template, &buf); err != nil {
		return err
	}
	if j.output == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(j.output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", j.output, err)
	}
	r.logger.Debug("rendered", slog.String("template", j.template), slog.String("output", j.output))
	return nil
}

// render executes one template into w.
func (r *renderer) render(path string, w io.Writer) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}
	data, err := loadData(r.cfg.Render.Data)
	if err != nil {
		return err
	}

	tc := r.cfg.Template
	tmpl, err := template.New(filepath.Base(path)).
		Delims(tc.LeftDelim, tc.RightDelim).
		Option("missingkey=" + tc.MissingKey).
		Funcs(r.registry.FuncMap()).
		Parse(string(src))
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	reported := len(r.collector.Errors())
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	if errs := r.collector.Errors()[reported:]; r.cfg.Render.Strict && len(errs) > 0 {
		return fmt.Errorf("%s: %d operation error(s): %w", path, len(errs), errors.Join(errs...))
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// loadData reads a YAML or JSON data file. No path means no data.
func loadData(path string) (map[string]any, error) {
	data := map[string]any{}
	if path == "" {
		return data, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing data file %s: %w", path, err)
	}
	return data, nil
}

// watch re-renders every job when a template or the data file is written
// or recreated. It watches the parent directories and ignores other files.
func (r *renderer) watch(ctx context.Context, jobs []job, stdout io.Writer) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	inputs := map[string]bool{}
	dirs := map[string]bool{}
	track := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		inputs[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for _, j := range jobs {
		track(j.template)
	}
	if r.cfg.Render.Data != "" {
		track(r.cfg.Render.Data)
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	r.logger.Info("watching for changes", slog.Int("inputs", len(inputs)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !inputs[abs] {
				continue
			}
			r.logger.Debug("change detected", slog.String("path", abs))
			_ = r.runAll(jobs, stdout)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
