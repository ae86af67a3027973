// Command comfortflow loads a workflow definition, validates it, and
// optionally renders its task graph or executes it against placeholder
// templates so the filesystem contract can be inspected end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/buildsim/comfortflow/internal/ctxlog"
	"github.com/buildsim/comfortflow/internal/engine"
	"github.com/buildsim/comfortflow/pkg/comfortmap"
	"github.com/buildsim/comfortflow/pkg/dyncontrib"
	"github.com/buildsim/comfortflow/pkg/pipeline"
	"github.com/buildsim/comfortflow/pkg/pipeline/drawer"
	"github.com/buildsim/comfortflow/pkg/pipeline/measure"
	"github.com/buildsim/comfortflow/pkg/templates"
)

var (
	errUnknownPipeline = errors.New("unknown pipeline")
	errUnknownLevel    = errors.New("unknown log level")
	errUnknownFormat   = errors.New("unknown log format")
)

func main() {
	if err := run(os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "comfortflow: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("comfortflow", flag.ContinueOnError)
	fs.SetOutput(out)

	var (
		name      = fs.String("pipeline", "", `pipeline to load: "comfort" or "dynamic"`)
		inputs    = fs.String("inputs", "", "YAML file binding input slots to values")
		draw      = fs.String("draw", "", "write the task graph as a DOT file and exit")
		execute   = fs.Bool("run", false, "execute the pipeline with placeholder templates")
		outDir    = fs.String("out", "output", "folder the output paths resolve under")
		workers   = fs.Int("workers", 4, "maximum concurrent template invocations")
		logLevel  = fs.String("log-level", "info", "log level: debug, info, warn or error")
		logFormat = fs.String("log-format", "text", "log format: text or json")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(out, *logLevel, *logFormat)
	if err != nil {
		return err
	}

	ctx := ctxlog.WithLogger(context.Background(), logger)

	pipe, registry, err := load(*name)
	if err != nil {
		return err
	}

	bind, err := loadBindings(*inputs)
	if err != nil {
		return err
	}

	if *draw != "" {
		return drawGraph(pipe, *draw)
	}

	if *execute {
		msr := measure.NewDefaultMeasure()
		eng := engine.New(registry,
			engine.WithOutputDir(*outDir),
			engine.WithWorkers(*workers),
			engine.WithRunOptions(measure.PipelineMeasure(msr)),
		)

		return eng.Run(ctx, pipe, bind)
	}

	// Neither drawing nor running: validate the bindings and print the
	// execution order.
	if _, err := pipe.BindInputs(bind); err != nil {
		return errors.Wrap(err, "unable to bind inputs")
	}

	order, err := pipe.TopologicalOrder()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %d tasks\n", pipe.Name(), pipe.TaskCount())
	for _, taskName := range order {
		fmt.Fprintf(out, "  %s\n", taskName)
	}

	return nil
}

// load resolves a pipeline selector to its definition and a registry of
// runnable stand-ins for the templates it references.
func load(name string) (*pipeline.Pipeline, *templates.Registry, error) {
	var (
		pipe  *pipeline.Pipeline
		specs []templates.Spec
		err   error
	)

	switch name {
	case "comfort":
		pipe, err = comfortmap.EntryPoint()
		specs = comfortmap.Specs()
	case "dynamic":
		pipe, err = dyncontrib.EntryPoint()
		specs = dyncontrib.Specs()
	default:
		return nil, nil, errors.Wrapf(errUnknownPipeline, "%q", name)
	}

	if err != nil {
		return nil, nil, err
	}

	registry := templates.NewRegistry()

	for _, spec := range specs {
		var tmpl templates.Template
		if spec.Name == templates.ReadJSONListName {
			tmpl = templates.ReadJSONList()
		} else {
			tmpl = templates.Placeholder(spec)
		}

		if err := registry.Add(tmpl); err != nil {
			return nil, nil, err
		}
	}

	return pipe, registry, nil
}

// loadBindings decodes a YAML mapping of slot names to values. An empty
// path yields empty bindings, which still passes for pipelines whose
// required slots all carry defaults.
func loadBindings(path string) (pipeline.Bindings, error) {
	if path == "" {
		return pipeline.Bindings{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read the bindings file")
	}

	var bind pipeline.Bindings
	if err := yaml.Unmarshal(raw, &bind); err != nil {
		return nil, errors.Wrap(err, "unable to decode the bindings file")
	}

	return bind, nil
}

func drawGraph(pipe *pipeline.Pipeline, path string) error {
	d := drawer.NewSVGDrawer(path)

	opt := drawer.PipelineDrawer(d, nil, pipe)
	if err := opt.New(); err != nil {
		return err
	}

	return opt.Finish()
}

func newLogger(out io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level

	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, errors.Wrapf(errUnknownLevel, "%q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(out, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	default:
		return nil, errors.Wrapf(errUnknownFormat, "%q", format)
	}
}
