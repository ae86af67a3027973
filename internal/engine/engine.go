// Package engine provides a reference local executor for pipeline
// definitions. Scheduling honours only the needs edges: tasks with no
// ordering relationship run in parallel, bounded by a worker limit, and
// the first failure cancels everything still waiting.
package engine

import (
	"github.com/buildsim/comfortflow/pkg/pipeline/model"
	"github.com/buildsim/comfortflow/pkg/templates"
)

const defaultWorkers = 4

// Engine executes a validated pipeline against a template registry.
type Engine struct {
	registry *templates.Registry
	outDir   string
	workers  int
	opts     []model.RunOption
}

// Option configures an engine.
type Option func(e *Engine)

// WithWorkers bounds the number of template invocations running at once.
func WithWorkers(workers int) Option {
	return func(e *Engine) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithOutputDir sets the folder all destination paths resolve under.
func WithOutputDir(dir string) Option {
	return func(e *Engine) {
		e.outDir = dir
	}
}

// WithRunOptions attaches run option hooks (drawer, measure) to every run.
func WithRunOptions(opts ...model.RunOption) Option {
	return func(e *Engine) {
		e.opts = append(e.opts, opts...)
	}
}

// New creates an engine backed by the given template registry.
func New(registry *templates.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		outDir:   ".",
		workers:  defaultWorkers,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}
