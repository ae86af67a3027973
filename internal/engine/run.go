package engine

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/buildsim/comfortflow/internal/ctxlog"
	"github.com/buildsim/comfortflow/pkg/pipeline"
	"github.com/buildsim/comfortflow/pkg/templates"
)

// Run binds the inputs, statically checks the pipeline against the
// template registry, and executes every task. It returns on the first
// failure; tasks still waiting on their needs are skipped.
func (e *Engine) Run(ctx context.Context, pipe *pipeline.Pipeline, bind pipeline.Bindings) error {
	logger := ctxlog.FromContext(ctx)

	inputs, err := pipe.BindInputs(bind)
	if err != nil {
		return errors.Wrap(err, "unable to bind inputs")
	}

	if err := e.check(pipe); err != nil {
		return errors.Wrap(err, "invalid pipeline")
	}

	for _, opt := range e.opts {
		if err := opt.New(); err != nil {
			return errors.Wrap(err, "unable to initialise run option")
		}
	}

	arts := newArtifactStore()
	sem := semaphore.NewWeighted(int64(e.workers))

	done := make(map[string]chan struct{}, pipe.TaskCount())
	for _, task := range pipe.Tasks() {
		done[task.Name()] = make(chan struct{})
	}

	logger.Info("starting pipeline run", "pipeline", pipe.Name(), "tasks", pipe.TaskCount(), "workers", e.workers)

	grp, gctx := errgroup.WithContext(ctx)

	for _, task := range pipe.Tasks() {
		task := task

		grp.Go(func() error {
			for _, need := range task.Needs() {
				select {
				case <-gctx.Done():
					return errors.Wrapf(gctx.Err(), "task %q skipped", task.Name())
				case <-done[need]:
				}
			}

			var err error
			if task.Loop() != nil {
				err = e.runLoop(gctx, pipe, task, inputs, arts, sem)
			} else {
				err = e.runTask(gctx, pipe, task, inputs, arts, sem)
			}
			if err != nil {
				return errors.Wrapf(err, "task %q", task.Name())
			}

			close(done[task.Name()])

			return nil
		})
	}

	runErr := grp.Wait()

	for _, opt := range e.opts {
		if err := opt.Finish(); err != nil && runErr == nil {
			runErr = errors.Wrap(err, "unable to finish run option")
		}
	}

	if runErr != nil {
		logger.Error("pipeline run failed", "pipeline", pipe.Name(), "error", runErr)

		return runErr
	}

	logger.Info("pipeline run finished", "pipeline", pipe.Name())

	return nil
}

// check verifies, before anything executes, that every task template is
// registered and that every upstream-output reference names an artifact
// its template actually declares.
func (e *Engine) check(pipe *pipeline.Pipeline) error {
	for _, task := range pipe.Tasks() {
		if _, err := e.registry.Get(task.Template()); err != nil {
			return errors.Wrapf(err, "task %q", task.Name())
		}

		refs := task.Params()
		if loop := task.Loop(); loop != nil {
			refs["__loop__"] = loop.Over
		}

		for _, src := range refs {
			upstream, output, ok := src.OutputRef()
			if !ok {
				continue
			}

			upstreamTask, found := pipe.Task(upstream)
			if !found {
				return errors.Wrapf(pipeline.ErrUnknownTask, "task %q references %q", task.Name(), upstream)
			}

			tmpl, err := e.registry.Get(upstreamTask.Template())
			if err != nil {
				return errors.Wrapf(err, "task %q", upstream)
			}

			if !tmpl.Spec().HasOutput(output) {
				return errors.Wrapf(templates.ErrMissingArtifact, "task %q references %s.%s", task.Name(), upstream, output)
			}
		}
	}

	return nil
}

func (e *Engine) runTask(ctx context.Context, pipe *pipeline.Pipeline, task *pipeline.Task, inputs map[string]string, arts *artifactStore, sem *semaphore.Weighted) error {
	logger := ctxlog.FromContext(ctx)
	info := task.Info()

	for _, opt := range e.opts {
		if err := opt.PrepareTask(info); err != nil {
			return errors.Wrap(err, "unable to prepare task")
		}
	}

	params, err := pipe.ResolveParams(task, inputs, arts.lookup)
	if err != nil {
		return err
	}

	tmpl, err := e.registry.Get(task.Template())
	if err != nil {
		return err
	}

	if err := tmpl.Spec().CheckInputs(params); err != nil {
		return err
	}

	workdir := filepath.Join(e.outDir, ".work", task.Name())
	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return errors.Wrap(err, "unable to create the working directory")
	}

	produced, elapsed, err := e.invoke(ctx, tmpl, templates.Call{Inputs: params, Workdir: workdir}, sem)
	if err != nil {
		return err
	}

	rendered, err := pipe.RenderOutputs(task, params)
	if err != nil {
		return err
	}

	mapped := make(map[string]struct{}, len(rendered))

	for _, mapping := range rendered {
		src, ok := produced[mapping.From]
		if !ok {
			return errors.Wrap(templates.ErrMissingArtifact, mapping.From)
		}

		dest := filepath.Join(e.outDir, mapping.To)
		if err := copyFile(src, dest); err != nil {
			return errors.Wrapf(err, "unable to materialise output %q", mapping.From)
		}

		arts.set(task.Name(), mapping.From, dest)
		mapped[mapping.From] = struct{}{}
	}

	// Unmapped artifacts stay addressable at the path the template
	// produced them at, e.g. the decoded grid manifest.
	for name, src := range produced {
		if _, ok := mapped[name]; !ok {
			arts.set(task.Name(), name, src)
		}
	}

	for _, opt := range e.opts {
		if err := opt.OnTaskDone(info, elapsed); err != nil {
			return errors.Wrap(err, "unable to record task completion")
		}
	}

	logger.Debug("task completed", "task", task.Name(), "elapsed", elapsed)

	return nil
}

// runLoop expands a looped task over the decoded manifest and runs every
// instance, each in its own working directory. Instances are mutually
// independent and run in parallel under the engine's worker bound.
func (e *Engine) runLoop(ctx context.Context, pipe *pipeline.Pipeline, task *pipeline.Task, inputs map[string]string, arts *artifactStore, sem *semaphore.Weighted) error {
	logger := ctxlog.FromContext(ctx)

	upstream, output, _ := task.Loop().Over.OutputRef()

	manifestPath, err := arts.lookup(upstream, output)
	if err != nil {
		return err
	}

	manifest, err := os.Open(manifestPath)
	if err != nil {
		return errors.Wrap(err, "unable to open the loop manifest")
	}
	defer manifest.Close()

	items, err := pipeline.DecodeGridItems(manifest)
	if err != nil {
		return errors.Wrap(err, "unable to decode the loop manifest")
	}

	instances, err := pipe.ExpandLoop(task, items, inputs, arts.lookup)
	if err != nil {
		return err
	}

	tmpl, err := e.registry.Get(task.Template())
	if err != nil {
		return err
	}

	logger.Debug("expanding loop", "task", task.Name(), "items", len(instances))

	info := task.Info()
	grp, gctx := errgroup.WithContext(ctx)

	for _, instance := range instances {
		instance := instance

		grp.Go(func() error {
			for _, opt := range e.opts {
				if err := opt.PrepareTask(info); err != nil {
					return errors.Wrap(err, "unable to prepare task")
				}
			}

			if err := tmpl.Spec().CheckInputs(instance.Params); err != nil {
				return errors.Wrapf(err, "item %q", instance.Item.FullID)
			}

			workdir := filepath.Join(e.outDir, instance.Workdir)
			if err := os.MkdirAll(workdir, 0o755); err != nil {
				return errors.Wrap(err, "unable to create the working directory")
			}

			produced, elapsed, err := e.invoke(gctx, tmpl, templates.Call{Inputs: instance.Params, Workdir: workdir}, sem)
			if err != nil {
				return errors.Wrapf(err, "item %q", instance.Item.FullID)
			}

			rendered, err := pipe.RenderOutputs(task, instance.Params)
			if err != nil {
				return err
			}

			for _, mapping := range rendered {
				src, ok := produced[mapping.From]
				if !ok {
					return errors.Wrap(templates.ErrMissingArtifact, mapping.From)
				}

				// Instance outputs resolve inside the instance's
				// isolated folder so items never collide.
				dest := filepath.Join(workdir, mapping.To)
				if err := copyFile(src, dest); err != nil {
					return errors.Wrapf(err, "unable to materialise output %q", mapping.From)
				}
			}

			for _, opt := range e.opts {
				if err := opt.OnTaskDone(info, elapsed); err != nil {
					return errors.Wrap(err, "unable to record task completion")
				}
			}

			logger.Debug("loop item completed", "task", task.Name(), "item", instance.Item.FullID, "elapsed", elapsed)

			return nil
		})
	}

	return grp.Wait()
}

// invoke runs the template under the worker bound and times it.
func (e *Engine) invoke(ctx context.Context, tmpl templates.Template, call templates.Call, sem *semaphore.Weighted) (templates.Artifacts, time.Duration, error) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, 0, errors.Wrap(err, "unable to acquire a worker")
	}
	defer sem.Release(1)

	start := time.Now()

	produced, err := tmpl.Run(ctx, call)
	if err != nil {
		return nil, 0, err
	}

	return produced, time.Since(start), nil
}
