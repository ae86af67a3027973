package pipeline

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/buildsim/comfortflow/internal/store"
)

// Builder accumulates input slot and task declarations and turns them
// into an immutable, validated Pipeline. Declarations are only checked
// when Build runs, so the whole graph is validated in one place.
type Builder struct {
	name  string
	slots []InputSlot
	tasks []TaskSpec
}

// NewBuilder creates a builder for a pipeline with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// File declares a file input slot.
func (b *Builder) File(name, description string, opts ...SlotOption) *Builder {
	return b.slot(FileSlot, name, description, opts...)
}

// Folder declares a folder input slot.
func (b *Builder) Folder(name, description string, opts ...SlotOption) *Builder {
	return b.slot(FolderSlot, name, description, opts...)
}

// String declares a string input slot.
func (b *Builder) String(name, description string, opts ...SlotOption) *Builder {
	return b.slot(StringSlot, name, description, opts...)
}

func (b *Builder) slot(kind SlotKind, name, description string, opts ...SlotOption) *Builder {
	slot := InputSlot{Name: name, Description: description, Kind: kind}
	for _, opt := range opts {
		opt(&slot)
	}

	b.slots = append(b.slots, slot)

	return b
}

// Task declares a task node.
func (b *Builder) Task(spec TaskSpec) *Builder {
	b.tasks = append(b.tasks, spec)

	return b
}

// Build validates every declaration and returns the immutable pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	if b.name == "" {
		return nil, ErrNameMustBeSet
	}

	pipe := &Pipeline{
		name:      b.name,
		slotIndex: make(map[string]int, len(b.slots)),
		taskIndex: make(map[string]int, len(b.tasks)),
		graph: graph.NewWithStore(graph.StringHash,
			store.NewMemoryStore[string, string](),
			graph.Directed(), graph.PreventCycles()),
	}

	for _, slot := range b.slots {
		if slot.Name == "" {
			return nil, ErrSlotNameMustBeSet
		}
		if _, ok := pipe.slotIndex[slot.Name]; ok {
			return nil, errors.Wrap(ErrDuplicateSlot, slot.Name)
		}

		pipe.slotIndex[slot.Name] = len(pipe.slots)
		pipe.slots = append(pipe.slots, slot)
	}

	for _, spec := range b.tasks {
		if spec.Name == "" {
			return nil, ErrTaskNameMustBeSet
		}
		if spec.Template == "" {
			return nil, errors.Wrap(ErrTemplateMustBeSet, spec.Name)
		}
		if _, ok := pipe.taskIndex[spec.Name]; ok {
			return nil, errors.Wrap(ErrDuplicateTask, spec.Name)
		}

		task := &Task{
			name:     spec.Name,
			template: spec.Template,
			needs:    append([]string(nil), spec.Needs...),
			params:   spec.Params,
			outputs:  append([]OutputMapping(nil), spec.Outputs...),
			loop:     spec.Loop,
		}

		pipe.taskIndex[task.name] = len(pipe.tasks)
		pipe.tasks = append(pipe.tasks, task)

		if err := pipe.graph.AddVertex(task.name); err != nil {
			return nil, errors.Wrapf(err, "unable to add task %q to the graph", task.name)
		}
	}

	for _, task := range pipe.tasks {
		if err := pipe.linkTask(task); err != nil {
			return nil, err
		}
		if err := pipe.checkTask(task); err != nil {
			return nil, err
		}
	}

	return pipe, nil
}

// linkTask materialises the needs list as graph edges. The graph is built
// with cycle prevention, so any back edge surfaces here.
func (p *Pipeline) linkTask(task *Task) error {
	for _, need := range task.needs {
		if _, ok := p.taskIndex[need]; !ok {
			return errors.Wrapf(ErrUnknownTask, "task %q needs %q", task.name, need)
		}

		err := p.graph.AddEdge(need, task.name)
		switch {
		case errors.Is(err, graph.ErrEdgeCreatesCycle):
			return errors.Wrapf(ErrCycleDetected, "%q -> %q", need, task.name)
		case errors.Is(err, graph.ErrEdgeAlreadyExists):
			return errors.Wrapf(ErrDuplicateTask, "task %q needs %q twice", task.name, need)
		case err != nil:
			return errors.Wrapf(err, "unable to link %q -> %q", need, task.name)
		}
	}

	return nil
}

// checkTask validates every reference a task makes: parameter sources,
// templated expressions, output destinations and the loop declaration.
func (p *Pipeline) checkTask(task *Task) error {
	needs := make(map[string]struct{}, len(task.needs))
	for _, need := range task.needs {
		needs[need] = struct{}{}
	}

	for _, name := range task.paramNames() {
		src := task.params[name]

		switch src.kind {
		case inputSource:
			if _, ok := p.slotIndex[src.slot]; !ok {
				return errors.Wrapf(ErrUnknownSlot, "task %q: parameter %q references %q", task.name, name, src.slot)
			}
		case outputSource:
			if _, ok := p.taskIndex[src.task]; !ok {
				return errors.Wrapf(ErrUnknownTask, "task %q: parameter %q references %q", task.name, name, src.task)
			}
			if _, ok := needs[src.task]; !ok {
				return errors.Wrapf(ErrNotInNeeds, "task %q: parameter %q references %q", task.name, name, src.task)
			}
		case templatedSource:
			if err := p.checkExpr(task, src.expr); err != nil {
				return errors.Wrapf(err, "task %q: parameter %q", task.name, name)
			}
		}
	}

	for _, mapping := range task.outputs {
		vars, err := Variables(mapping.To)
		if err != nil {
			return errors.Wrapf(err, "task %q: output %q", task.name, mapping.From)
		}

		for _, v := range vars {
			if _, ok := task.params[v]; !ok {
				return errors.Wrapf(ErrVariableNotBound, "task %q: output %q references %q", task.name, mapping.From, v)
			}
		}
	}

	return p.checkLoop(task, needs)
}

func (p *Pipeline) checkLoop(task *Task, needs map[string]struct{}) error {
	if task.loop == nil {
		return nil
	}

	over := task.loop.Over
	if over.kind != outputSource {
		return errors.Wrap(ErrLoopSourceMustBeOutput, task.name)
	}
	if _, ok := p.taskIndex[over.task]; !ok {
		return errors.Wrapf(ErrUnknownTask, "task %q loops over %q", task.name, over.task)
	}
	if _, ok := needs[over.task]; !ok {
		return errors.Wrapf(ErrNotInNeeds, "task %q loops over %q", task.name, over.task)
	}

	for _, name := range sortedKeys(task.loop.SubPaths) {
		if _, ok := task.params[name]; !ok {
			return errors.Wrapf(ErrSubPathUnknownParam, "task %q: %q", task.name, name)
		}
		if err := p.checkExpr(task, task.loop.SubPaths[name]); err != nil {
			return errors.Wrapf(err, "task %q: sub-path %q", task.name, name)
		}
	}

	return nil
}

// checkExpr verifies that every variable of a templated expression is
// statically resolvable: an input slot, or an item field on looped tasks.
func (p *Pipeline) checkExpr(task *Task, expr string) error {
	vars, err := Variables(expr)
	if err != nil {
		return err
	}

	for _, v := range vars {
		if v == "item.full_id" || v == "item.count" {
			if task.loop == nil {
				return errors.Wrap(ErrItemOutsideLoop, v)
			}

			continue
		}

		if _, ok := p.slotIndex[v]; !ok {
			return errors.Wrap(ErrUnknownSlot, v)
		}
	}

	return nil
}
