package pipeline

import (
	"path"
	"sort"

	"github.com/pkg/errors"

	"github.com/buildsim/comfortflow/pkg/pipeline/model"
)

// OutputMapping declares where one artifact of the task template must be
// materialised. To may contain {{...}} expressions referencing the task's
// own parameters.
type OutputMapping struct {
	// From is the artifact name in the template's output contract.
	From string
	// To is the templated destination path, relative to the pipeline
	// output folder.
	To string
}

// TaskSpec declares a task node for the builder.
type TaskSpec struct {
	Name     string
	Template string
	Needs    []string
	Params   Params
	Outputs  []OutputMapping
	Loop     *LoopSpec
}

// Task is an immutable task node of a validated pipeline.
type Task struct {
	name     string
	template string
	needs    []string
	params   Params
	outputs  []OutputMapping
	loop     *LoopSpec
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// Template returns the name of the external task template.
func (t *Task) Template() string { return t.template }

// Needs returns the names of the tasks that must complete first.
func (t *Task) Needs() []string {
	out := make([]string, len(t.needs))
	copy(out, t.needs)

	return out
}

// Params returns the declared parameter sources.
func (t *Task) Params() Params {
	out := make(Params, len(t.params))
	for name, src := range t.params {
		out[name] = src
	}

	return out
}

// Outputs returns the declared output mappings.
func (t *Task) Outputs() []OutputMapping {
	out := make([]OutputMapping, len(t.outputs))
	copy(out, t.outputs)

	return out
}

// Loop returns the fan-out declaration, or nil for plain tasks.
func (t *Task) Loop() *LoopSpec { return t.loop }

// Info returns the task descriptor handed to run option hooks.
func (t *Task) Info() *model.TaskInfo {
	return &model.TaskInfo{
		Name:     t.name,
		Template: t.template,
		Needs:    t.Needs(),
		Looped:   t.loop != nil,
	}
}

// paramNames returns the parameter names in deterministic order.
func (t *Task) paramNames() []string {
	names := make([]string, 0, len(t.params))
	for name := range t.params {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// OutputLookup resolves an upstream task output to its materialised path.
type OutputLookup func(task, output string) (string, error)

// ResolveParams resolves every parameter of a plain task against the bound
// inputs and the outputs of its predecessors. Parameters bound to an
// unbound optional slot are omitted from the result.
func (p *Pipeline) ResolveParams(t *Task, inputs map[string]string, lookup OutputLookup) (map[string]string, error) {
	return p.resolveParams(t, inputs, lookup, nil)
}

// ExpandLoop expands a looped task into one instance per manifest item.
// Each instance renders its templated parameters against the item scope,
// joins the declared sub-paths onto their base parameters, and claims an
// isolated working directory derived from the item id.
func (p *Pipeline) ExpandLoop(t *Task, items []GridItem, inputs map[string]string, lookup OutputLookup) ([]LoopInstance, error) {
	if t.loop == nil {
		return nil, errors.Wrap(ErrItemOutsideLoop, t.name)
	}

	instances := make([]LoopInstance, 0, len(items))

	for _, item := range items {
		extra := itemScope(item)

		params, err := p.resolveParams(t, inputs, lookup, extra)
		if err != nil {
			return nil, errors.Wrapf(err, "item %q", item.FullID)
		}

		scope := mergeScopes(inputs, extra)
		for _, name := range sortedKeys(t.loop.SubPaths) {
			sub, err := Render(t.loop.SubPaths[name], scope)
			if err != nil {
				return nil, errors.Wrapf(err, "item %q: sub-path %q", item.FullID, name)
			}

			params[name] = path.Join(params[name], sub)
		}

		instances = append(instances, LoopInstance{
			Name:    t.name + "/" + item.FullID,
			Item:    item,
			Workdir: path.Join(t.loop.SubFolder, item.FullID),
			Params:  params,
		})
	}

	return instances, nil
}

// RenderOutputs renders the destination path of every output mapping
// against the task's resolved parameters.
func (p *Pipeline) RenderOutputs(t *Task, params map[string]string) ([]OutputMapping, error) {
	rendered := make([]OutputMapping, 0, len(t.outputs))

	for _, mapping := range t.outputs {
		dest, err := Render(mapping.To, params)
		if err != nil {
			return nil, errors.Wrapf(err, "task %q: output %q", t.name, mapping.From)
		}

		rendered = append(rendered, OutputMapping{From: mapping.From, To: dest})
	}

	return rendered, nil
}

func (p *Pipeline) resolveParams(t *Task, inputs map[string]string, lookup OutputLookup, extra map[string]string) (map[string]string, error) {
	params := make(map[string]string, len(t.params))

	for _, name := range t.paramNames() {
		src := t.params[name]

		switch src.kind {
		case inputSource:
			value, ok := inputs[src.slot]
			if !ok {
				// Validated optional slot left unbound: the
				// parameter is omitted, not passed empty.
				continue
			}

			params[name] = value
		case literalSource:
			params[name] = src.value
		case outputSource:
			if lookup == nil {
				return nil, errors.Wrapf(ErrUnknownTask, "task %q: parameter %q has no output lookup", t.name, name)
			}

			value, err := lookup(src.task, src.output)
			if err != nil {
				return nil, errors.Wrapf(err, "task %q: parameter %q", t.name, name)
			}

			params[name] = value
		case templatedSource:
			value, err := Render(src.expr, mergeScopes(inputs, extra))
			if err != nil {
				return nil, errors.Wrapf(err, "task %q: parameter %q", t.name, name)
			}

			params[name] = value
		}
	}

	return params, nil
}

func mergeScopes(base, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return base
	}

	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}

	return merged
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
