package pipeline

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// Pipeline is an immutable, validated workflow definition: typed input
// slots plus a directed acyclic graph of task nodes.
type Pipeline struct {
	name      string
	slots     []InputSlot
	slotIndex map[string]int
	tasks     []*Task
	taskIndex map[string]int
	graph     graph.Graph[string, string]
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// Inputs returns the input slots in declaration order.
func (p *Pipeline) Inputs() []InputSlot {
	out := make([]InputSlot, len(p.slots))
	copy(out, p.slots)

	return out
}

// Input returns the named input slot.
func (p *Pipeline) Input(name string) (InputSlot, bool) {
	idx, ok := p.slotIndex[name]
	if !ok {
		return InputSlot{}, false
	}

	return p.slots[idx], true
}

// Tasks returns the task nodes in declaration order.
func (p *Pipeline) Tasks() []*Task {
	out := make([]*Task, len(p.tasks))
	copy(out, p.tasks)

	return out
}

// Task returns the named task node.
func (p *Pipeline) Task(name string) (*Task, bool) {
	idx, ok := p.taskIndex[name]
	if !ok {
		return nil, false
	}

	return p.tasks[idx], true
}

// TaskCount returns the number of task nodes.
func (p *Pipeline) TaskCount() int { return len(p.tasks) }

// TopologicalOrder returns the task names in a deterministic dependency
// order: every task appears after all of its needs.
func (p *Pipeline) TopologicalOrder() ([]string, error) {
	order, err := graph.StableTopologicalSort(p.graph, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, errors.Wrap(err, "unable to sort the task graph")
	}

	return order, nil
}

// Graph exposes the underlying dependency graph, e.g. for rendering.
func (p *Pipeline) Graph() graph.Graph[string, string] { return p.graph }
