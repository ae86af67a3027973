package pipeline

type sourceKind int

const (
	inputSource sourceKind = iota
	literalSource
	outputSource
	templatedSource
)

// Source is the origin of a task parameter value: a pipeline input slot,
// a literal constant, an upstream task output, or a templated expression
// rendered against the input scope (and, for looped tasks, the current
// manifest item).
type Source struct {
	kind   sourceKind
	slot   string
	value  string
	task   string
	output string
	expr   string
}

// FromInput binds the parameter to the value of a pipeline input slot.
func FromInput(slot string) Source {
	return Source{kind: inputSource, slot: slot}
}

// Literal binds the parameter to a constant value.
func Literal(value string) Source {
	return Source{kind: literalSource, value: value}
}

// FromOutput binds the parameter to the materialised output of an
// upstream task. The task must appear in the needs list.
func FromOutput(task, output string) Source {
	return Source{kind: outputSource, task: task, output: output}
}

// Templated binds the parameter to an expression with {{...}} variables.
// Variables resolve to input slot values; looped tasks additionally see
// item.full_id and item.count.
func Templated(expr string) Source {
	return Source{kind: templatedSource, expr: expr}
}

// OutputRef reports whether the source references an upstream task
// output and, if so, which one.
func (s Source) OutputRef() (task, output string, ok bool) {
	if s.kind != outputSource {
		return "", "", false
	}

	return s.task, s.output, true
}

// Params maps task parameter names to their sources.
type Params map[string]Source
