package templates

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/buildsim/comfortflow/pkg/pipeline"
)

// ExecTemplate runs an external command line. Arguments may contain
// {{...}} expressions referencing the call's input parameters; rendering
// is strict, so a reference to an absent optional input is skipped only
// when the whole argument is a single such reference.
type ExecTemplate struct {
	spec Spec
	cmd  string
	args []string
	// outputs maps each declared artifact name to the path, relative
	// to the workdir, the command produces it at.
	outputs map[string]string
}

// NewExecTemplate wraps a command line as a task template.
func NewExecTemplate(spec Spec, cmd string, args []string, outputs map[string]string) *ExecTemplate {
	return &ExecTemplate{spec: spec, cmd: cmd, args: args, outputs: outputs}
}

func (t *ExecTemplate) Spec() Spec { return t.spec }

// Run executes the command in the call's workdir. A non-zero exit or a
// missing declared artifact is a hard failure.
func (t *ExecTemplate) Run(ctx context.Context, call Call) (Artifacts, error) {
	args, err := t.renderArgs(call)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, t.cmd, args...)
	cmd.Dir = call.Workdir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, errors.Wrapf(err, "template %q: %s", t.spec.Name, tail(out))
	}

	artifacts := make(Artifacts, len(t.outputs))
	for name, rel := range t.outputs {
		path := filepath.Join(call.Workdir, rel)
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(ErrMissingArtifact, "template %q: %q", t.spec.Name, name)
		}

		artifacts[name] = path
	}

	return artifacts, nil
}

func (t *ExecTemplate) renderArgs(call Call) ([]string, error) {
	args := make([]string, 0, len(t.args))

	for _, arg := range t.args {
		rendered, err := pipeline.Render(arg, call.Inputs)
		if err != nil {
			if errors.Is(err, pipeline.ErrVariableNotBound) && isSingleReference(arg) {
				// The referenced input is optional and unbound:
				// drop the argument instead of passing it empty.
				continue
			}

			return nil, errors.Wrapf(err, "template %q", t.spec.Name)
		}

		args = append(args, rendered)
	}

	return args, nil
}

// isSingleReference reports whether the argument is exactly one
// {{variable}} token and nothing else.
func isSingleReference(arg string) bool {
	return strings.HasPrefix(arg, "{{") && strings.HasSuffix(arg, "}}") &&
		strings.Count(arg, "{{") == 1
}

func tail(out []byte) string {
	const max = 512

	s := strings.TrimSpace(string(out))
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}

	return s
}

var _ Template = (*ExecTemplate)(nil)
