package templates

import (
	"context"
	"sort"

	"github.com/pkg/errors"
)

var (
	ErrDuplicateTemplate = errors.New("duplicate template")
	ErrUnknownTemplate   = errors.New("unknown template")
	ErrInputNotDeclared  = errors.New("input is not declared by the template")
	ErrInputMissing      = errors.New("required template input is missing")
	ErrMissingArtifact   = errors.New("template did not produce a declared artifact")
)

// Param is one declared input of a task template.
type Param struct {
	Name     string
	Optional bool
}

// Spec is the declared contract of a task template: its name, its input
// parameters and the names of the artifacts it produces.
type Spec struct {
	Name    string
	Inputs  []Param
	Outputs []string
}

// HasOutput reports whether the template declares the named artifact.
func (s Spec) HasOutput(name string) bool {
	for _, out := range s.Outputs {
		if out == name {
			return true
		}
	}

	return false
}

// CheckInputs validates resolved parameter values against the contract:
// every required input must be present and no undeclared input may be
// supplied.
func (s Spec) CheckInputs(values map[string]string) error {
	declared := make(map[string]Param, len(s.Inputs))
	for _, p := range s.Inputs {
		declared[p.Name] = p
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := declared[name]; !ok {
			return errors.Wrapf(ErrInputNotDeclared, "template %q: %q", s.Name, name)
		}
	}

	for _, p := range s.Inputs {
		if p.Optional {
			continue
		}
		if _, ok := values[p.Name]; !ok {
			return errors.Wrapf(ErrInputMissing, "template %q: %q", s.Name, p.Name)
		}
	}

	return nil
}

// Call carries everything a template needs for one invocation.
type Call struct {
	// Inputs holds the resolved parameter values, keyed by input name.
	Inputs map[string]string
	// Workdir is the directory the template may write its artifacts
	// into. Loop instances get their own isolated workdir.
	Workdir string
}

// Artifacts maps declared output names to the paths the template
// produced them at.
type Artifacts map[string]string

// Template is an externally implemented unit of work.
type Template interface {
	Spec() Spec
	Run(ctx context.Context, call Call) (Artifacts, error)
}
