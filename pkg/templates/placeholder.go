package templates

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// placeholder materialises an empty file for every declared artifact.
// It stands in for an external tool when only the wiring matters: dry
// runs that verify the filesystem contract, and tests.
type placeholder struct {
	spec Spec
}

// Placeholder returns a template that satisfies the given contract with
// empty artifacts.
func Placeholder(spec Spec) Template {
	return placeholder{spec: spec}
}

func (t placeholder) Spec() Spec { return t.spec }

func (t placeholder) Run(ctx context.Context, call Call) (Artifacts, error) {
	artifacts := make(Artifacts, len(t.spec.Outputs))

	for _, name := range t.spec.Outputs {
		path := filepath.Join(call.Workdir, name)

		file, err := os.Create(path)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to create placeholder artifact %q", name)
		}
		file.Close()

		artifacts[name] = path
	}

	return artifacts, nil
}
