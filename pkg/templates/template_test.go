package templates_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildsim/comfortflow/pkg/templates"
)

func TestSpecHasOutput(t *testing.T) {
	t.Parallel()

	assert.True(t, templates.PmvMtxSpec.HasOutput("condition_map"))
	assert.False(t, templates.PmvMtxSpec.HasOutput("nope"))
}

func TestSpecCheckInputs(t *testing.T) {
	t.Parallel()

	spec := templates.Spec{
		Name: "demo",
		Inputs: []templates.Param{
			{Name: "epw"},
			{Name: "met_rate", Optional: true},
		},
	}

	require.NoError(t, spec.CheckInputs(map[string]string{"epw": "weather.epw"}))
	require.NoError(t, spec.CheckInputs(map[string]string{"epw": "weather.epw", "met_rate": "met.csv"}))
}

func TestSpecCheckInputsMissingRequired(t *testing.T) {
	t.Parallel()

	spec := templates.Spec{Name: "demo", Inputs: []templates.Param{{Name: "epw"}}}

	err := spec.CheckInputs(map[string]string{})
	require.Error(t, err)
	assert.ErrorIs(t, err, templates.ErrInputMissing)
}

func TestSpecCheckInputsUndeclared(t *testing.T) {
	t.Parallel()

	spec := templates.Spec{Name: "demo", Inputs: []templates.Param{{Name: "epw"}}}

	err := spec.CheckInputs(map[string]string{"epw": "weather.epw", "oops": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, templates.ErrInputNotDeclared)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := templates.NewRegistry()
	require.NoError(t, registry.Add(templates.ReadJSONList()))
	require.NoError(t, registry.Add(templates.Placeholder(templates.TcpSpec)))

	tmpl, err := registry.Get(templates.TcpName)
	require.NoError(t, err)
	assert.Equal(t, templates.TcpName, tmpl.Spec().Name)

	assert.Equal(t, []string{templates.ReadJSONListName, templates.TcpName}, registry.Names())
}

func TestRegistryDuplicate(t *testing.T) {
	t.Parallel()

	registry := templates.NewRegistry()
	require.NoError(t, registry.Add(templates.ReadJSONList()))

	err := registry.Add(templates.ReadJSONList())
	require.Error(t, err)
	assert.ErrorIs(t, err, templates.ErrDuplicateTemplate)
}

func TestRegistryUnknown(t *testing.T) {
	t.Parallel()

	_, err := templates.NewRegistry().Get("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, templates.ErrUnknownTemplate)
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	tmpl := templates.Placeholder(templates.TcpSpec)
	workdir := t.TempDir()

	artifacts, err := tmpl.Run(context.Background(), templates.Call{Workdir: workdir})
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	for _, name := range []string{"tcp", "hsp", "csp"} {
		path, ok := artifacts[name]
		require.True(t, ok, name)
		assert.Equal(t, filepath.Join(workdir, name), path)

		_, err := os.Stat(path)
		require.NoError(t, err)
	}
}
