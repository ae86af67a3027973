package templates_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildsim/comfortflow/pkg/pipeline"
	"github.com/buildsim/comfortflow/pkg/templates"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "grids.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestReadJSONList(t *testing.T) {
	t.Parallel()

	src := writeManifest(t, `[
		{"full_id": "room1_grid", "count": 100},
		{"full_id": "room2_grid", "count": 50}
	]`)

	tmpl := templates.ReadJSONList()
	workdir := t.TempDir()

	artifacts, err := tmpl.Run(context.Background(), templates.Call{
		Inputs:  map[string]string{"src": src},
		Workdir: workdir,
	})
	require.NoError(t, err)

	dest, ok := artifacts["data"]
	require.True(t, ok)

	file, err := os.Open(dest)
	require.NoError(t, err)
	defer file.Close()

	items, err := pipeline.DecodeGridItems(file)
	require.NoError(t, err)
	assert.Equal(t, []pipeline.GridItem{
		{FullID: "room1_grid", Count: 100},
		{FullID: "room2_grid", Count: 50},
	}, items)
}

func TestReadJSONListDuplicate(t *testing.T) {
	t.Parallel()

	src := writeManifest(t, `[
		{"full_id": "room1_grid", "count": 100},
		{"full_id": "room1_grid", "count": 50}
	]`)

	tmpl := templates.ReadJSONList()

	_, err := tmpl.Run(context.Background(), templates.Call{
		Inputs:  map[string]string{"src": src},
		Workdir: t.TempDir(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrDuplicateItemID)
}

func TestReadJSONListMissingFile(t *testing.T) {
	t.Parallel()

	tmpl := templates.ReadJSONList()

	_, err := tmpl.Run(context.Background(), templates.Call{
		Inputs:  map[string]string{"src": filepath.Join(t.TempDir(), "absent.json")},
		Workdir: t.TempDir(),
	})
	require.Error(t, err)
}
