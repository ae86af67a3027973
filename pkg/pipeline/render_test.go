package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildsim/comfortflow/pkg/pipeline"
)

func TestRender(t *testing.T) {
	t.Parallel()

	got, err := pipeline.Render("results/condition/{{name}}.csv", map[string]string{"name": "grid_A"})
	require.NoError(t, err)
	assert.Equal(t, "results/condition/grid_A.csv", got)
}

func TestRenderMultipleVariables(t *testing.T) {
	t.Parallel()

	scope := map[string]string{"item.full_id": "room1_grid", "group_name": "louvers"}

	got, err := pipeline.Render("{{group_name}}/{{item.full_id}}.ill", scope)
	require.NoError(t, err)
	assert.Equal(t, "louvers/room1_grid.ill", got)
}

func TestRenderNoTokens(t *testing.T) {
	t.Parallel()

	got, err := pipeline.Render("plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", got)
}

func TestRenderUnboundVariable(t *testing.T) {
	t.Parallel()

	_, err := pipeline.Render("{{missing}}", map[string]string{"name": "grid_A"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrVariableNotBound)
}

func TestRenderUnclosedVariable(t *testing.T) {
	t.Parallel()

	_, err := pipeline.Render("{{name", map[string]string{"name": "grid_A"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrUnclosedVariable)
}

func TestRenderEmptyVariable(t *testing.T) {
	t.Parallel()

	_, err := pipeline.Render("{{}}", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrEmptyVariable)
}

func TestRenderBadVariableName(t *testing.T) {
	t.Parallel()

	_, err := pipeline.Render("{{bad name}}", map[string]string{"bad name": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrBadVariableName)
}

func TestVariables(t *testing.T) {
	t.Parallel()

	got, err := pipeline.Variables("{{a}}/{{b}}/{{a}}.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a"}, got)
}

func TestVariablesNone(t *testing.T) {
	t.Parallel()

	got, err := pipeline.Variables("no tokens here")
	require.NoError(t, err)
	assert.Empty(t, got)
}
