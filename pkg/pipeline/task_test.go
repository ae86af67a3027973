package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildsim/comfortflow/pkg/pipeline"
)

func resolvablePipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()

	b := pipeline.NewBuilder("demo")
	b.String("name", "result file name")
	b.File("met_rate", "metabolic rate series", pipeline.Optional())
	b.Task(pipeline.TaskSpec{
		Name:     "produce",
		Template: "make",
		Params:   pipeline.Params{"name": pipeline.FromInput("name")},
		Outputs:  []pipeline.OutputMapping{{From: "out", To: "made/{{name}}.csv"}},
	})
	b.Task(pipeline.TaskSpec{
		Name:     "consume",
		Template: "use",
		Needs:    []string{"produce"},
		Params: pipeline.Params{
			"src":      pipeline.FromOutput("produce", "out"),
			"metric":   pipeline.Literal("air-temperature"),
			"name":     pipeline.FromInput("name"),
			"met_rate": pipeline.FromInput("met_rate"),
		},
	})

	pipe, err := b.Build()
	require.NoError(t, err)

	return pipe
}

func TestResolveParams(t *testing.T) {
	t.Parallel()

	pipe := resolvablePipeline(t)

	inputs, err := pipe.BindInputs(pipeline.Bindings{"name": "grid_A"})
	require.NoError(t, err)

	task, ok := pipe.Task("consume")
	require.True(t, ok)

	lookup := func(task, output string) (string, error) {
		return "/out/" + task + "/" + output, nil
	}

	params, err := pipe.ResolveParams(task, inputs, lookup)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"src":    "/out/produce/out",
		"metric": "air-temperature",
		"name":   "grid_A",
	}, params)
}

func TestResolveParamsOptionalBound(t *testing.T) {
	t.Parallel()

	pipe := resolvablePipeline(t)

	inputs, err := pipe.BindInputs(pipeline.Bindings{"name": "grid_A", "met_rate": "met.csv"})
	require.NoError(t, err)

	task, ok := pipe.Task("consume")
	require.True(t, ok)

	lookup := func(task, output string) (string, error) { return "x", nil }

	params, err := pipe.ResolveParams(task, inputs, lookup)
	require.NoError(t, err)
	assert.Equal(t, "met.csv", params["met_rate"])
}

func TestResolveParamsLookupError(t *testing.T) {
	t.Parallel()

	pipe := resolvablePipeline(t)

	inputs, err := pipe.BindInputs(pipeline.Bindings{"name": "grid_A"})
	require.NoError(t, err)

	task, ok := pipe.Task("consume")
	require.True(t, ok)

	lookup := func(task, output string) (string, error) { return "", assert.AnError }

	_, err = pipe.ResolveParams(task, inputs, lookup)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRenderOutputs(t *testing.T) {
	t.Parallel()

	pipe := resolvablePipeline(t)

	task, ok := pipe.Task("produce")
	require.True(t, ok)

	rendered, err := pipe.RenderOutputs(task, map[string]string{"name": "grid_A"})
	require.NoError(t, err)
	assert.Equal(t, []pipeline.OutputMapping{{From: "out", To: "made/grid_A.csv"}}, rendered)
}

func loopedPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()

	b := pipeline.NewBuilder("demo")
	b.Folder("grid_folder", "split sensor grids")
	b.File("manifest", "grid manifest")
	b.Task(pipeline.TaskSpec{
		Name:     "read",
		Template: "reader",
		Params:   pipeline.Params{"src": pipeline.FromInput("manifest")},
	})
	b.Task(pipeline.TaskSpec{
		Name:     "fan",
		Template: "sub",
		Needs:    []string{"read"},
		Loop: &pipeline.LoopSpec{
			Over:      pipeline.FromOutput("read", "data"),
			SubFolder: "shortwave",
			SubPaths: map[string]string{
				"sensor_grid":     "{{item.full_id}}.pts",
				"ref_sensor_grid": "{{item.full_id}}_ref.pts",
			},
		},
		Params: pipeline.Params{
			"sensor_grid":     pipeline.FromInput("grid_folder"),
			"ref_sensor_grid": pipeline.FromInput("grid_folder"),
			"grid_name":       pipeline.Templated("{{item.full_id}}"),
			"sensor_count":    pipeline.Templated("{{item.count}}"),
		},
	})

	pipe, err := b.Build()
	require.NoError(t, err)

	return pipe
}

func TestExpandLoop(t *testing.T) {
	t.Parallel()

	pipe := loopedPipeline(t)

	inputs, err := pipe.BindInputs(pipeline.Bindings{
		"grid_folder": "grids",
		"manifest":    "grids.json",
	})
	require.NoError(t, err)

	task, ok := pipe.Task("fan")
	require.True(t, ok)

	items := []pipeline.GridItem{
		{FullID: "room1_grid", Count: 100},
		{FullID: "room2_grid", Count: 50},
	}

	instances, err := pipe.ExpandLoop(task, items, inputs, nil)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	first := instances[0]
	assert.Equal(t, "fan/room1_grid", first.Name)
	assert.Equal(t, "shortwave/room1_grid", first.Workdir)
	assert.Equal(t, map[string]string{
		"sensor_grid":     "grids/room1_grid.pts",
		"ref_sensor_grid": "grids/room1_grid_ref.pts",
		"grid_name":       "room1_grid",
		"sensor_count":    "100",
	}, first.Params)

	second := instances[1]
	assert.Equal(t, "shortwave/room2_grid", second.Workdir)
	assert.Equal(t, "50", second.Params["sensor_count"])

	assert.NotEqual(t, first.Workdir, second.Workdir)
	assert.NotEqual(t, first.Params["sensor_grid"], second.Params["sensor_grid"])
}

func TestExpandLoopPlainTask(t *testing.T) {
	t.Parallel()

	pipe := loopedPipeline(t)

	task, ok := pipe.Task("read")
	require.True(t, ok)

	_, err := pipe.ExpandLoop(task, nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrItemOutsideLoop)
}

func TestSourceOutputRef(t *testing.T) {
	t.Parallel()

	task, output, ok := pipeline.FromOutput("read", "data").OutputRef()
	assert.True(t, ok)
	assert.Equal(t, "read", task)
	assert.Equal(t, "data", output)

	_, _, ok = pipeline.Literal("x").OutputRef()
	assert.False(t, ok)

	_, _, ok = pipeline.FromInput("epw").OutputRef()
	assert.False(t, ok)
}
