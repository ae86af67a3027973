package dyncontrib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildsim/comfortflow/pkg/dyncontrib"
	"github.com/buildsim/comfortflow/pkg/pipeline"
)

func fullBindings() pipeline.Bindings {
	return pipeline.Bindings{
		"result_sql":            "eplusout.sql",
		"octree_file_spec":      "scene_spec.oct",
		"octree_file_diff":      "scene_diff.oct",
		"octree_file_with_suns": "scene_suns.oct",
		"group_name":            "louvers",
		"sensor_grid_folder":    "grids",
		"sensor_grids":          "grids.json",
		"sky_dome":              "sky.dome",
		"sky_matrix":            "sky.mtx",
		"sky_matrix_direct":     "sky_direct.mtx",
		"sun_modifiers":         "suns.mod",
		"sun_up_hours":          "sun-up-hours.txt",
	}
}

func gridItems() []pipeline.GridItem {
	return []pipeline.GridItem{
		{FullID: "room1_grid", Count: 100},
		{FullID: "room2_grid", Count: 50},
	}
}

func fakeLookup(task, output string) (string, error) {
	return "artifacts/" + task + "/" + output, nil
}

func TestEntryPoint(t *testing.T) {
	t.Parallel()

	pipe, err := dyncontrib.EntryPoint()
	require.NoError(t, err)
	assert.Equal(t, dyncontrib.Name, pipe.Name())
	assert.Equal(t, 3, pipe.TaskCount())

	read, ok := pipe.Task(dyncontrib.ReadGrids)
	require.True(t, ok)
	assert.Nil(t, read.Loop())
	assert.Empty(t, read.Needs())

	order, err := pipe.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{
		dyncontrib.ReadGrids,
		dyncontrib.RunRadianceWindowContrib,
		dyncontrib.RunDynamicBehaviorContrib,
	}, order)
}

func TestLoopDeclarations(t *testing.T) {
	t.Parallel()

	pipe, err := dyncontrib.EntryPoint()
	require.NoError(t, err)

	for _, name := range []string{dyncontrib.RunRadianceWindowContrib, dyncontrib.RunDynamicBehaviorContrib} {
		task, ok := pipe.Task(name)
		require.True(t, ok)

		loop := task.Loop()
		require.NotNil(t, loop, name)
		assert.Equal(t, dyncontrib.SubFolder, loop.SubFolder, name)

		source, output, ok := loop.Over.OutputRef()
		require.True(t, ok, name)
		assert.Equal(t, dyncontrib.ReadGrids, source, name)
		assert.Equal(t, "data", output, name)
		assert.Contains(t, task.Needs(), dyncontrib.ReadGrids, name)
	}

	behavior, ok := pipe.Task(dyncontrib.RunDynamicBehaviorContrib)
	require.True(t, ok)
	assert.Contains(t, behavior.Needs(), dyncontrib.RunRadianceWindowContrib)
}

func TestExpandRadianceWindowContrib(t *testing.T) {
	t.Parallel()

	pipe, err := dyncontrib.EntryPoint()
	require.NoError(t, err)

	inputs, err := pipe.BindInputs(fullBindings())
	require.NoError(t, err)

	task, ok := pipe.Task(dyncontrib.RunRadianceWindowContrib)
	require.True(t, ok)

	instances, err := pipe.ExpandLoop(task, gridItems(), inputs, fakeLookup)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	first := instances[0]
	assert.Equal(t, "run_radiance_window_contrib/room1_grid", first.Name)
	assert.Equal(t, "shortwave/room1_grid", first.Workdir)
	assert.Equal(t, "room1_grid", first.Params["grid_name"])
	assert.Equal(t, "100", first.Params["sensor_count"])
	assert.Equal(t, "grids/room1_grid.pts", first.Params["sensor_grid"])
	assert.Equal(t, "grids/room1_grid_ref.pts", first.Params["ref_sensor_grid"])
	assert.Equal(t, dyncontrib.DefaultRadianceParameters, first.Params["radiance_parameters"])
	assert.Equal(t, "louvers", first.Params["group_name"])

	// The direct matrix is fed the total sky matrix, not the
	// sky_matrix_direct slot.
	assert.Equal(t, "sky.mtx", first.Params["sky_matrix"])
	assert.Equal(t, "sky.mtx", first.Params["sky_matrix_direct"])

	second := instances[1]
	assert.Equal(t, "shortwave/room2_grid", second.Workdir)
	assert.Equal(t, "grids/room2_grid.pts", second.Params["sensor_grid"])
	assert.NotEqual(t, first.Workdir, second.Workdir)
}

func TestExpandDynamicBehaviorContrib(t *testing.T) {
	t.Parallel()

	pipe, err := dyncontrib.EntryPoint()
	require.NoError(t, err)

	inputs, err := pipe.BindInputs(fullBindings())
	require.NoError(t, err)

	task, ok := pipe.Task(dyncontrib.RunDynamicBehaviorContrib)
	require.True(t, ok)

	instances, err := pipe.ExpandLoop(task, gridItems(), inputs, fakeLookup)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	first := instances[0]
	assert.Equal(t, "shortwave/dynamic/initial/louvers/direct_spec/room1_grid.ill", first.Params["direct_specular"])
	assert.Equal(t, "shortwave/dynamic/initial/louvers/indirect_spec/room1_grid.ill", first.Params["indirect_specular"])
	assert.Equal(t, "shortwave/dynamic/initial/louvers/reflected_spec/room1_grid.ill", first.Params["ref_specular"])
	assert.Equal(t, "shortwave/dynamic/initial/louvers/total_diff/room1_grid.ill", first.Params["indirect_diffuse"])
	assert.Equal(t, "shortwave/dynamic/initial/louvers/reflected_diff/room1_grid.ill", first.Params["ref_diffuse"])
	assert.Equal(t, "louvers", first.Params["aperture_id"])
	assert.Equal(t, "room1_grid", first.Params["grid_name"])

	// No two instances resolve any illuminance category to the same path.
	second := instances[1]
	for _, param := range []string{"direct_specular", "indirect_specular", "ref_specular", "indirect_diffuse", "ref_diffuse"} {
		assert.NotEqual(t, first.Params[param], second.Params[param], param)
	}
}

func TestMissingGroupName(t *testing.T) {
	t.Parallel()

	pipe, err := dyncontrib.EntryPoint()
	require.NoError(t, err)

	bind := fullBindings()
	delete(bind, "group_name")

	_, err = pipe.BindInputs(bind)
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrInputMustBeBound)
}

func TestBadOctreeExtension(t *testing.T) {
	t.Parallel()

	pipe, err := dyncontrib.EntryPoint()
	require.NoError(t, err)

	bind := fullBindings()
	bind["octree_file_spec"] = "scene.rad"

	_, err = pipe.BindInputs(bind)
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrBadExtension)
}

func TestSpecs(t *testing.T) {
	t.Parallel()

	pipe, err := dyncontrib.EntryPoint()
	require.NoError(t, err)

	byName := make(map[string]struct{})
	for _, spec := range dyncontrib.Specs() {
		byName[spec.Name] = struct{}{}
	}

	for _, task := range pipe.Tasks() {
		_, ok := byName[task.Template()]
		assert.True(t, ok, "template %q of task %q has no declared contract",
			task.Template(), task.Name())
	}
}
