// Package dyncontrib defines the dynamic-window contribution workflow:
// it decodes a sensor-grid manifest and fans two sub-workflows out over
// it, one tracing the Radiance contributions of an aperture group per
// grid and one post-processing them against the group's transmittance
// schedule.
package dyncontrib

import (
	"github.com/pkg/errors"

	"github.com/buildsim/comfortflow/pkg/pipeline"
	"github.com/buildsim/comfortflow/pkg/templates"
)

// Name is the pipeline name.
const Name = "dynamic-contribution"

// Task names.
const (
	ReadGrids                 = "read_grids"
	RunRadianceWindowContrib  = "run_radiance_window_contrib"
	RunDynamicBehaviorContrib = "run_dynamic_behavior_contrib"
)

// DefaultRadianceParameters are the ray-tracing options used when the
// radiance_parameters slot is left unbound.
const DefaultRadianceParameters = "-ab 2 -ad 5000 -lw 2e-05"

// SubFolder is the folder both fan-out tasks isolate their instances
// under, relative to the pipeline output folder.
const SubFolder = "shortwave"

// EntryPoint builds the dynamic-contribution pipeline definition.
func EntryPoint() (*pipeline.Pipeline, error) {
	b := pipeline.NewBuilder(Name)

	b.String("radiance_parameters", "Radiance parameters for ray tracing.",
		pipeline.WithDefault(DefaultRadianceParameters))
	b.File("result_sql", "A SQLite file that was generated by EnergyPlus and contains window transmittance results.",
		pipeline.WithExtensions("sql", "db", "sqlite"))
	b.File("octree_file_spec", "A Radiance octree file with a specular version of the window group.",
		pipeline.WithExtensions("oct"))
	b.File("octree_file_diff", "A Radiance octree file with a diffuse version of the window group.",
		pipeline.WithExtensions("oct"))
	b.File("octree_file_with_suns", "A Radiance octree file with sun modifiers.",
		pipeline.WithExtensions("oct"))
	b.String("group_name", "Name for the dynamic aperture group being simulated.")
	b.Folder("sensor_grid_folder", "A folder containing all of the split sensor grids in the model.")
	b.File("sensor_grids", "A JSON file with information about sensor grids to loop over.")
	b.File("sky_dome", "Path to sky dome file.")
	b.File("sky_matrix", "Path to total sky matrix file.")
	b.File("sky_matrix_direct", "Path to direct skymtx file (gendaymtx -d).")
	b.File("sun_modifiers", "A file with sun modifiers.")
	b.File("sun_up_hours", "A sun-up-hours.txt file output by Radiance that aligns with the input irradiance files.")

	b.Task(pipeline.TaskSpec{
		Name:     ReadGrids,
		Template: templates.ReadJSONListName,
		Params: pipeline.Params{
			"src": pipeline.FromInput("sensor_grids"),
		},
	})

	b.Task(pipeline.TaskSpec{
		Name:     RunRadianceWindowContrib,
		Template: templates.RadianceWindowContribName,
		Needs:    []string{ReadGrids},
		Loop: &pipeline.LoopSpec{
			Over:      pipeline.FromOutput(ReadGrids, "data"),
			SubFolder: SubFolder,
			SubPaths: map[string]string{
				"sensor_grid":     "{{item.full_id}}.pts",
				"ref_sensor_grid": "{{item.full_id}}_ref.pts",
			},
		},
		Params: pipeline.Params{
			"radiance_parameters":   pipeline.FromInput("radiance_parameters"),
			"octree_file_spec":      pipeline.FromInput("octree_file_spec"),
			"octree_file_diff":      pipeline.FromInput("octree_file_diff"),
			"octree_file_with_suns": pipeline.FromInput("octree_file_with_suns"),
			"group_name":            pipeline.FromInput("group_name"),
			"grid_name":             pipeline.Templated("{{item.full_id}}"),
			"sensor_grid":           pipeline.FromInput("sensor_grid_folder"),
			"ref_sensor_grid":       pipeline.FromInput("sensor_grid_folder"),
			"sensor_count":          pipeline.Templated("{{item.count}}"),
			"sky_dome":              pipeline.FromInput("sky_dome"),
			"sky_matrix":            pipeline.FromInput("sky_matrix"),
			// The direct matrix deliberately receives the total sky
			// matrix, matching the simulation recipe this encodes.
			"sky_matrix_direct": pipeline.FromInput("sky_matrix"),
			"sun_modifiers":     pipeline.FromInput("sun_modifiers"),
		},
	})

	b.Task(pipeline.TaskSpec{
		Name:     RunDynamicBehaviorContrib,
		Template: templates.DynamicBehaviorName,
		Needs:    []string{ReadGrids, RunRadianceWindowContrib},
		Loop: &pipeline.LoopSpec{
			Over:      pipeline.FromOutput(ReadGrids, "data"),
			SubFolder: SubFolder,
			SubPaths: map[string]string{
				"direct_specular":   "{{item.full_id}}.ill",
				"indirect_specular": "{{item.full_id}}.ill",
				"ref_specular":      "{{item.full_id}}.ill",
				"indirect_diffuse":  "{{item.full_id}}.ill",
				"ref_diffuse":       "{{item.full_id}}.ill",
			},
		},
		Params: pipeline.Params{
			"result_sql":        pipeline.FromInput("result_sql"),
			"direct_specular":   pipeline.Templated("shortwave/dynamic/initial/{{group_name}}/direct_spec"),
			"indirect_specular": pipeline.Templated("shortwave/dynamic/initial/{{group_name}}/indirect_spec"),
			"ref_specular":      pipeline.Templated("shortwave/dynamic/initial/{{group_name}}/reflected_spec"),
			"indirect_diffuse":  pipeline.Templated("shortwave/dynamic/initial/{{group_name}}/total_diff"),
			"ref_diffuse":       pipeline.Templated("shortwave/dynamic/initial/{{group_name}}/reflected_diff"),
			"sun_up_hours":      pipeline.FromInput("sun_up_hours"),
			"aperture_id":       pipeline.FromInput("group_name"),
			"grid_name":         pipeline.Templated("{{item.full_id}}"),
		},
	})

	pipe, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(err, "unable to build the dynamic-contribution pipeline")
	}

	return pipe, nil
}

// Specs lists the template contracts the pipeline references.
func Specs() []templates.Spec {
	return []templates.Spec{
		templates.ReadJSONListSpec,
		templates.RadianceWindowContribSpec,
		templates.DynamicBehaviorSpec,
	}
}
