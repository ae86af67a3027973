// Package comfortmap defines the comfort-mapping workflow: seven task
// nodes that turn EnergyPlus and Radiance results for one sensor grid
// into PMV comfort matrices and occupied-time comfort metrics.
package comfortmap

import (
	"github.com/pkg/errors"

	"github.com/buildsim/comfortflow/pkg/pipeline"
	"github.com/buildsim/comfortflow/pkg/templates"
)

// Name is the pipeline name.
const Name = "comfort-mapping"

// Task names, exported so callers can address outputs and tests can
// assert on the graph shape.
const (
	CreateLongwaveMrtMap    = "create_longwave_mrt_map"
	CreateShortwaveMrtMap   = "create_shortwave_mrt_map"
	CreateAirTemperatureMap = "create_air_temperature_map"
	CreateRelHumidityMap    = "create_rel_humidity_map"
	CreateAirSpeedJSON      = "create_air_speed_json"
	ProcessPmvMatrix        = "process_pmv_matrix"
	ComputeTcp              = "compute_tcp"
)

// DefaultSolarcalParameters are the SolarCal model assumptions used when
// the solarcal_parameters slot is left unbound.
const DefaultSolarcalParameters = "--posture seated --sharp 135 --absorptivity 0.7 --emissivity 0.95"

// DefaultComfortParameters are the PMV model assumptions used when the
// comfort_parameters slot is left unbound.
const DefaultComfortParameters = "--ppd-threshold 10"

// EntryPoint builds the comfort-mapping pipeline definition.
func EntryPoint() (*pipeline.Pipeline, error) {
	b := pipeline.NewBuilder(Name)

	b.File("epw", "Weather file used for the comfort map.",
		pipeline.WithExtensions("epw"))
	b.File("result_sql", "A SQLite file that was generated by EnergyPlus and contains hourly or sub-hourly thermal comfort results.",
		pipeline.WithExtensions("sql", "db", "sqlite"))
	b.String("grid_name", "Sensor grid file name (used to name the final result files).")
	b.File("enclosure_info", "A JSON file containing information about the radiant enclosure that sensor points belong to.",
		pipeline.WithExtensions("json"))
	b.File("view_factors", "A CSV of spherical view factors to the surfaces in the result-sql.",
		pipeline.WithExtensions("csv"))
	b.File("modifiers", "Path to a modifiers file that aligns with the view-factors.",
		pipeline.WithExtensions("mod", "txt"))
	b.File("indirect_irradiance", "An .ill containing the indirect irradiance for each sensor.",
		pipeline.WithExtensions("ill", "irr"))
	b.File("direct_irradiance", "An .ill containing direct irradiance for each sensor.",
		pipeline.WithExtensions("ill", "irr"))
	b.File("ref_irradiance", "An .ill containing ground-reflected irradiance for each sensor.",
		pipeline.WithExtensions("ill", "irr"))
	b.File("sun_up_hours", "A sun-up-hours.txt file output by Radiance that aligns with the input irradiance files.")
	b.File("occ_schedules", "A JSON file containing occupancy schedules derived from the input model.")
	b.String("run_period", "An AnalysisPeriod string to set the start and end dates of the simulation. Empty means annual.",
		pipeline.WithDefault(""))
	b.File("air_speed", "A CSV file containing a single number for air speed in m/s or several rows of air speeds that align with the run period.",
		pipeline.Optional())
	b.File("met_rate", "A CSV file containing a single number for metabolic rate in met or several rows of met values that align with the run period.",
		pipeline.Optional())
	b.File("clo_value", "A CSV file containing a single number for clothing level in clo or several rows of clo values that align with the run period.",
		pipeline.Optional())
	b.String("solarcal_parameters", "A SolarCalParameter string to customize the assumptions of the SolarCal model.",
		pipeline.WithDefault(DefaultSolarcalParameters))
	b.String("comfort_parameters", "A PMVParameter string to customize the assumptions of the PMV comfort model.",
		pipeline.WithDefault(DefaultComfortParameters))
	b.String("write_set_map", "A switch to note whether the output temperature CSV should record Operative Temperature or Standard Effective Temperature (SET).",
		pipeline.WithDefault("write-op-map"))

	b.Task(pipeline.TaskSpec{
		Name:     CreateLongwaveMrtMap,
		Template: templates.LongwaveMrtMapName,
		Params: pipeline.Params{
			"result_sql":     pipeline.FromInput("result_sql"),
			"view_factors":   pipeline.FromInput("view_factors"),
			"modifiers":      pipeline.FromInput("modifiers"),
			"enclosure_info": pipeline.FromInput("enclosure_info"),
			"epw":            pipeline.FromInput("epw"),
			"run_period":     pipeline.FromInput("run_period"),
			"name":           pipeline.FromInput("grid_name"),
		},
		Outputs: []pipeline.OutputMapping{
			{From: "longwave_mrt_map", To: "conditions/longwave_mrt/{{name}}.csv"},
		},
	})

	b.Task(pipeline.TaskSpec{
		Name:     CreateShortwaveMrtMap,
		Template: templates.ShortwaveMrtMapName,
		Params: pipeline.Params{
			"epw":                 pipeline.FromInput("epw"),
			"indirect_irradiance": pipeline.FromInput("indirect_irradiance"),
			"direct_irradiance":   pipeline.FromInput("direct_irradiance"),
			"ref_irradiance":      pipeline.FromInput("ref_irradiance"),
			"sun_up_hours":        pipeline.FromInput("sun_up_hours"),
			"solarcal_par":        pipeline.FromInput("solarcal_parameters"),
			"run_period":          pipeline.FromInput("run_period"),
			"name":                pipeline.FromInput("grid_name"),
		},
		Outputs: []pipeline.OutputMapping{
			{From: "shortwave_mrt_map", To: "conditions/shortwave_mrt/{{name}}.csv"},
		},
	})

	b.Task(pipeline.TaskSpec{
		Name:     CreateAirTemperatureMap,
		Template: templates.AirMapName,
		Params: pipeline.Params{
			"result_sql":     pipeline.FromInput("result_sql"),
			"enclosure_info": pipeline.FromInput("enclosure_info"),
			"epw":            pipeline.FromInput("epw"),
			"run_period":     pipeline.FromInput("run_period"),
			"metric":         pipeline.Literal("air-temperature"),
			"name":           pipeline.FromInput("grid_name"),
		},
		Outputs: []pipeline.OutputMapping{
			{From: "air_map", To: "conditions/air_temperature/{{name}}.csv"},
		},
	})

	b.Task(pipeline.TaskSpec{
		Name:     CreateRelHumidityMap,
		Template: templates.AirMapName,
		Params: pipeline.Params{
			"result_sql":     pipeline.FromInput("result_sql"),
			"enclosure_info": pipeline.FromInput("enclosure_info"),
			"epw":            pipeline.FromInput("epw"),
			"run_period":     pipeline.FromInput("run_period"),
			"metric":         pipeline.Literal("relative-humidity"),
			"name":           pipeline.FromInput("grid_name"),
		},
		Outputs: []pipeline.OutputMapping{
			{From: "air_map", To: "conditions/rel_humidity/{{name}}.csv"},
		},
	})

	b.Task(pipeline.TaskSpec{
		Name:     CreateAirSpeedJSON,
		Template: templates.AirSpeedJSONName,
		Params: pipeline.Params{
			"epw":              pipeline.FromInput("epw"),
			"enclosure_info":   pipeline.FromInput("enclosure_info"),
			"multiply_by":      pipeline.Literal("0.5"),
			"indoor_air_speed": pipeline.FromInput("air_speed"),
			"run_period":       pipeline.FromInput("run_period"),
			"name":             pipeline.FromInput("grid_name"),
		},
		Outputs: []pipeline.OutputMapping{
			{From: "air_speeds", To: "conditions/air_speed/{{name}}.json"},
		},
	})

	b.Task(pipeline.TaskSpec{
		Name:     ProcessPmvMatrix,
		Template: templates.PmvMtxName,
		Needs: []string{
			CreateLongwaveMrtMap, CreateShortwaveMrtMap,
			CreateAirTemperatureMap, CreateRelHumidityMap, CreateAirSpeedJSON,
		},
		Params: pipeline.Params{
			"air_temperature_mtx": pipeline.FromOutput(CreateAirTemperatureMap, "air_map"),
			"rel_humidity_mtx":    pipeline.FromOutput(CreateRelHumidityMap, "air_map"),
			"rad_temperature_mtx": pipeline.FromOutput(CreateLongwaveMrtMap, "longwave_mrt_map"),
			"rad_delta_mtx":       pipeline.FromOutput(CreateShortwaveMrtMap, "shortwave_mrt_map"),
			"air_speed_json":      pipeline.FromOutput(CreateAirSpeedJSON, "air_speeds"),
			"met_rate":            pipeline.FromInput("met_rate"),
			"clo_value":           pipeline.FromInput("clo_value"),
			"comfort_par":         pipeline.FromInput("comfort_parameters"),
			"write_set_map":       pipeline.FromInput("write_set_map"),
			"name":                pipeline.FromInput("grid_name"),
		},
		Outputs: []pipeline.OutputMapping{
			{From: "temperature_map", To: "results/temperature/{{name}}.csv"},
			{From: "condition_map", To: "results/condition/{{name}}.csv"},
			{From: "pmv_map", To: "results/condition_intensity/{{name}}.csv"},
		},
	})

	b.Task(pipeline.TaskSpec{
		Name:     ComputeTcp,
		Template: templates.TcpName,
		Needs:    []string{ProcessPmvMatrix},
		Params: pipeline.Params{
			"condition_csv":     pipeline.FromOutput(ProcessPmvMatrix, "condition_map"),
			"enclosure_info":    pipeline.FromInput("enclosure_info"),
			"occ_schedule_json": pipeline.FromInput("occ_schedules"),
			"name":              pipeline.FromInput("grid_name"),
		},
		Outputs: []pipeline.OutputMapping{
			{From: "tcp", To: "metrics/TCP/{{name}}.csv"},
			{From: "hsp", To: "metrics/HSP/{{name}}.csv"},
			{From: "csp", To: "metrics/CSP/{{name}}.csv"},
		},
	})

	pipe, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(err, "unable to build the comfort-mapping pipeline")
	}

	return pipe, nil
}

// Specs lists the template contracts the pipeline references.
func Specs() []templates.Spec {
	return []templates.Spec{
		templates.LongwaveMrtMapSpec,
		templates.ShortwaveMrtMapSpec,
		templates.AirMapSpec,
		templates.AirSpeedJSONSpec,
		templates.PmvMtxSpec,
		templates.TcpSpec,
	}
}
