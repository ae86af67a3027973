package templates

// Template names referenced by the workflow definitions.
const (
	LongwaveMrtMapName  = "longwave-mrt-map"
	ShortwaveMrtMapName = "shortwave-mrt-map"
	AirMapName          = "air-map"
	AirSpeedJSONName    = "air-speed-json"
	PmvMtxName          = "pmv-mtx"
	TcpName             = "tcp"
	ReadJSONListName    = "read-json-list"

	RadianceWindowContribName = "radiance-window-contrib"
	DynamicBehaviorName       = "dynamic-behavior"
)

// LongwaveMrtMapSpec computes a long-wave mean radiant temperature map
// from enclosure view factors and EnergyPlus results.
var LongwaveMrtMapSpec = Spec{
	Name: LongwaveMrtMapName,
	Inputs: []Param{
		{Name: "result_sql"},
		{Name: "view_factors"},
		{Name: "modifiers"},
		{Name: "enclosure_info"},
		{Name: "epw"},
		{Name: "run_period"},
		{Name: "name"},
	},
	Outputs: []string{"longwave_mrt_map"},
}

// ShortwaveMrtMapSpec computes a short-wave mean radiant temperature
// delta map from irradiance results and sun-up hours.
var ShortwaveMrtMapSpec = Spec{
	Name: ShortwaveMrtMapName,
	Inputs: []Param{
		{Name: "epw"},
		{Name: "indirect_irradiance"},
		{Name: "direct_irradiance"},
		{Name: "ref_irradiance"},
		{Name: "sun_up_hours"},
		{Name: "solarcal_par"},
		{Name: "run_period"},
		{Name: "name"},
	},
	Outputs: []string{"shortwave_mrt_map"},
}

// AirMapSpec extracts a per-sensor time series of one EnergyPlus metric
// (air temperature or relative humidity).
var AirMapSpec = Spec{
	Name: AirMapName,
	Inputs: []Param{
		{Name: "result_sql"},
		{Name: "enclosure_info"},
		{Name: "epw"},
		{Name: "run_period"},
		{Name: "metric"},
		{Name: "name"},
	},
	Outputs: []string{"air_map"},
}

// AirSpeedJSONSpec derives an air-speed time series. Without an
// indoor_air_speed override the tool scales the enclosure's nominal
// indoor air speed by multiply_by.
var AirSpeedJSONSpec = Spec{
	Name: AirSpeedJSONName,
	Inputs: []Param{
		{Name: "epw"},
		{Name: "enclosure_info"},
		{Name: "multiply_by"},
		{Name: "indoor_air_speed", Optional: true},
		{Name: "run_period"},
		{Name: "name"},
	},
	Outputs: []string{"air_speeds"},
}

// PmvMtxSpec combines the five per-sensor series into temperature,
// condition and condition-intensity matrices.
var PmvMtxSpec = Spec{
	Name: PmvMtxName,
	Inputs: []Param{
		{Name: "air_temperature_mtx"},
		{Name: "rel_humidity_mtx"},
		{Name: "rad_temperature_mtx"},
		{Name: "rad_delta_mtx"},
		{Name: "air_speed_json"},
		{Name: "met_rate", Optional: true},
		{Name: "clo_value", Optional: true},
		{Name: "comfort_par"},
		{Name: "write_set_map"},
		{Name: "name"},
	},
	Outputs: []string{"temperature_map", "condition_map", "pmv_map"},
}

// TcpSpec computes thermal comfort percent metrics from a condition map
// and occupancy schedules.
var TcpSpec = Spec{
	Name: TcpName,
	Inputs: []Param{
		{Name: "condition_csv"},
		{Name: "enclosure_info"},
		{Name: "occ_schedule_json"},
		{Name: "name"},
	},
	Outputs: []string{"tcp", "hsp", "csp"},
}

// ReadJSONListSpec parses a JSON manifest into an ordered list of grid
// descriptors.
var ReadJSONListSpec = Spec{
	Name: ReadJSONListName,
	Inputs: []Param{
		{Name: "src"},
	},
	Outputs: []string{"data"},
}

// RadianceWindowContribSpec traces the specular, diffuse and sun
// contributions of one aperture group for a single sensor grid. It is a
// sub-workflow contract: all of its results land inside the instance
// folder, so it declares no addressable artifacts.
var RadianceWindowContribSpec = Spec{
	Name: RadianceWindowContribName,
	Inputs: []Param{
		{Name: "radiance_parameters"},
		{Name: "octree_file_spec"},
		{Name: "octree_file_diff"},
		{Name: "octree_file_with_suns"},
		{Name: "group_name"},
		{Name: "grid_name"},
		{Name: "sensor_grid"},
		{Name: "ref_sensor_grid"},
		{Name: "sensor_count"},
		{Name: "sky_dome"},
		{Name: "sky_matrix"},
		{Name: "sky_matrix_direct"},
		{Name: "sun_modifiers"},
	},
}

// DynamicBehaviorSpec post-processes the traced contributions of one
// aperture group against its transmittance schedule. Sub-workflow
// contract, no addressable artifacts.
var DynamicBehaviorSpec = Spec{
	Name: DynamicBehaviorName,
	Inputs: []Param{
		{Name: "result_sql"},
		{Name: "direct_specular"},
		{Name: "indirect_specular"},
		{Name: "ref_specular"},
		{Name: "indirect_diffuse"},
		{Name: "ref_diffuse"},
		{Name: "sun_up_hours"},
		{Name: "aperture_id"},
		{Name: "grid_name"},
	},
}
