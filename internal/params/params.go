package params

// ParameterSet bundles every physical and numerical parameter of a
// single simulation run. Treat values as immutable once validated:
// derive changed sets through Build rather than mutating in place.
type ParameterSet struct {
	// Geometry
	Radius        float64 `yaml:"radius" json:"radius"`                           // plate radius [m]
	BladeLenFrac  float64 `yaml:"blade_length_fraction" json:"blade_length_fraction"` // blade length as fraction of radius
	CuttingWidth  float64 `yaml:"cutting_width" json:"cutting_width"`             // effective cut width [m]

	// Mass
	TotalMass     float64 `yaml:"total_mass" json:"total_mass"`                   // plate + blades [kg]
	PlateMassFrac float64 `yaml:"plate_mass_fraction" json:"plate_mass_fraction"` // plate share of total mass
	BladeCount    int     `yaml:"blade_count" json:"blade_count"`

	// Motor
	InputTorque float64 `yaml:"input_torque" json:"input_torque"` // constant motor torque [N·m]

	// Resistance
	ViscousFriction float64 `yaml:"viscous_friction" json:"viscous_friction"` // b [N·m·s/rad]
	DragCoeff       float64 `yaml:"drag_coefficient" json:"drag_coefficient"` // c [N·m·s²/rad²]

	// Vegetation
	VegDensity      float64 `yaml:"vegetation_density" json:"vegetation_density"` // rho [kg/m²]
	GrassResistance float64 `yaml:"grass_resistance" json:"grass_resistance"`     // k [N·s/m]
	AdvanceVelocity float64 `yaml:"advance_velocity" json:"advance_velocity"`     // forward speed [m/s]

	// Simulation
	Duration float64 `yaml:"duration" json:"duration"` // time span [s]
	Points   int     `yaml:"points" json:"points"`     // output samples
	Method   string  `yaml:"method" json:"method"`     // solver method name
	RelTol   float64 `yaml:"rtol" json:"rtol"`
	AbsTol   float64 `yaml:"atol" json:"atol"`
	MaxStep  float64 `yaml:"max_step" json:"max_step"` // 0 means unrestricted

	// Initial conditions
	InitialAngle float64 `yaml:"initial_angle" json:"initial_angle"` // [rad]
	InitialOmega float64 `yaml:"initial_omega" json:"initial_omega"` // [rad/s]
}

// Defaults returns the reference configuration: a 0.6 m two-blade
// cutter driven at 200 N·m, integrated for 10 s with RK45.
func Defaults() ParameterSet {
	return ParameterSet{
		Radius:          0.6,
		BladeLenFrac:    0.30,
		CuttingWidth:    1.8,
		TotalMass:       15.0,
		PlateMassFrac:   0.40,
		BladeCount:      2,
		InputTorque:     200.0,
		ViscousFriction: 0.1,
		DragCoeff:       0.01,
		VegDensity:      1.0,
		GrassResistance: 15.0,
		AdvanceVelocity: 3.0,
		Duration:        10.0,
		Points:          1000,
		Method:          "rk45",
		RelTol:          1e-8,
		AbsTol:          1e-10,
		MaxStep:         0,
		InitialAngle:    0,
		InitialOmega:    0,
	}
}

// BladeLength is the physical blade length implied by the fraction.
func (p ParameterSet) BladeLength() float64 {
	return p.BladeLenFrac * p.Radius
}

// PlateMass is the plate share of the total mass.
func (p ParameterSet) PlateMass() float64 {
	return p.PlateMassFrac * p.TotalMass
}

// BladeMass is the mass of a single blade.
func (p ParameterSet) BladeMass() float64 {
	return (p.TotalMass - p.PlateMass()) / float64(p.BladeCount)
}
