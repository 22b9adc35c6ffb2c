package torque

// Kind identifies a torque function. The set is closed: Resolve
// rejects anything else at construction time.
type Kind string

const (
	// Temporal kinds, driven by elapsed time.
	Constant    Kind = "constant"
	Sinusoidal  Kind = "sinusoidal"
	Step        Kind = "step"
	Ramp        Kind = "ramp"
	Exponential Kind = "exponential"

	// Spatial kinds, driven by position along the cutting path.
	Zones             Kind = "zones"
	GaussianPatches   Kind = "gaussian_patches"
	SigmoidTransition Kind = "sigmoid_transition"
	SpatialSinusoidal Kind = "spatial_sinusoidal"
	CompositeTerrain  Kind = "composite_terrain"
)

// PositionSource selects how spatial kinds derive their position
// coordinate from the simulation state.
type PositionSource string

const (
	// AdvancePosition derives position as advance velocity times time.
	AdvancePosition PositionSource = "advance"
	// BladeTipPosition derives position as plate angle times radius.
	BladeTipPosition PositionSource = "blade_tip"
)

// Spec is the tagged parameter bundle for one torque function. Only
// the fields the Kind requires are consulted; Resolve reports which
// ones are malformed.
type Spec struct {
	Kind Kind `yaml:"kind" json:"kind"`

	// Shared levels [N·m].
	Base      float64 `yaml:"base,omitempty" json:"base,omitempty"`
	High      float64 `yaml:"high,omitempty" json:"high,omitempty"`
	Amplitude float64 `yaml:"amplitude,omitempty" json:"amplitude,omitempty"`

	// Temporal shape parameters.
	Frequency    float64 `yaml:"frequency,omitempty" json:"frequency,omitempty"`         // [Hz]
	Phase        float64 `yaml:"phase,omitempty" json:"phase,omitempty"`                 // [rad]
	StartTime    float64 `yaml:"start_time,omitempty" json:"start_time,omitempty"`       // step time / ramp start [s]
	RampDuration float64 `yaml:"ramp_duration,omitempty" json:"ramp_duration,omitempty"` // [s]
	TimeConstant float64 `yaml:"time_constant,omitempty" json:"time_constant,omitempty"` // [s]
	Decay        bool    `yaml:"decay,omitempty" json:"decay,omitempty"`                 // exponential: decay vs growth

	// Spatial shape parameters.
	ZoneTorques []float64 `yaml:"zone_torques,omitempty" json:"zone_torques,omitempty"` // [N·m]
	ZoneLengths []float64 `yaml:"zone_lengths,omitempty" json:"zone_lengths,omitempty"` // [m]
	Centers     []float64 `yaml:"centers,omitempty" json:"centers,omitempty"`           // patch centers [m]
	Amplitudes  []float64 `yaml:"amplitudes,omitempty" json:"amplitudes,omitempty"`     // patch amplitudes [N·m]
	Widths      []float64 `yaml:"widths,omitempty" json:"widths,omitempty"`             // patch std devs [m]
	Wavelength  float64   `yaml:"wavelength,omitempty" json:"wavelength,omitempty"`     // [m]
	Center      float64   `yaml:"center,omitempty" json:"center,omitempty"`             // sigmoid midpoint [m]
	Width       float64   `yaml:"width,omitempty" json:"width,omitempty"`               // sigmoid steepness [m]

	// Position derivation for spatial kinds.
	Position        PositionSource `yaml:"position,omitempty" json:"position,omitempty"`
	AdvanceVelocity float64        `yaml:"advance_velocity,omitempty" json:"advance_velocity,omitempty"` // [m/s]
	Radius          float64        `yaml:"radius,omitempty" json:"radius,omitempty"`                     // [m], blade_tip source

	// Composite terrain: weighted sum of spatial sub-specs.
	Terms   []Spec    `yaml:"terms,omitempty" json:"terms,omitempty"`
	Weights []float64 `yaml:"weights,omitempty" json:"weights,omitempty"`
}

// IsSpatial reports whether the kind consumes position rather than time.
func (k Kind) IsSpatial() bool {
	switch k {
	case Zones, GaussianPatches, SigmoidTransition, SpatialSinusoidal, CompositeTerrain:
		return true
	}
	return false
}

// WithDefaults fills the position-derivation fields the spec leaves
// unset from the machine parameters, recursing through composite
// terms. Explicit spec values always win.
func (s Spec) WithDefaults(advanceVelocity, radius float64) Spec {
	if s.AdvanceVelocity == 0 {
		s.AdvanceVelocity = advanceVelocity
	}
	if s.Radius == 0 {
		s.Radius = radius
	}
	if len(s.Terms) > 0 {
		terms := make([]Spec, len(s.Terms))
		for i, term := range s.Terms {
			terms[i] = term.WithDefaults(advanceVelocity, radius)
		}
		s.Terms = terms
	}
	return s
}
