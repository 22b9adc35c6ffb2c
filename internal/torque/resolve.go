package torque

import (
	"math"

	"github.com/agromech/cuttersim/internal/dynamics"
)

type builder func(Spec) (dynamics.TorqueFunc, error)

// Closed lookup table: one builder per kind. Unknown kinds fail here,
// at construction, never at evaluation. Filled in init because
// buildComposite recurses through Resolve.
var builders map[Kind]builder

func init() {
	builders = map[Kind]builder{
		Constant:          buildConstant,
		Sinusoidal:        buildSinusoidal,
		Step:              buildStep,
		Ramp:              buildRamp,
		Exponential:       buildExponential,
		Zones:             buildZones,
		GaussianPatches:   buildGaussianPatches,
		SigmoidTransition: buildSigmoid,
		SpatialSinusoidal: buildSpatialSinusoidal,
		CompositeTerrain:  buildComposite,
	}
}

// Resolve turns a spec into a pure torque closure. All resolved
// functions are total over finite inputs.
func Resolve(spec Spec) (dynamics.TorqueFunc, error) {
	b, ok := builders[spec.Kind]
	if !ok {
		return nil, dynamics.Configurationf("unknown torque function kind %q", spec.Kind)
	}
	return b(spec)
}

func buildConstant(s Spec) (dynamics.TorqueFunc, error) {
	v := s.Base
	return func(t, theta float64) float64 { return v }, nil
}

func buildSinusoidal(s Spec) (dynamics.TorqueFunc, error) {
	base, amp, freq, phase := s.Base, s.Amplitude, s.Frequency, s.Phase
	return func(t, theta float64) float64 {
		return base + amp*math.Sin(2*math.Pi*freq*t+phase)
	}, nil
}

func buildStep(s Spec) (dynamics.TorqueFunc, error) {
	low, high, at := s.Base, s.High, s.StartTime
	return func(t, theta float64) float64 {
		if t >= at {
			return high
		}
		return low
	}, nil
}

func buildRamp(s Spec) (dynamics.TorqueFunc, error) {
	if s.RampDuration <= 0 {
		return nil, dynamics.Configurationf("ramp: ramp_duration must be positive, got %g", s.RampDuration)
	}
	low, high, start, dur := s.Base, s.High, s.StartTime, s.RampDuration
	return func(t, theta float64) float64 {
		// Clamped outside [start, start+dur], never extrapolated.
		switch {
		case t <= start:
			return low
		case t >= start+dur:
			return high
		default:
			return low + (high-low)*(t-start)/dur
		}
	}, nil
}

func buildExponential(s Spec) (dynamics.TorqueFunc, error) {
	if s.TimeConstant <= 0 {
		return nil, dynamics.Configurationf("exponential: time_constant must be positive, got %g", s.TimeConstant)
	}
	base, amp, tau := s.Base, s.Amplitude, s.TimeConstant
	if s.Decay {
		return func(t, theta float64) float64 {
			return base + amp*math.Exp(-t/tau)
		}, nil
	}
	return func(t, theta float64) float64 {
		return base + amp*(1-math.Exp(-t/tau))
	}, nil
}

func buildZones(s Spec) (dynamics.TorqueFunc, error) {
	if len(s.ZoneTorques) == 0 || len(s.ZoneTorques) != len(s.ZoneLengths) {
		return nil, dynamics.Configurationf(
			"zones: zone_torques and zone_lengths must be non-empty and equal length, got %d and %d",
			len(s.ZoneTorques), len(s.ZoneLengths))
	}
	total := 0.0
	for i, l := range s.ZoneLengths {
		if l <= 0 {
			return nil, dynamics.Configurationf("zones: zone_lengths[%d] must be positive, got %g", i, l)
		}
		total += l
	}
	pos, err := s.position()
	if err != nil {
		return nil, err
	}
	torques := append([]float64(nil), s.ZoneTorques...)
	lengths := append([]float64(nil), s.ZoneLengths...)
	return func(t, theta float64) float64 {
		// The zone pattern repeats cyclically past its defined length.
		x := math.Mod(pos(t, theta), total)
		if x < 0 {
			x += total
		}
		acc := 0.0
		for i, l := range lengths {
			acc += l
			if x <= acc {
				return torques[i]
			}
		}
		return torques[len(torques)-1]
	}, nil
}

func buildGaussianPatches(s Spec) (dynamics.TorqueFunc, error) {
	n := len(s.Centers)
	if n == 0 || len(s.Amplitudes) != n || len(s.Widths) != n {
		return nil, dynamics.Configurationf(
			"gaussian_patches: centers, amplitudes and widths must be non-empty and equal length, got %d, %d, %d",
			n, len(s.Amplitudes), len(s.Widths))
	}
	for i, w := range s.Widths {
		if w <= 0 {
			return nil, dynamics.Configurationf("gaussian_patches: widths[%d] must be positive, got %g", i, w)
		}
	}
	pos, err := s.position()
	if err != nil {
		return nil, err
	}
	base := s.Base
	centers := append([]float64(nil), s.Centers...)
	amps := append([]float64(nil), s.Amplitudes...)
	widths := append([]float64(nil), s.Widths...)
	return func(t, theta float64) float64 {
		x := pos(t, theta)
		v := base
		for i := range centers {
			d := (x - centers[i]) / widths[i]
			v += amps[i] * math.Exp(-0.5*d*d)
		}
		return v
	}, nil
}

func buildSigmoid(s Spec) (dynamics.TorqueFunc, error) {
	if s.Width <= 0 {
		return nil, dynamics.Configurationf("sigmoid_transition: width must be positive, got %g", s.Width)
	}
	pos, err := s.position()
	if err != nil {
		return nil, err
	}
	low, high, center, width := s.Base, s.High, s.Center, s.Width
	return func(t, theta float64) float64 {
		x := pos(t, theta)
		sig := 1.0 / (1.0 + math.Exp(-(x-center)/width))
		return low + (high-low)*sig
	}, nil
}

func buildSpatialSinusoidal(s Spec) (dynamics.TorqueFunc, error) {
	if s.Wavelength <= 0 {
		return nil, dynamics.Configurationf("spatial_sinusoidal: wavelength must be positive, got %g", s.Wavelength)
	}
	pos, err := s.position()
	if err != nil {
		return nil, err
	}
	base, amp, wl, phase := s.Base, s.Amplitude, s.Wavelength, s.Phase
	return func(t, theta float64) float64 {
		x := pos(t, theta)
		return base + amp*math.Sin(2*math.Pi*x/wl+phase)
	}, nil
}

func buildComposite(s Spec) (dynamics.TorqueFunc, error) {
	if len(s.Terms) == 0 {
		return nil, dynamics.Configurationf("composite_terrain: at least one term required")
	}
	weights := s.Weights
	if weights == nil {
		weights = make([]float64, len(s.Terms))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(s.Terms) {
		return nil, dynamics.Configurationf(
			"composite_terrain: weights length %d does not match terms length %d",
			len(weights), len(s.Terms))
	}
	fns := make([]dynamics.TorqueFunc, len(s.Terms))
	for i, term := range s.Terms {
		if !term.Kind.IsSpatial() {
			return nil, dynamics.Configurationf(
				"composite_terrain: term %d has temporal kind %q, only spatial kinds compose", i, term.Kind)
		}
		// Terms inherit the parent's position derivation unless they
		// set their own.
		if term.Position == "" {
			term.Position = s.Position
			term.AdvanceVelocity = s.AdvanceVelocity
			term.Radius = s.Radius
		}
		fn, err := Resolve(term)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	w := append([]float64(nil), weights...)
	base := s.Base
	return func(t, theta float64) float64 {
		v := base
		for i, fn := range fns {
			v += w[i] * fn(t, theta)
		}
		return v
	}, nil
}

type positionFunc func(t, theta float64) float64

func (s Spec) position() (positionFunc, error) {
	switch s.Position {
	case AdvancePosition, "":
		v := s.AdvanceVelocity
		if v < 0 {
			return nil, dynamics.Configurationf("advance_velocity must be non-negative, got %g", v)
		}
		return func(t, theta float64) float64 { return v * t }, nil
	case BladeTipPosition:
		if s.Radius <= 0 {
			return nil, dynamics.Configurationf("blade_tip position requires a positive radius, got %g", s.Radius)
		}
		r := s.Radius
		return func(t, theta float64) float64 { return theta * r }, nil
	}
	return nil, dynamics.Configurationf("unknown position source %q", s.Position)
}
