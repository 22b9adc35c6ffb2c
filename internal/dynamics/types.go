package dynamics

import "math"

// State is the rotational state vector [theta, omega].
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// TorqueFunc maps (time, plate angle) to a torque in N·m. Resolved
// torque functions must be total: finite output for any finite input.
type TorqueFunc func(t, theta float64) float64

// Components holds the instantaneous torque breakdown at one sample.
// Friction, Drag and Grass are resistive magnitudes already signed to
// oppose the current sense of rotation.
type Components struct {
	Input    float64
	Friction float64
	Drag     float64
	Grass    float64
}

// Net is the torque available for angular acceleration.
func (c Components) Net() float64 {
	return c.Input - c.Friction - c.Drag - c.Grass
}
