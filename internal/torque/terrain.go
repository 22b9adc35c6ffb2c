package torque

// DefaultTerrain is a ready-made composite spec describing a field
// with gentle undulation, two dense vegetation patches, a transition
// band and short-wavelength ripple. Position derivation is left unset
// so the run's own advance velocity applies.
func DefaultTerrain() Spec {
	return Spec{
		Kind:     CompositeTerrain,
		Position: AdvancePosition,
		Base:     45.0,
		Terms: []Spec{
			{Kind: SpatialSinusoidal, Amplitude: 10.0, Wavelength: 20.0},
			{Kind: GaussianPatches, Centers: []float64{12.0, 28.0}, Amplitudes: []float64{25.0, 30.0}, Widths: []float64{2.0, 1.5}},
			{Kind: SigmoidTransition, Base: 0.0, High: 15.0, Center: 20.0, Width: 1.0},
			{Kind: SpatialSinusoidal, Amplitude: 5.0, Wavelength: 3.0, Phase: 1.5},
		},
	}
}
