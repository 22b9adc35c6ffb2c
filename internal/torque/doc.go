// Package torque builds the resistive and input torque closures used
// by the cutter model.
//
// A [Spec] names one function kind plus its numeric parameters.
// Temporal kinds (constant, sinusoidal, step, ramp, exponential) vary
// with elapsed time; spatial kinds (zones, gaussian_patches,
// sigmoid_transition, spatial_sinusoidal, composite_terrain) vary with
// position along the cutting path, derived either from advance
// velocity x time or from plate angle x radius.
//
// [Resolve] validates the spec once and returns a pure closure; a
// malformed or unknown spec fails there with a ConfigurationError, so
// evaluation inside the solver loop can never fail.
package torque
