// Package physics models the rotational dynamics of a rotary cutter
// head: a driven disk with tip-mounted blades working against viscous
// friction, aerodynamic drag and vegetation resistance.
package physics
