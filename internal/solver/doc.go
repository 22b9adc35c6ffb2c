// Package solver implements adaptive ODE integration with dense
// output.
//
// Explicit methods: Dormand-Prince 5(4) ([RK45]), Bogacki-Shampine
// 3(2) ([RK23]) and eighth-order Gragg-Bulirsch-Stoer extrapolation
// ([GBS8]). Implicit methods for stiff regimes: three-stage Radau IIA
// ([Radau]) and variable-step BDF2 ([BDF]). [Auto] starts with the
// explicit pair and switches to BDF when the step controller detects
// stiffness.
//
// Every accepted step records a continuous interpolant, so [Solution.Eval]
// answers state queries at arbitrary times inside the span without
// linear interpolation between steps. Failures surface as
// dynamics.IntegrationError carrying the last accepted state; partial
// results are never returned as if they were complete.
package solver
