// Package dynamics provides core primitives for the rotary cutter
// simulation engine.
//
// The package defines the shared vocabulary the engine packages build
// on:
//
//   - [State]: the rotational state vector [theta, omega]
//   - [TorqueFunc]: a resolved (time, angle) -> torque closure
//   - [Components]: an instantaneous torque breakdown
//
// and the three error kinds the engine surfaces to callers:
//
//   - [ValidationError]: a parameter or cross-field bound violated
//   - [ConfigurationError]: an unknown torque kind or solver method
//   - [IntegrationError]: the numerical solve failed, carrying the
//     last accepted state when one exists
//
// Errors are never suppressed inside the engine and never encoded as
// sentinel values in otherwise valid numeric output.
package dynamics
