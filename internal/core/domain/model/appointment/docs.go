// Package appointment provides domain entities and business logic for
// verification appointment management. It implements the Appointment
// aggregate root with lifecycle management and state transitions.
//
// The package includes:
//   - Appointment: The aggregate root managing identity, services, pricing and lifecycle
//   - Status: A state machine enforcing the legal appointment transitions
//   - Schedule, Address, ServiceItem, Pricing: supporting value objects
//   - Actor: the party (client, driver, admin, system) performing an operation
//
// Key business rules:
//   - Appointments are created in pending status and are never deleted;
//     cancellation is a terminal state, not removal
//   - The current status always equals the last entry of the status history
//   - Pricing is recomputed whenever the service list changes
//   - Ratings are accepted exactly once per kind and only after delivery
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are
// enforced.
package appointment
