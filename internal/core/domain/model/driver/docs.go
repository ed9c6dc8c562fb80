// Package driver provides the driver availability record: the subset of the
// driver entity the dispatch engine works with.
//
// The package includes:
//   - Driver: aggregate root carrying availability flags, last known
//     location and the running rating average
//
// Key business rules:
//   - available implies online: a driver cannot be available for dispatch
//     while offline
//   - a driver is unavailable for the entire span between being claimed for
//     an appointment and that appointment reaching a terminal state
//   - a driver cannot go offline while holding an active appointment
package driver
