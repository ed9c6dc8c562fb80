// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the dispatch system. It
// implements business workflows that don't naturally belong to a single
// aggregate root.
//
// The package includes:
//   - DriverMatcher: a domain service for ranking candidate drivers for a
//     pickup point by rating and distance
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
