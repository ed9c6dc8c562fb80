// Package guard implements the constructor guard pattern used by domain
// objects to reject zero-value instances that bypassed their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes
// a nil validation error, so that validation of an unconstructed object
// never silently succeeds.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as having been created through its
// designated constructor. Embedding a ConstructorGuard and checking it in
// Validate lets domain objects detect zero values created with a struct
// literal, which would otherwise skip all invariant checks.
//
// Example usage:
//
//	type Pricing struct {
//	    total float64
//	    guard guard.ConstructorGuard
//	}
//
//	func NewPricing(total float64) (Pricing, error) {
//	    return Pricing{total: total, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (p Pricing) Validate() error {
//	    return p.guard.Validate(ErrPricingIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the owning object as properly
// constructed. Call it inside the object's constructor only.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the owning object was built through its
// constructor, or validationError otherwise. A nil validationError falls
// back to ErrDefaultConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
