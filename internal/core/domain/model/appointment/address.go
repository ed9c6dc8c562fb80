package appointment

import (
	"errors"

	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"
	"verimoto/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when using an improperly
// initialized Address. Addresses must be created via NewAddress.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is a pickup or delivery location: a postal address plus its
// geographic point. Immutable value object.
type Address struct { //nolint:recvcheck //using for validation
	street string
	city   string
	state  string
	zip    string
	point  kernel.GeoPoint
	guard  guard.ConstructorGuard
}

// NewAddress creates an Address. Street and a valid geo point are required;
// city, state and zip are carried through for display purposes.
func NewAddress(street, city, state, zip string, point kernel.GeoPoint) (Address, error) {
	address := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		address.setStreet(street),
		address.setPoint(point),
	); err != nil {
		return Address{}, err
	}

	address.city = city
	address.state = state
	address.zip = zip
	return address, nil
}

// Validate checks that the Address was created via NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street line of the address.
func (a Address) Street() string { return a.street }

// City returns the city of the address.
func (a Address) City() string { return a.city }

// State returns the state of the address.
func (a Address) State() string { return a.state }

// Zip returns the postal code of the address.
func (a Address) Zip() string { return a.zip }

// Point returns the geographic point of the address.
func (a Address) Point() kernel.GeoPoint { return a.point }

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	a.point = point
	return nil
}
