package appointment

import (
	"fmt"

	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/errs"
)

// ActorKind identifies the kind of party performing a lifecycle operation.
type ActorKind string

const (
	// ActorClient is the requesting client.
	ActorClient ActorKind = "client"
	// ActorDriver is the driver assigned to the appointment.
	ActorDriver ActorKind = "driver"
	// ActorAdmin is a back-office operator.
	ActorAdmin ActorKind = "admin"
	// ActorSystem is the dispatch engine itself (automatic assignment).
	ActorSystem ActorKind = "system"
)

// Validate checks that the kind is one of the defined actor kinds.
func (k ActorKind) Validate() error {
	switch k {
	case ActorClient, ActorDriver, ActorAdmin, ActorSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("actorKind",
			fmt.Errorf("%q is not a valid actor kind", string(k)))
	}
}

// Actor is the party recorded against a status change: an id plus its kind.
// System actors carry no id; every other kind requires one.
type Actor struct {
	ID   kernel.UUID
	Kind ActorKind
}

// NewActor creates an actor of the given kind acting under the given id.
func NewActor(id kernel.UUID, kind ActorKind) (Actor, error) {
	actor := Actor{ID: id, Kind: kind}
	if err := actor.Validate(); err != nil {
		return Actor{}, err
	}
	return actor, nil
}

// SystemActor returns the actor used for automatic, engine-initiated
// operations such as auto-assignment.
func SystemActor() Actor {
	return Actor{Kind: ActorSystem}
}

// Validate checks the kind and, for non-system actors, the id.
func (a Actor) Validate() error {
	if err := a.Kind.Validate(); err != nil {
		return err
	}
	if a.Kind != ActorSystem {
		if err := a.ID.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("actorId", err)
		}
	}
	return nil
}
