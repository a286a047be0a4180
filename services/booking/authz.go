package booking

import (
	"time"

	"chairhop/models"
)

// Transition names a lifecycle edge on an appointment.
type Transition string

const (
	TransitionCreate   Transition = "create"
	TransitionBook     Transition = "book"
	TransitionAccept   Transition = "accept"
	TransitionCancel   Transition = "cancel"
	TransitionComplete Transition = "complete"
	TransitionDelete   Transition = "delete"
)

// Actor identifies who is attempting a transition.
type Actor struct {
	ID   string
	Role models.Role
}

// Authorize decides whether the actor may attempt the transition on the
// given slot. It is pure and total: every (role, transition) pair has a
// defined answer, nil for allow or a typed rejection for deny. Status
// preconditions are the engine's job; this only answers the "actor is ..."
// clauses, plus the occupant's not-before-slot-time rule on complete.
func Authorize(actor Actor, apt *models.Appointment, tr Transition, now time.Time) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}

	switch tr {
	case TransitionCreate:
		if actor.Role == models.RoleStylist {
			return nil
		}
		return ErrNotOwner

	case TransitionBook:
		if actor.Role == models.RoleCustomer {
			return nil
		}
		return ErrNotOccupant

	case TransitionAccept, TransitionDelete:
		if actor.Role == models.RoleStylist && apt != nil && apt.StylistID == actor.ID {
			return nil
		}
		return ErrNotOwner

	case TransitionCancel:
		if apt == nil {
			return ErrNotOwner
		}
		if actor.Role == models.RoleStylist && apt.StylistID == actor.ID {
			return nil
		}
		if actor.Role == models.RoleCustomer && apt.CustomerID == actor.ID {
			return nil
		}
		if actor.Role == models.RoleCustomer {
			return ErrNotOccupant
		}
		return ErrNotOwner

	case TransitionComplete:
		if apt == nil {
			return ErrNotOwner
		}
		// Stylists may complete any time once booked; customers must wait
		// until the scheduled time has passed.
		if actor.Role == models.RoleStylist && apt.StylistID == actor.ID {
			return nil
		}
		if actor.Role == models.RoleCustomer && apt.CustomerID == actor.ID {
			if apt.Time.Before(now) {
				return nil
			}
			return ErrTooEarlyToComplete
		}
		if actor.Role == models.RoleCustomer {
			return ErrNotOccupant
		}
		return ErrNotOwner
	}

	return ErrNotOwner
}
