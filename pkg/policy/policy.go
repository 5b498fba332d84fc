// Package policy is the capability check for every core operation. It is a
// pure function from (actor, operation, target) to allow/deny so it can be
// tested without any transport or storage in place.
package policy

import (
	apperrors "hostelhub/pkg/errors"
	"hostelhub/pkg/model"
)

type Operation string

const (
	ListingRead   Operation = "listing.read"
	ListingCreate Operation = "listing.create"
	ListingUpdate Operation = "listing.update"
	ListingDelete Operation = "listing.delete"
	ListingReview Operation = "listing.review"

	BookingCreate       Operation = "booking.create"
	BookingRead         Operation = "booking.read"
	BookingList         Operation = "booking.list"
	BookingCancel       Operation = "booking.cancel"
	BookingChangeStatus Operation = "booking.change_status"

	UserRegister Operation = "user.register"
	UserManage   Operation = "user.manage"
)

// Target carries the ownership relation the check needs. OwnerID is the user
// that owns the listing or booking being operated on; empty when the
// operation has no single target.
type Target struct {
	OwnerID string
}

// Authorize returns nil when the actor may perform op on target. Denials are
// uniform: unauthenticated actors get UNAUTHORIZED, everyone else FORBIDDEN,
// with no partial-capability signaling.
func Authorize(actor model.Actor, op Operation, target Target) error {
	switch op {
	case ListingRead, UserRegister:
		return nil

	case ListingCreate, UserManage:
		return requireAdmin(actor)

	case ListingUpdate, ListingDelete:
		return requireAdminOrOwner(actor, target)

	case ListingReview, BookingCreate, BookingList:
		return requireAuthenticated(actor)

	case BookingRead, BookingCancel:
		return requireAdminOrOwner(actor, target)

	case BookingChangeStatus:
		return requireAdmin(actor)
	}

	return apperrors.Forbidden("Operation not permitted")
}

func requireAuthenticated(actor model.Actor) error {
	if actor.IsAnonymous() {
		return apperrors.Unauthorized("Authentication required")
	}
	return nil
}

func requireAdmin(actor model.Actor) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperrors.Forbidden("Administrator privileges required")
	}
	return nil
}

func requireAdminOrOwner(actor model.Actor, target Target) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if actor.IsAdmin() {
		return nil
	}
	if target.OwnerID != "" && target.OwnerID == actor.ID {
		return nil
	}
	return apperrors.Forbidden("Not authorized for this resource")
}
