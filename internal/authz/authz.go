// Package authz decides what a caller may do with a resource. Handlers resolve
// the capability once, up front, instead of branching on roles inline.
package authz

import (
	"github.com/google/uuid"

	"slotskolan.se/forum/internal/entity"
)

type Capability int

const (
	None Capability = iota
	Owner
	Staff
)

func (c Capability) String() string {
	switch c {
	case Owner:
		return "owner"
	case Staff:
		return "staff"
	default:
		return "none"
	}
}

// CanModify is true for owners and staff.
func (c Capability) CanModify() bool {
	return c != None
}

func (c Capability) IsStaff() bool {
	return c == Staff
}

// Resolve returns Staff for moderators and admins, Owner when the caller owns the
// resource, None otherwise. A nil caller is anonymous and always gets None.
func Resolve(caller *entity.User, ownerID uuid.UUID) Capability {
	if caller == nil {
		return None
	}
	if caller.Role.IsStaff() {
		return Staff
	}
	if caller.ID == ownerID {
		return Owner
	}
	return None
}

func IsStaff(caller *entity.User) bool {
	return caller != nil && caller.Role.IsStaff()
}
