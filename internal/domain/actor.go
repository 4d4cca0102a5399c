package domain

import "github.com/google/uuid"

type Role string

const (
	RoleTraveler Role = "traveler"
	RoleSender   Role = "sender"
	RoleAdmin    Role = "admin"
)

// Actor is the authenticated party attached to a request by the
// identity layer. The domain only ever checks its role and identity.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (r Role) Valid() bool {
	switch r {
	case RoleTraveler, RoleSender, RoleAdmin:
		return true
	}
	return false
}
