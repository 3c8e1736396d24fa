package models

import (
	"time"

	"github.com/google/uuid"
)

// Room id is a user-chosen unique token, not a generated uuid.
type Room struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatorID uuid.UUID `json:"creator_id" db:"creator_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Role string

const (
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
	RoleMember  Role = "member"
)

// Privileged reports whether the role may moderate the room. A room must
// always retain at least one privileged member.
func (r Role) Privileged() bool {
	return r == RoleCreator || r == RoleAdmin
}

// MaxAdmins is the ceiling on role=admin memberships per room, the creator
// not counted.
const MaxAdmins = 2

type Membership struct {
	RoomID   string    `json:"room_id" db:"room_id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Role     Role      `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

// Member is a membership row joined with the user's identity, as listed to
// room participants.
type Member struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Username string    `json:"username" db:"username"`
	Role     Role      `json:"role" db:"role"`
}
