package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactAccepted ContactStatus = "accepted"
)

// Contact is one unordered user pair, stored canonically so that
// UserLow < UserHigh. ActionUserID records who performed the last state
// transition: the requester while pending, the accepter on response.
type Contact struct {
	UserLow      uuid.UUID     `json:"user_low" db:"user_low"`
	UserHigh     uuid.UUID     `json:"user_high" db:"user_high"`
	Status       ContactStatus `json:"status" db:"status"`
	ActionUserID uuid.UUID     `json:"action_user_id" db:"action_user_id"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

// ContactView is a contact row with the counterpart resolved for one side
// of the pair. Pending rows where ActionUserID != viewer are requests
// awaiting the viewer's response.
type ContactView struct {
	ContactID       uuid.UUID     `json:"contact_id" db:"contact_id"`
	ContactUsername string        `json:"contact_username" db:"contact_username"`
	Status          ContactStatus `json:"status" db:"status"`
	ActionUserID    uuid.UUID     `json:"action_user_id" db:"action_user_id"`
}

// CanonicalPair orders two user ids so (a,b) and (b,a) address the same
// stored row. Postgres compares uuid columns bytewise, so the CHECK
// constraint on the contacts table agrees with this ordering.
func CanonicalPair(a, b uuid.UUID) (low, high uuid.UUID) {
	if bytes.Compare(a[:], b[:]) < 0 {
		return a, b
	}
	return b, a
}
