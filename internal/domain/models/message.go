package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RoomMessage struct {
	ID             int64     `json:"id" db:"id"`
	RoomID         string    `json:"room_id" db:"room_id"`
	SenderID       uuid.UUID `json:"sender_id" db:"sender_id"`
	SenderUsername string    `json:"sender_username" db:"sender_username"`
	Content        string    `json:"content" db:"content"`
	IsDeleted      bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type DirectMessage struct {
	ID             int64     `json:"id" db:"id"`
	SenderID       uuid.UUID `json:"sender_id" db:"sender_id"`
	SenderUsername string    `json:"sender_username" db:"sender_username"`
	ReceiverID     uuid.UUID `json:"receiver_id" db:"receiver_id"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ModerationNotice is the fixed replacement body written over a soft-deleted
// room message. The row itself is never physically deleted.
func ModerationNotice(adminUsername string) string {
	return fmt.Sprintf("Message deleted by admin @%s", adminUsername)
}
