// Package events defines the tagged payloads exchanged over the WebSocket
// channel. Every frame is a Message envelope; Data holds the variant named
// by Type and is validated at the channel boundary before it reaches an
// engine.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/deepsr2003/micro-telegram/internal/domain/models"
)

// Message - общее событие
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound event tags.
const (
	TypeJoinRoom               = "join_room"
	TypeSendRoomMessage        = "send_room_message"
	TypeSendDM                 = "send_dm"
	TypeDeleteRoomMessage      = "delete_room_message"
	TypeContactUpdate          = "contact_update"
	TypeRequestToJoinRoom      = "request_to_join_room"
	TypeRequestRoomDataRefresh = "request_room_data_refresh"
	TypePing                   = "ping"
)

// Outbound event tags.
const (
	TypeReceiveRoomMessage = "receive_room_message"
	TypeReceiveDM          = "receive_dm"
	TypeMessageDeleted     = "message_deleted"
	TypeRefreshContacts    = "refresh_contacts"
	TypeRefreshRoomData    = "refresh_room_data"
	TypeAdminNotification  = "admin_notification"
	TypePong               = "pong"
)

// Outbound wraps a payload into a Message envelope.
func Outbound(eventType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Message{Type: eventType, Data: data}, nil
}

// JoinRoomEvent subscribes the connection to a room's broadcast channel.
// The subscription is ephemeral and independent of persisted membership.
type JoinRoomEvent struct {
	RoomID string `json:"room_id"`
}

// SendRoomMessageEvent carries a room message. SenderID is part of the wire
// schema for compatibility, but the adapter always uses the authenticated
// connection identity instead.
type SendRoomMessageEvent struct {
	RoomID    string    `json:"room_id"`
	Content   string    `json:"content"`
	SenderID  uuid.UUID `json:"sender_id"`
	ClientRef string    `json:"client_ref"`
}

type SendDMEvent struct {
	Content    string    `json:"content"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	ClientRef  string    `json:"client_ref"`
}

type DeleteRoomMessageEvent struct {
	MessageID     int64  `json:"message_id"`
	RoomID        string `json:"room_id"`
	AdminUsername string `json:"admin_username"`
}

type ContactUpdateEvent struct {
	TargetUserID uuid.UUID `json:"target_user_id"`
}

type RequestToJoinRoomEvent struct {
	RoomID            string    `json:"room_id"`
	RequestorID       uuid.UUID `json:"requestor_id"`
	RequestorUsername string    `json:"requestor_username"`
}

type RoomDataRefreshEvent struct {
	RoomID string `json:"room_id"`
}

// RoomMessagePayload is the authoritative stored record broadcast to a
// room's channel. ClientRef echoes the sender's correlation id so the
// sender replaces its optimistic local copy instead of duplicating it.
type RoomMessagePayload struct {
	models.RoomMessage
	ClientRef string `json:"client_ref,omitempty"`
}

type DMPayload struct {
	models.DirectMessage
	ClientRef string `json:"client_ref,omitempty"`
}

type MessageDeletedEvent struct {
	MessageID     int64  `json:"message_id"`
	AdminUsername string `json:"admin_username"`
}

// AdminNotificationEvent is the transient join request fanned out to
// currently-present privileged members. It has no stored lifecycle: if no
// admin is present the request is silently lost.
type AdminNotificationEvent struct {
	RoomID            string    `json:"room_id"`
	RequestorID       uuid.UUID `json:"requestor_id"`
	RequestorUsername string    `json:"requestor_username"`
	Type              string    `json:"type"`
}

const NotificationJoinRequest = "join_request"
