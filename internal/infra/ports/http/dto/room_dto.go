package dto

import "github.com/google/uuid"

type CreateRoomRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type JoinRoomRequest struct {
	RoomID string `json:"room_id"`
}

type LeaveRoomRequest struct {
	RoomID string `json:"room_id"`
}

type PromoteRequest struct {
	RoomID       string    `json:"room_id"`
	TargetUserID uuid.UUID `json:"target_user_id"`
}

type RemoveMemberRequest struct {
	RoomID       string    `json:"room_id"`
	TargetUserID uuid.UUID `json:"target_user_id"`
}

type ApproveJoinRequest struct {
	RoomID       string    `json:"room_id"`
	TargetUserID uuid.UUID `json:"target_user_id"`
}

type DeleteMessageRequest struct {
	RoomID    string `json:"room_id"`
	MessageID int64  `json:"message_id"`
}
