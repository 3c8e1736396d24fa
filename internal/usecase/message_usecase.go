package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/deepsr2003/micro-telegram/internal/application/constant"
	"github.com/deepsr2003/micro-telegram/internal/domain/events"
	"github.com/deepsr2003/micro-telegram/internal/domain/models"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/memory"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/postgres/repository"
)

// MessageUsecase is the message router: it persists messages, fans the
// stored records out to the right live connections and propagates
// moderation.
//
// Room fan-out targets the room's ephemeral broadcast channel, which is
// deliberately independent of persisted membership: posting does not verify
// a membership row, matching the original protocol.
type MessageUsecase interface {
	PostRoomMessage(ctx context.Context, roomID string, sender models.User, content, clientRef string) (*models.RoomMessage, error)
	PostDirectMessage(ctx context.Context, sender models.User, receiverID uuid.UUID, content, clientRef string) (*models.DirectMessage, error)

	// SoftDeleteRoomMessage replaces the message body with the moderation
	// notice and broadcasts the deletion to the room's channel. The
	// message must belong to roomID, so an admin's moderation reach ends
	// at the room their role was resolved for.
	SoftDeleteRoomMessage(ctx context.Context, messageID int64, roomID, adminUsername string) error

	// BroadcastRoomDataRefresh tells every connection on the room's
	// channel to re-fetch members and metadata.
	BroadcastRoomDataRefresh(roomID string)

	// NotifyContactUpdate pokes the target's connection to refresh its
	// contact list, if the target is present.
	NotifyContactUpdate(targetUserID uuid.UUID)

	ListRoomMessages(ctx context.Context, roomID string) ([]models.RoomMessage, error)
}

type messageUsecase struct {
	messageRepo repository.MessageRepository

	presence memory.PresenceRegistry
	channels memory.RoomChannelRepository
}

func NewMessageUsecase(
	messageRepo repository.MessageRepository,
	presence memory.PresenceRegistry,
	channels memory.RoomChannelRepository,
) MessageUsecase {
	return &messageUsecase{
		messageRepo: messageRepo,
		presence:    presence,
		channels:    channels,
	}
}

func (uc *messageUsecase) PostRoomMessage(ctx context.Context, roomID string, sender models.User, content, clientRef string) (*models.RoomMessage, error) {
	msg := &models.RoomMessage{
		RoomID:         roomID,
		SenderID:       sender.ID,
		SenderUsername: sender.Username,
		Content:        content,
	}

	if err := uc.messageRepo.InsertRoomMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("insert room message: %w", err)
	}

	out, err := events.Outbound(events.TypeReceiveRoomMessage, events.RoomMessagePayload{
		RoomMessage: *msg,
		ClientRef:   clientRef,
	})
	if err != nil {
		return nil, err
	}

	uc.broadcast(roomID, out)

	return msg, nil
}

func (uc *messageUsecase) PostDirectMessage(ctx context.Context, sender models.User, receiverID uuid.UUID, content, clientRef string) (*models.DirectMessage, error) {
	msg := &models.DirectMessage{
		SenderID:       sender.ID,
		SenderUsername: sender.Username,
		ReceiverID:     receiverID,
		Content:        content,
	}

	if err := uc.messageRepo.InsertDirectMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("insert direct message: %w", err)
	}

	out, err := events.Outbound(events.TypeReceiveDM, events.DMPayload{
		DirectMessage: *msg,
		ClientRef:     clientRef,
	})
	if err != nil {
		return nil, err
	}

	// Receiver first, if they are online.
	uc.presence.Write(receiverID, out)

	// Always echo the authoritative record back to the sender so their
	// optimistic local copy is reconciled to the server-assigned id.
	if !uc.presence.Write(sender.ID, out) {
		slog.Warn("dm echo dropped, sender offline", slog.Any(constant.UserID, sender.ID))
	}

	return msg, nil
}

func (uc *messageUsecase) SoftDeleteRoomMessage(ctx context.Context, messageID int64, roomID, adminUsername string) error {
	err := uc.messageRepo.SoftDeleteRoomMessage(ctx, roomID, messageID, models.ModerationNotice(adminUsername))
	if err != nil {
		return err
	}

	out, err := events.Outbound(events.TypeMessageDeleted, events.MessageDeletedEvent{
		MessageID:     messageID,
		AdminUsername: adminUsername,
	})
	if err != nil {
		return err
	}

	uc.broadcast(roomID, out)

	return nil
}

func (uc *messageUsecase) BroadcastRoomDataRefresh(roomID string) {
	uc.broadcast(roomID, events.Message{Type: events.TypeRefreshRoomData})
}

func (uc *messageUsecase) NotifyContactUpdate(targetUserID uuid.UUID) {
	uc.presence.Write(targetUserID, events.Message{Type: events.TypeRefreshContacts})
}

func (uc *messageUsecase) ListRoomMessages(ctx context.Context, roomID string) ([]models.RoomMessage, error) {
	return uc.messageRepo.ListRoomMessages(ctx, roomID)
}

func (uc *messageUsecase) broadcast(roomID string, msg events.Message) {
	for _, userID := range uc.channels.Members(roomID) {
		uc.presence.Write(userID, msg)
	}
}
