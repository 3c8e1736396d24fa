package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/deepsr2003/micro-telegram/internal/domain/apperr"
	"github.com/deepsr2003/micro-telegram/internal/domain/events"
	"github.com/deepsr2003/micro-telegram/internal/domain/models"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/memory"
)

type messageFixture struct {
	messages *fakeMessageRepo
	presence memory.PresenceRegistry
	channels memory.RoomChannelRepository
	uc       MessageUsecase
}

func newMessageFixture() *messageFixture {
	messages := newFakeMessageRepo()
	presence := memory.NewPresenceRegistry()
	channels := memory.NewRoomChannelRepository()

	return &messageFixture{
		messages: messages,
		presence: presence,
		channels: channels,
		uc:       NewMessageUsecase(messages, presence, channels),
	}
}

func (f *messageFixture) connect(userID uuid.UUID) *fakeSender {
	conn := &fakeSender{}
	f.presence.Register(userID, uuid.New(), conn)
	return conn
}

func TestMessageUsecase_PostRoomMessage_Broadcast(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture()

	alice := models.User{ID: uuid.New(), Username: "alice"}
	bob := models.User{ID: uuid.New(), Username: "bob"}
	carol := models.User{ID: uuid.New(), Username: "carol"}

	aliceConn := f.connect(alice.ID)
	bobConn := f.connect(bob.ID)
	carolConn := f.connect(carol.ID)

	// Carol is connected but never joined the room's channel.
	f.channels.Join("dev", alice.ID)
	f.channels.Join("dev", bob.ID)

	msg, err := f.uc.PostRoomMessage(context.Background(), "dev", alice, "hello", "ref-1")
	req.NoError(err)
	req.NotZero(msg.ID)

	for _, conn := range []*fakeSender{aliceConn, bobConn} {
		received := conn.byType(events.TypeReceiveRoomMessage)
		req.Len(received, 1)

		payload, err := decodeData[events.RoomMessagePayload](received[0])
		req.NoError(err)
		req.Equal(msg.ID, payload.ID)
		req.Equal("hello", payload.Content)
		req.Equal("alice", payload.SenderUsername)
		req.Equal("ref-1", payload.ClientRef)
	}

	req.Empty(carolConn.byType(events.TypeReceiveRoomMessage))
}

// A DM reaches the receiver exactly once and is echoed to the sender
// exactly once, carrying the server-assigned id and the sender's
// correlation ref.
func TestMessageUsecase_PostDirectMessage_Echo(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture()

	alice := models.User{ID: uuid.New(), Username: "alice"}
	bobID := uuid.New()

	aliceConn := f.connect(alice.ID)
	bobConn := f.connect(bobID)

	msg, err := f.uc.PostDirectMessage(context.Background(), alice, bobID, "hi bob", "tmp-42")
	req.NoError(err)
	req.NotZero(msg.ID)

	bobMsgs := bobConn.byType(events.TypeReceiveDM)
	req.Len(bobMsgs, 1)

	aliceMsgs := aliceConn.byType(events.TypeReceiveDM)
	req.Len(aliceMsgs, 1)

	echo, err := decodeData[events.DMPayload](aliceMsgs[0])
	req.NoError(err)
	req.Equal(msg.ID, echo.ID)
	req.Equal("tmp-42", echo.ClientRef)
}

func TestMessageUsecase_PostDirectMessage_ReceiverOffline(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture()

	alice := models.User{ID: uuid.New(), Username: "alice"}
	bobID := uuid.New()

	aliceConn := f.connect(alice.ID)

	// Bob is offline: the message is still persisted and the sender
	// still gets the echo.
	msg, err := f.uc.PostDirectMessage(context.Background(), alice, bobID, "hi", "")
	req.NoError(err)

	stored, err := f.messages.ListDirectMessages(context.Background(), alice.ID, bobID)
	req.NoError(err)
	req.Len(stored, 1)
	req.Equal(msg.ID, stored[0].ID)

	req.Len(aliceConn.byType(events.TypeReceiveDM), 1)
}

func TestMessageUsecase_SoftDelete(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture()

	alice := models.User{ID: uuid.New(), Username: "alice"}
	aliceConn := f.connect(alice.ID)
	f.channels.Join("dev", alice.ID)

	msg, err := f.uc.PostRoomMessage(context.Background(), "dev", alice, "offensive", "")
	req.NoError(err)

	err = f.uc.SoftDeleteRoomMessage(context.Background(), msg.ID, "dev", "alice")
	req.NoError(err)

	stored, err := f.messages.ListRoomMessages(context.Background(), "dev")
	req.NoError(err)
	req.Len(stored, 1)
	req.True(stored[0].IsDeleted)
	req.Equal("Message deleted by admin @alice", stored[0].Content)

	deletions := aliceConn.byType(events.TypeMessageDeleted)
	req.Len(deletions, 1)

	ev, err := decodeData[events.MessageDeletedEvent](deletions[0])
	req.NoError(err)
	req.Equal(msg.ID, ev.MessageID)
	req.Equal("alice", ev.AdminUsername)

	// Deleting again fails and leaves the notice untouched.
	err = f.uc.SoftDeleteRoomMessage(context.Background(), msg.ID, "dev", "bob")
	req.True(apperr.IsKind(err, apperr.InvalidOperation))

	stored, err = f.messages.ListRoomMessages(context.Background(), "dev")
	req.NoError(err)
	req.Equal("Message deleted by admin @alice", stored[0].Content)
}

func TestMessageUsecase_SoftDelete_NotFound(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture()

	err := f.uc.SoftDeleteRoomMessage(context.Background(), 999, "dev", "alice")
	req.True(apperr.IsKind(err, apperr.NotFound))
}

// An admin's delete is scoped to the room their role was resolved for: a
// message id from another room is indistinguishable from a missing one.
func TestMessageUsecase_SoftDelete_WrongRoom(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture()

	alice := models.User{ID: uuid.New(), Username: "alice"}
	victimConn := f.connect(alice.ID)
	f.channels.Join("ops", alice.ID)

	msg, err := f.uc.PostRoomMessage(context.Background(), "ops", alice, "stays", "")
	req.NoError(err)

	err = f.uc.SoftDeleteRoomMessage(context.Background(), msg.ID, "dev", "mallory")
	req.True(apperr.IsKind(err, apperr.NotFound))

	stored, err := f.messages.ListRoomMessages(context.Background(), "ops")
	req.NoError(err)
	req.False(stored[0].IsDeleted)
	req.Equal("stays", stored[0].Content)

	req.Empty(victimConn.byType(events.TypeMessageDeleted))
}

func TestMessageUsecase_BroadcastRoomDataRefresh(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture()

	userID := uuid.New()
	conn := f.connect(userID)
	f.channels.Join("dev", userID)

	f.uc.BroadcastRoomDataRefresh("dev")

	req.Len(conn.byType(events.TypeRefreshRoomData), 1)
}

func TestMessageUsecase_NotifyContactUpdate(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture()

	userID := uuid.New()
	conn := f.connect(userID)

	f.uc.NotifyContactUpdate(userID)
	f.uc.NotifyContactUpdate(uuid.New()) // offline target, dropped

	req.Len(conn.byType(events.TypeRefreshContacts), 1)
}
