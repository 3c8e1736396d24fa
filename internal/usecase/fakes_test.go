package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deepsr2003/micro-telegram/internal/domain/apperr"
	"github.com/deepsr2003/micro-telegram/internal/domain/events"
	"github.com/deepsr2003/micro-telegram/internal/domain/models"
)

// fakeSender captures everything written to one connection.
type fakeSender struct {
	mu   sync.Mutex
	msgs []events.Message
}

func (f *fakeSender) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.msgs = append(f.msgs, v.(events.Message))
	return nil
}

func (f *fakeSender) byType(eventType string) []events.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []events.Message
	for _, m := range f.msgs {
		if m.Type == eventType {
			out = append(out, m)
		}
	}
	return out
}

func decodeData[T any](msg events.Message) (T, error) {
	var v T
	err := json.Unmarshal(msg.Data, &v)
	return v, err
}

// fakeTx runs the function directly; the in-memory fakes below have no
// transactional state to roll back.
type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[uuid.UUID]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return models.User{}, apperr.New(apperr.NotFound, "user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, apperr.New(apperr.NotFound, "user not found")
}

type fakeRoomRepo struct {
	rooms map[string]models.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[string]models.Room)}
}

func (r *fakeRoomRepo) CreateRoom(_ context.Context, room *models.Room) error {
	r.rooms[room.ID] = *room
	return nil
}

func (r *fakeRoomRepo) GetRoomByID(_ context.Context, id string) (models.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return models.Room{}, apperr.New(apperr.NotFound, "room not found")
	}
	return room, nil
}

func (r *fakeRoomRepo) DeleteRoom(_ context.Context, id string) error {
	delete(r.rooms, id)
	return nil
}

func (r *fakeRoomRepo) ListRoomsByUserID(_ context.Context, _ uuid.UUID) ([]models.Room, error) {
	out := make([]models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out, nil
}

type fakeMembershipRepo struct {
	// roles[roomID][userID]
	roles map[string]map[uuid.UUID]models.Role
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{roles: make(map[string]map[uuid.UUID]models.Role)}
}

func (r *fakeMembershipRepo) AddMember(_ context.Context, roomID string, userID uuid.UUID, role models.Role) error {
	if _, ok := r.roles[roomID]; !ok {
		r.roles[roomID] = make(map[uuid.UUID]models.Role)
	}
	r.roles[roomID][userID] = role
	return nil
}

func (r *fakeMembershipRepo) GetRole(_ context.Context, roomID string, userID uuid.UUID) (models.Role, error) {
	role, ok := r.roles[roomID][userID]
	if !ok {
		return "", apperr.New(apperr.NotFound, "membership not found")
	}
	return role, nil
}

func (r *fakeMembershipRepo) SetRole(_ context.Context, roomID string, userID uuid.UUID, role models.Role) error {
	r.roles[roomID][userID] = role
	return nil
}

func (r *fakeMembershipRepo) DeleteMember(_ context.Context, roomID string, userID uuid.UUID) error {
	delete(r.roles[roomID], userID)
	return nil
}

func (r *fakeMembershipRepo) CountAdmins(_ context.Context, roomID string) (int, error) {
	count := 0
	for _, role := range r.roles[roomID] {
		if role == models.RoleAdmin {
			count++
		}
	}
	return count, nil
}

func (r *fakeMembershipRepo) CountPrivileged(_ context.Context, roomID string) (int, error) {
	count := 0
	for _, role := range r.roles[roomID] {
		if role.Privileged() {
			count++
		}
	}
	return count, nil
}

func (r *fakeMembershipRepo) ListMembers(_ context.Context, roomID string) ([]models.Member, error) {
	out := make([]models.Member, 0, len(r.roles[roomID]))
	for userID, role := range r.roles[roomID] {
		out = append(out, models.Member{ID: userID, Role: role})
	}
	return out, nil
}

func (r *fakeMembershipRepo) ListPrivilegedUserIDs(_ context.Context, roomID string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0)
	for userID, role := range r.roles[roomID] {
		if role.Privileged() {
			out = append(out, userID)
		}
	}
	return out, nil
}

type pairKey struct {
	low, high uuid.UUID
}

type fakeContactRepo struct {
	contacts map[pairKey]models.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[pairKey]models.Contact)}
}

func (r *fakeContactRepo) GetContact(_ context.Context, low, high uuid.UUID) (models.Contact, error) {
	c, ok := r.contacts[pairKey{low, high}]
	if !ok {
		return models.Contact{}, apperr.New(apperr.NotFound, "contact not found")
	}
	return c, nil
}

func (r *fakeContactRepo) CreateContact(_ context.Context, contact *models.Contact) error {
	r.contacts[pairKey{contact.UserLow, contact.UserHigh}] = *contact
	return nil
}

func (r *fakeContactRepo) AcceptContact(_ context.Context, low, high, actionUserID uuid.UUID) error {
	key := pairKey{low, high}
	c, ok := r.contacts[key]
	if !ok || c.Status != models.ContactPending {
		return nil
	}
	c.Status = models.ContactAccepted
	c.ActionUserID = actionUserID
	r.contacts[key] = c
	return nil
}

func (r *fakeContactRepo) DeleteContact(_ context.Context, low, high uuid.UUID) error {
	delete(r.contacts, pairKey{low, high})
	return nil
}

func (r *fakeContactRepo) ListContactsByUser(_ context.Context, userID uuid.UUID) ([]models.ContactView, error) {
	out := make([]models.ContactView, 0)
	for key, c := range r.contacts {
		switch userID {
		case key.low:
			out = append(out, models.ContactView{ContactID: key.high, Status: c.Status, ActionUserID: c.ActionUserID})
		case key.high:
			out = append(out, models.ContactView{ContactID: key.low, Status: c.Status, ActionUserID: c.ActionUserID})
		}
	}
	return out, nil
}

type fakeMessageRepo struct {
	nextID       int64
	roomMessages []models.RoomMessage
	dms          []models.DirectMessage
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) InsertRoomMessage(_ context.Context, msg *models.RoomMessage) error {
	r.nextID++
	msg.ID = r.nextID
	msg.CreatedAt = time.Now()
	r.roomMessages = append(r.roomMessages, *msg)
	return nil
}

func (r *fakeMessageRepo) ListRoomMessages(_ context.Context, roomID string) ([]models.RoomMessage, error) {
	out := make([]models.RoomMessage, 0)
	for _, m := range r.roomMessages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) SoftDeleteRoomMessage(_ context.Context, roomID string, messageID int64, notice string) error {
	for i, m := range r.roomMessages {
		if m.ID != messageID || m.RoomID != roomID {
			continue
		}
		if m.IsDeleted {
			return apperr.New(apperr.InvalidOperation, "message already deleted")
		}
		r.roomMessages[i].IsDeleted = true
		r.roomMessages[i].Content = notice
		return nil
	}
	return apperr.New(apperr.NotFound, "message not found")
}

func (r *fakeMessageRepo) InsertDirectMessage(_ context.Context, msg *models.DirectMessage) error {
	r.nextID++
	msg.ID = r.nextID
	msg.CreatedAt = time.Now()
	r.dms = append(r.dms, *msg)
	return nil
}

func (r *fakeMessageRepo) ListDirectMessages(_ context.Context, userID, contactID uuid.UUID) ([]models.DirectMessage, error) {
	out := make([]models.DirectMessage, 0)
	for _, m := range r.dms {
		if (m.SenderID == userID && m.ReceiverID == contactID) ||
			(m.SenderID == contactID && m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}
