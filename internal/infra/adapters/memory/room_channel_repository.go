package memory

import (
	"sync"

	"github.com/google/uuid"
)

// RoomChannelRepository tracks which connected users subscribed to a room's
// broadcast channel. Subscriptions are ephemeral: they are not checked
// against persisted membership and do not survive a reconnect.
type RoomChannelRepository interface {
	Join(roomID string, userID uuid.UUID)
	Leave(roomID string, userID uuid.UUID)

	// LeaveAll drops every subscription held by the user, used on
	// disconnect.
	LeaveAll(userID uuid.UUID)

	Members(roomID string) []uuid.UUID
}

type roomChannelRepository struct {
	channels map[string]map[uuid.UUID]struct{}
	mu       sync.RWMutex
}

func NewRoomChannelRepository() RoomChannelRepository {
	return &roomChannelRepository{
		channels: make(map[string]map[uuid.UUID]struct{}),
	}
}

func (r *roomChannelRepository) Join(roomID string, userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[roomID]; !ok {
		r.channels[roomID] = make(map[uuid.UUID]struct{})
	}

	r.channels[roomID][userID] = struct{}{}
}

func (r *roomChannelRepository) Leave(roomID string, userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members, ok := r.channels[roomID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(r.channels, roomID)
		}
	}
}

func (r *roomChannelRepository) LeaveAll(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID, members := range r.channels {
		delete(members, userID)
		if len(members) == 0 {
			delete(r.channels, roomID)
		}
	}
}

func (r *roomChannelRepository) Members(roomID string) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.channels[roomID]
	if !ok {
		return nil
	}

	out := make([]uuid.UUID, 0, len(members))
	for userID := range members {
		out = append(out, userID)
	}

	return out
}
