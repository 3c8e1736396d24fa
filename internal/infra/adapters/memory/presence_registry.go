package memory

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/deepsr2003/micro-telegram/internal/application/constant"
)

// Sender is the minimal surface the registry needs from a live connection.
// *websocket.Conn satisfies it.
type Sender interface {
	WriteJSON(v any) error
}

// PresenceRegistry maps an authenticated user to at most one live
// connection. Registering a second connection for the same user supersedes
// the first (last-connection-wins). Entries are never persisted.
type PresenceRegistry interface {
	Register(userID, connID uuid.UUID, sender Sender)

	// Lookup returns the connection id for a user, if present.
	Lookup(userID uuid.UUID) (uuid.UUID, bool)

	// Unregister removes the entry holding the given connection id,
	// whatever user it is keyed by, and reports whether an entry was
	// removed. A reconnect that already replaced the entry is left
	// untouched and reported as false, so the caller can tell a live
	// close from a stale one.
	Unregister(connID uuid.UUID) bool

	// Write sends a payload to the user's live connection. Delivery is
	// best-effort: an absent or failing connection is logged and dropped.
	Write(userID uuid.UUID, payload any) bool
}

type session struct {
	connID uuid.UUID
	sender Sender

	// mu serializes writes to a single connection
	mu sync.Mutex
}

type presenceRegistry struct {
	sessions map[uuid.UUID]*session

	mu sync.RWMutex
}

func NewPresenceRegistry() PresenceRegistry {
	return &presenceRegistry{
		sessions: make(map[uuid.UUID]*session, 16),
	}
}

func (p *presenceRegistry) Register(userID, connID uuid.UUID, sender Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sessions[userID] = &session{connID: connID, sender: sender}
}

func (p *presenceRegistry) Lookup(userID uuid.UUID) (uuid.UUID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	sess, ok := p.sessions[userID]
	if !ok {
		return uuid.Nil, false
	}
	return sess.connID, true
}

func (p *presenceRegistry) Unregister(connID uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for userID, sess := range p.sessions {
		if sess.connID == connID {
			delete(p.sessions, userID)
			return true
		}
	}

	return false
}

func (p *presenceRegistry) Write(userID uuid.UUID, payload any) bool {
	p.mu.RLock()
	sess, ok := p.sessions[userID]
	p.mu.RUnlock()

	if !ok {
		return false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.sender.WriteJSON(payload); err != nil {
		slog.Error("write to websocket",
			slog.Any(constant.UserID, userID),
			slog.Any(constant.Error, err),
		)
		return false
	}

	return true
}
