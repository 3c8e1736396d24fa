package memory

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu      sync.Mutex
	written []any
	err     error
}

func (s *recordingSender) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.written = append(s.written, v)
	return nil
}

func TestPresenceRegistry_LastConnectionWins(t *testing.T) {
	req := require.New(t)
	reg := NewPresenceRegistry()

	userID := uuid.New()
	first := &recordingSender{}
	second := &recordingSender{}

	firstConn := uuid.New()
	secondConn := uuid.New()

	reg.Register(userID, firstConn, first)
	reg.Register(userID, secondConn, second)

	connID, ok := reg.Lookup(userID)
	req.True(ok)
	req.Equal(secondConn, connID)

	req.True(reg.Write(userID, "ping"))
	req.Empty(first.written)
	req.Len(second.written, 1)
}

// A disconnect arriving after the user already reconnected must not tear
// down the newer session.
func TestPresenceRegistry_UnregisterStaleConn(t *testing.T) {
	req := require.New(t)
	reg := NewPresenceRegistry()

	userID := uuid.New()
	staleConn := uuid.New()
	liveConn := uuid.New()

	reg.Register(userID, staleConn, &recordingSender{})
	reg.Register(userID, liveConn, &recordingSender{})

	req.False(reg.Unregister(staleConn))

	connID, ok := reg.Lookup(userID)
	req.True(ok)
	req.Equal(liveConn, connID)

	req.True(reg.Unregister(liveConn))

	_, ok = reg.Lookup(userID)
	req.False(ok)
}

func TestPresenceRegistry_WriteAbsent(t *testing.T) {
	reg := NewPresenceRegistry()

	require.False(t, reg.Write(uuid.New(), "ping"))
}

func TestPresenceRegistry_WriteFailure(t *testing.T) {
	req := require.New(t)
	reg := NewPresenceRegistry()

	userID := uuid.New()
	reg.Register(userID, uuid.New(), &recordingSender{err: errors.New("broken pipe")})

	req.False(reg.Write(userID, "ping"))

	// The failing session stays registered; cleanup happens on Unregister.
	_, ok := reg.Lookup(userID)
	req.True(ok)
}
