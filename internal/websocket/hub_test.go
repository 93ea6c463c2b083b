package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	userID   uuid.UUID
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string, userID uuid.UUID) *mockClient {
	return &mockClient{
		id:       id,
		userID:   userID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) UserID() uuid.UUID {
	return m.userID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	client := newMockClient("client-1", userID)
	hub.Register(client)
	assert.Equal(t, 1, hub.ClientCount(userID))

	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount(userID))
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_MultipleClientsPerUser(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	hub.Register(newMockClient("client-1", userID))
	hub.Register(newMockClient("client-2", userID))

	assert.Equal(t, 2, hub.ClientCount(userID))
	assert.Equal(t, 2, hub.TotalClientCount())
}

func TestHub_BroadcastScopedToUser(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	otherID := uuid.New()

	mine := newMockClient("client-1", userID)
	theirs := newMockClient("client-2", otherID)
	hub.Register(mine)
	hub.Register(theirs)

	hub.Broadcast(userID, NewEvent(EventTypeCreated, EntityTypeTransaction, map[string]string{"id": "t1"}))

	// Sends are async
	require.Eventually(t, func() bool {
		return len(mine.GetMessages()) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Empty(t, theirs.GetMessages(), "other user's client must not receive the event")
}

func TestHub_BroadcastToAllUserClients(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	first := newMockClient("client-1", userID)
	second := newMockClient("client-2", userID)
	hub.Register(first)
	hub.Register(second)

	hub.Broadcast(userID, NewEvent(EventTypeUpdated, EntityTypeCategory, map[string]string{"id": "c1"}))

	require.Eventually(t, func() bool {
		return len(first.GetMessages()) == 1 && len(second.GetMessages()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastNoClients(t *testing.T) {
	hub := NewHub()

	// Must not panic or block
	hub.Broadcast(uuid.New(), NewEvent(EventTypeDeleted, EntityTypeCategory, map[string]string{"id": "c1"}))
}

func TestHub_UnregisterUnknownClient(t *testing.T) {
	hub := NewHub()
	hub.Unregister(newMockClient("ghost", uuid.New()))
	assert.Equal(t, 0, hub.TotalClientCount())
}
