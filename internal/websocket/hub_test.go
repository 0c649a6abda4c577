package websocket

import (
	"testing"

	"krackenx-chat-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

func newTestHub() *Hub {
	return NewHub(nopLogger{})
}

func newTestClient(hub *Hub) *Client {
	client := NewClient(hub, nil)
	hub.Track(client)
	return client
}

func drain(c *Client) [][]byte {
	var frames [][]byte
	for {
		select {
		case frame := <-c.Send:
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}

func TestHubSnapshotIgnoresUnauthenticated(t *testing.T) {
	hub := newTestHub()
	newTestClient(hub)

	assert.Empty(t, hub.Snapshot())
}

func TestHubSnapshotDeduplicatesUsers(t *testing.T) {
	hub := newTestHub()

	first := newTestClient(hub)
	second := newTestClient(hub)
	other := newTestClient(hub)

	hub.Register(first, 1, "alice")
	hub.Register(second, 1, "alice") // same user, new tab
	hub.Register(other, 2, "bob")

	snapshot := hub.Snapshot()
	assert.Len(t, snapshot, 2)

	names := map[string]bool{}
	for _, u := range snapshot {
		names[u.Username] = true
	}
	assert.True(t, names["alice"])
	assert.True(t, names["bob"])
}

func TestHubLastWriteWinsPerUser(t *testing.T) {
	hub := newTestHub()

	first := newTestClient(hub)
	second := newTestClient(hub)

	hub.Register(first, 1, "alice")
	hub.Register(second, 1, "alice")

	assert.Equal(t, second, hub.LookupByUserID(1))

	// The stale connection dropping must not clear the newer binding.
	wasAuth := hub.Unregister(first)
	assert.True(t, wasAuth)
	assert.Equal(t, second, hub.LookupByUserID(1))

	hub.Unregister(second)
	assert.Nil(t, hub.LookupByUserID(1))
}

func TestHubUnregisterReportsAuthentication(t *testing.T) {
	hub := newTestHub()

	anonymous := newTestClient(hub)
	assert.False(t, hub.Unregister(anonymous))

	authed := newTestClient(hub)
	hub.Register(authed, 5, "eve")
	assert.True(t, hub.Unregister(authed))

	// A second unregister of the same connection is a no-op.
	assert.False(t, hub.Unregister(authed))
}

func TestHubBroadcastToRoomOnlyReachesMembers(t *testing.T) {
	hub := newTestHub()

	member := newTestClient(hub)
	outsider := newTestClient(hub)
	hub.Register(member, 1, "alice")
	hub.Register(outsider, 2, "bob")

	hub.JoinRoom(member, "7")
	hub.BroadcastToRoom("7", []byte("hello"))

	assert.Len(t, drain(member), 1)
	assert.Empty(t, drain(outsider))
}

func TestHubBroadcastReachesEveryone(t *testing.T) {
	hub := newTestHub()

	a := newTestClient(hub)
	b := newTestClient(hub)
	hub.Register(a, 1, "alice")

	hub.Broadcast([]byte("all"))

	// Unauthenticated connections receive global broadcasts too.
	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
}

func TestHubSendAfterUnregisterDoesNotPanic(t *testing.T) {
	hub := newTestHub()

	client := newTestClient(hub)
	hub.Register(client, 1, "alice")
	hub.Unregister(client)

	assert.NotPanics(t, func() {
		hub.Send(client, []byte("late"))
	})
}

func TestHubLookupByUsername(t *testing.T) {
	hub := newTestHub()

	client := newTestClient(hub)
	hub.Register(client, 3, "carol")

	assert.Equal(t, client, hub.LookupByUsername("carol"))
	assert.Nil(t, hub.LookupByUsername("nobody"))
}
