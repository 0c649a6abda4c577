package websocket

import (
	"sync"

	"krackenx-chat-be/internal/pkg/logger"
)

// OnlineUser is one entry of the presence broadcast.
type OnlineUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Hub is the authoritative registry of live connections: which connection
// belongs to which user, which connection is the most recent one for a user,
// and which room channels each connection has joined. All maps are owned by
// the Hub and guarded by a single lock; nothing here is global, so tests can
// run any number of independent hubs.
type Hub struct {
	mu sync.RWMutex

	// All tracked connections, authenticated or not, by connection id.
	clients map[string]*Client

	// Most recently authenticated connection per user (last-write-wins).
	byUser map[uint]string

	// Room channel membership: room key -> connection id -> client.
	rooms map[string]map[string]*Client

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		byUser:  make(map[uint]string),
		rooms:   make(map[string]map[string]*Client),
		logger:  log,
	}
}

// Track adds a freshly upgraded, not yet authenticated connection.
func (h *Hub) Track(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
	h.logger.Info("Hub", "Connection opened", map[string]interface{}{"conn_id": client.ID})
}

// Register binds an identity to the connection. A second login by the same
// user simply moves the byUser pointer; the older connection stays tracked
// but is no longer the target for directed delivery.
func (h *Hub) Register(client *Client, userID uint, username string) {
	h.mu.Lock()
	client.UserID = userID
	client.Username = username
	client.authenticated = true
	h.clients[client.ID] = client
	h.byUser[userID] = client.ID
	h.mu.Unlock()
	h.logger.Info("Hub", "Connection authenticated", map[string]interface{}{
		"conn_id": client.ID,
		"user_id": userID,
	})
}

// Unregister drops the connection from every map. The byUser pointer is only
// cleared when it still points at this connection, so an older connection
// disconnecting after a re-login cannot wipe the newer binding. Returns true
// when the connection was authenticated, in which case the caller should
// re-broadcast presence.
func (h *Hub) Unregister(client *Client) bool {
	h.mu.Lock()
	if _, tracked := h.clients[client.ID]; !tracked {
		h.mu.Unlock()
		return false
	}
	delete(h.clients, client.ID)
	wasAuthenticated := client.authenticated
	if wasAuthenticated && h.byUser[client.UserID] == client.ID {
		delete(h.byUser, client.UserID)
	}
	for key, members := range h.rooms {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, key)
		}
	}
	h.mu.Unlock()

	close(client.Send)
	h.logger.Info("Hub", "Connection closed", map[string]interface{}{"conn_id": client.ID})
	return wasAuthenticated
}

// LookupByUsername returns the first connection bound to the username, or nil.
func (h *Hub) LookupByUsername(username string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.authenticated && client.Username == username {
			return client
		}
	}
	return nil
}

// LookupByUserID returns the most recent connection for the user, or nil.
func (h *Hub) LookupByUserID(userID uint) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if connID, ok := h.byUser[userID]; ok {
		return h.clients[connID]
	}
	return nil
}

// Snapshot returns the de-duplicated set of online users. A user with two
// live connections appears once.
func (h *Hub) Snapshot() []OnlineUser {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[uint]bool)
	users := make([]OnlineUser, 0, len(h.clients))
	for _, client := range h.clients {
		if !client.authenticated || seen[client.UserID] {
			continue
		}
		seen[client.UserID] = true
		users = append(users, OnlineUser{ID: client.UserID, Username: client.Username})
	}
	return users
}

// BroadcastOnlineUsers pushes the full presence set to every connection.
// Full refresh, not a delta: presence sets are small.
func (h *Hub) BroadcastOnlineUsers() {
	h.Broadcast(encodeEvent(EventOnlineUsers, h.Snapshot()))
}

// BroadcastSupportMessage pushes an operator announcement to everyone.
func (h *Hub) BroadcastSupportMessage(message string) {
	h.Broadcast(encodeEvent(EventSupportMessage, map[string]interface{}{
		"message": message,
	}))
}

// JoinRoom subscribes the connection to a room channel. Joining a second
// room does not leave the first.
func (h *Hub) JoinRoom(client *Client, roomKey string) {
	h.mu.Lock()
	if h.rooms[roomKey] == nil {
		h.rooms[roomKey] = make(map[string]*Client)
	}
	h.rooms[roomKey][client.ID] = client
	h.mu.Unlock()
}

// Broadcast sends raw data to every tracked connection.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()
	for _, client := range targets {
		h.Send(client, data)
	}
}

// BroadcastToRoom sends raw data to every connection joined to the room.
func (h *Hub) BroadcastToRoom(roomKey string, data []byte) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[roomKey]))
	for _, client := range h.rooms[roomKey] {
		members = append(members, client)
	}
	h.mu.RUnlock()
	for _, client := range members {
		h.Send(client, data)
	}
}

// Send queues data for one connection. Fire-and-forget: a full send buffer
// means the client stopped draining, and the message is dropped.
func (h *Hub) Send(client *Client, data []byte) {
	defer func() {
		// Losing the race with Unregister closing Send is harmless; the
		// connection is gone and the write becomes a no-op.
		if recover() != nil {
			h.logger.Warn("Hub", "Send to closed connection dropped", map[string]interface{}{"conn_id": client.ID})
		}
	}()
	select {
	case client.Send <- data:
	default:
		h.logger.Warn("Hub", "Send buffer full, dropping message", map[string]interface{}{"conn_id": client.ID})
	}
}
