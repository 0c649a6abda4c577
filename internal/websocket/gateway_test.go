package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"krackenx-chat-be/internal/dto"
	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService resolves any token of the form "token-<username>" against a
// fixed user table.
type fakeUserService struct {
	users map[string]*entity.User // by username
}

func (f *fakeUserService) ResolveToken(ctx context.Context, token string) (*entity.User, error) {
	username := strings.TrimPrefix(token, "token-")
	if user, ok := f.users[username]; ok && username != token {
		return user, nil
	}
	return nil, errors.New("invalid token")
}

func (f *fakeUserService) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return f.users[username], nil
}

func (f *fakeUserService) GetProfile(ctx context.Context, userId uint) (*dto.UserResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserService) UploadAvatar(ctx context.Context, userId uint, file *multipart.FileHeader) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeUserService) UpdateLastSeen(ctx context.Context, userId uint) error { return nil }

type fakeChatService struct {
	history       map[uint][]*entity.Message
	saved         []*entity.Message
	rooms         map[uint]*entity.Room
	nextId        uint
	directRoomErr error
}

func newFakeChatService() *fakeChatService {
	return &fakeChatService{
		history: map[uint][]*entity.Message{},
		rooms:   map[uint]*entity.Room{},
		nextId:  100,
	}
}

func (f *fakeChatService) RoomHistory(ctx context.Context, roomId uint) ([]*entity.Message, error) {
	return f.history[roomId], nil
}

func (f *fakeChatService) SaveMessage(ctx context.Context, userId uint, username string, roomId uint, content string) (*entity.Message, error) {
	f.nextId++
	msg := &entity.Message{
		Id:        f.nextId,
		UserId:    userId,
		RoomId:    roomId,
		Username:  username,
		Content:   content,
		Timestamp: time.Now(),
	}
	f.saved = append(f.saved, msg)
	return msg, nil
}

func (f *fakeChatService) GetOrCreateDirectRoom(ctx context.Context, userA, userB uint) (*entity.Room, bool, error) {
	if f.directRoomErr != nil {
		return nil, false, f.directRoomErr
	}
	minId, maxId := userA, userB
	if minId > maxId {
		minId, maxId = maxId, minId
	}
	key := minId*1000 + maxId
	if room, ok := f.rooms[key]; ok {
		return room, false, nil
	}
	f.nextId++
	room := &entity.Room{
		Id:       f.nextId,
		Name:     fmt.Sprintf("Direct %d-%d", minId, maxId),
		RoomType: entity.RoomTypeDirect,
	}
	f.rooms[key] = room
	return room, true, nil
}

func (f *fakeChatService) EnsureGeneralMembership(ctx context.Context, userId uint) error { return nil }

func (f *fakeChatService) ListRoomsForUser(ctx context.Context, userId uint) ([]*entity.Room, error) {
	return []*entity.Room{{Id: entity.GeneralRoomID, Name: "General", RoomType: entity.RoomTypeGeneral}}, nil
}

func (f *fakeChatService) FindRoom(ctx context.Context, roomId uint) (*entity.Room, error) {
	return nil, nil
}

type fakeFriendService struct{}

func (fakeFriendService) ListFriends(ctx context.Context, userId uint) ([]*entity.FriendInfo, error) {
	return []*entity.FriendInfo{{UserId: 9, Username: "dave", Status: entity.FriendStatusAccepted}}, nil
}

func (fakeFriendService) PendingRequests(ctx context.Context, userId uint) ([]*dto.FriendRequestResponse, error) {
	return nil, nil
}

func (fakeFriendService) SendRequest(ctx context.Context, fromUserId uint, toUsername string) (*dto.FriendRequestResponse, error) {
	return &dto.FriendRequestResponse{Id: 1, FromUserId: fromUserId, Status: "pending"}, nil
}

func (fakeFriendService) RespondByUsername(ctx context.Context, userId uint, fromUsername string, accept bool) error {
	return nil
}

func (fakeFriendService) Respond(ctx context.Context, req *dto.RespondFriendRequestRequest) error {
	return nil
}

type gatewayFixture struct {
	hub     *Hub
	gateway *Gateway
	chat    *fakeChatService
	users   *fakeUserService
}

func newGatewayFixture() *gatewayFixture {
	hub := newTestHub()
	users := &fakeUserService{users: map[string]*entity.User{
		"alice": {Id: 1, Username: "alice"},
		"bob":   {Id: 2, Username: "bob"},
	}}
	chat := newFakeChatService()
	gw := NewGateway(hub, users, chat, fakeFriendService{}, memory.NewInvitationRepository(), nopLogger{})
	return &gatewayFixture{hub: hub, gateway: gw, chat: chat, users: users}
}

func frame(event string, data interface{}) []byte {
	raw, _ := json.Marshal(data)
	out, _ := json.Marshal(Envelope{Event: event, Data: raw})
	return out
}

// decodeFrames empties the client's send buffer into parsed envelopes.
func decodeFrames(t *testing.T, c *Client) []Envelope {
	t.Helper()
	var envelopes []Envelope
	for _, raw := range drain(c) {
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		envelopes = append(envelopes, env)
	}
	return envelopes
}

func findEvent(envelopes []Envelope, event string) (json.RawMessage, bool) {
	for _, env := range envelopes {
		if env.Event == event {
			return env.Data, true
		}
	}
	return nil, false
}

func authenticate(t *testing.T, fx *gatewayFixture, username string) *Client {
	t.Helper()
	client := newTestClient(fx.hub)
	fx.gateway.Dispatch(client, frame(EventAuthenticate, map[string]string{"token": "token-" + username}))

	envelopes := decodeFrames(t, client)
	_, ok := findEvent(envelopes, EventTokenAuthSuccess)
	require.True(t, ok, "expected token_auth_success")
	return client
}

func TestGatewayAuthenticateSuccess(t *testing.T) {
	fx := newGatewayFixture()
	client := newTestClient(fx.hub)

	fx.gateway.Dispatch(client, frame(EventAuthenticate, map[string]string{"token": "token-alice"}))

	envelopes := decodeFrames(t, client)

	data, ok := findEvent(envelopes, EventTokenAuthSuccess)
	require.True(t, ok)
	var success struct {
		User struct {
			Id       uint   `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(data, &success))
	assert.Equal(t, uint(1), success.User.Id)
	assert.Equal(t, "alice", success.User.Username)

	_, ok = findEvent(envelopes, EventUserRooms)
	assert.True(t, ok, "expected user_rooms after authentication")

	_, ok = findEvent(envelopes, EventOnlineUsers)
	assert.True(t, ok, "expected presence broadcast after authentication")
}

func TestGatewayAuthenticateBadToken(t *testing.T) {
	fx := newGatewayFixture()
	client := newTestClient(fx.hub)

	fx.gateway.Dispatch(client, frame(EventAuthenticate, map[string]string{"token": "garbage"}))

	envelopes := decodeFrames(t, client)
	_, ok := findEvent(envelopes, EventTokenAuthError)
	assert.True(t, ok)
	assert.Empty(t, fx.hub.Snapshot())
}

func TestGatewayRejectsUnauthenticatedEvents(t *testing.T) {
	fx := newGatewayFixture()
	client := newTestClient(fx.hub)

	fx.gateway.Dispatch(client, frame(EventSendMessage, map[string]string{"roomId": "1", "content": "hi"}))

	envelopes := decodeFrames(t, client)
	data, ok := findEvent(envelopes, EventServerError)
	require.True(t, ok)
	assert.Contains(t, string(data), "not authenticated")
}

func TestGatewayJoinRoomWithHistory(t *testing.T) {
	fx := newGatewayFixture()
	fx.chat.history[7] = []*entity.Message{
		{Id: 1, UserId: 2, Username: "bob", Content: "older", Timestamp: time.Now().Add(-time.Minute)},
		{Id: 2, UserId: 1, Username: "alice", Content: "newer", Timestamp: time.Now()},
	}

	client := authenticate(t, fx, "alice")
	fx.gateway.Dispatch(client, frame(EventJoinRoom, map[string]string{"roomId": "7"}))

	envelopes := decodeFrames(t, client)
	data, ok := findEvent(envelopes, EventRoomJoined)
	require.True(t, ok)

	var joined struct {
		RoomId   string                   `json:"roomId"`
		Messages []map[string]interface{} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &joined))
	assert.Equal(t, "7", joined.RoomId)
	require.Len(t, joined.Messages, 2)
	assert.Equal(t, "older", joined.Messages[0]["content"])
	assert.Equal(t, "newer", joined.Messages[1]["content"])
}

func TestGatewayJoinEphemeralRoomHasNoHistory(t *testing.T) {
	fx := newGatewayFixture()

	client := authenticate(t, fx, "alice")
	fx.gateway.Dispatch(client, frame(EventJoinRoom, map[string]string{"roomId": "war-room"}))

	envelopes := decodeFrames(t, client)
	data, ok := findEvent(envelopes, EventRoomJoined)
	require.True(t, ok)

	var joined struct {
		RoomId   string                   `json:"roomId"`
		Messages []map[string]interface{} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &joined))
	assert.Equal(t, "war-room", joined.RoomId)
	assert.Empty(t, joined.Messages)
}

func TestGatewaySendMessageToGeneralReachesEveryone(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	bob := authenticate(t, fx, "bob")
	drain(alice)
	drain(bob)

	fx.gateway.Dispatch(alice, frame(EventSendMessage, map[string]string{"roomId": "1", "content": "hello all"}))

	require.Len(t, fx.chat.saved, 1)
	assert.Equal(t, uint(1), fx.chat.saved[0].RoomId)

	// Bob never joined room 1's channel but still receives General traffic.
	bobFrames := decodeFrames(t, bob)
	data, ok := findEvent(bobFrames, EventNewMessage)
	require.True(t, ok)
	assert.Contains(t, string(data), "hello all")

	aliceFrames := decodeFrames(t, alice)
	_, ok = findEvent(aliceFrames, EventNewMessage)
	assert.True(t, ok, "sender receives their own General message")
}

func TestGatewaySendMessageToPersistentRoomScopedToMembers(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	bob := authenticate(t, fx, "bob")
	fx.gateway.Dispatch(alice, frame(EventJoinRoom, map[string]string{"roomId": "7"}))
	drain(alice)
	drain(bob)

	fx.gateway.Dispatch(alice, frame(EventSendMessage, map[string]string{"roomId": "7", "content": "private"}))

	require.Len(t, fx.chat.saved, 1)

	aliceFrames := decodeFrames(t, alice)
	_, ok := findEvent(aliceFrames, EventNewMessage)
	assert.True(t, ok)

	bobFrames := decodeFrames(t, bob)
	_, ok = findEvent(bobFrames, EventNewMessage)
	assert.False(t, ok, "non-member should not receive room traffic")
}

func TestGatewayEphemeralMessageNotPersisted(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	bob := authenticate(t, fx, "bob")
	fx.gateway.Dispatch(alice, frame(EventJoinRoom, map[string]string{"roomId": "scratch"}))
	fx.gateway.Dispatch(bob, frame(EventJoinRoom, map[string]string{"roomId": "scratch"}))
	drain(alice)
	drain(bob)

	fx.gateway.Dispatch(alice, frame(EventSendMessage, map[string]string{"roomId": "scratch", "content": "off the record"}))

	assert.Empty(t, fx.chat.saved, "ephemeral messages must not hit storage")

	bobFrames := decodeFrames(t, bob)
	data, ok := findEvent(bobFrames, EventNewMessage)
	require.True(t, ok)

	var msg struct {
		Id      string `json:"id"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.True(t, strings.HasPrefix(msg.Id, "ephemeral-"))
	assert.Equal(t, "off the record", msg.Content)
}

func TestGatewayNumericStringRoomIdTolerated(t *testing.T) {
	fx := newGatewayFixture()
	alice := authenticate(t, fx, "alice")
	drain(alice)

	// A client sending the room id as a JSON number still lands in room 1.
	fx.gateway.Dispatch(alice, []byte(`{"event":"send_message","data":{"roomId":1,"content":"numeric"}}`))

	require.Len(t, fx.chat.saved, 1)
	assert.Equal(t, uint(1), fx.chat.saved[0].RoomId)
}

func TestGatewayInvitationAcceptFlow(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	bob := authenticate(t, fx, "bob")
	drain(alice)
	drain(bob)

	fx.gateway.Dispatch(alice, frame(EventInviteUser, map[string]string{"targetUsername": "bob"}))

	bobFrames := decodeFrames(t, bob)
	data, ok := findEvent(bobFrames, EventInvitationReceived)
	require.True(t, ok)
	var received struct {
		InvitationId string `json:"invitationId"`
		FromUsername string `json:"fromUsername"`
	}
	require.NoError(t, json.Unmarshal(data, &received))
	assert.Equal(t, "alice", received.FromUsername)
	assert.NotEmpty(t, received.InvitationId)

	aliceFrames := decodeFrames(t, alice)
	_, ok = findEvent(aliceFrames, EventInvitationSent)
	assert.True(t, ok)

	fx.gateway.Dispatch(bob, frame(EventRespondInvitation, map[string]string{
		"invitationId": received.InvitationId,
		"response":     "accept",
	}))

	bobFrames = decodeFrames(t, bob)
	data, ok = findEvent(bobFrames, EventChatStarted)
	require.True(t, ok)
	assert.Contains(t, string(data), "Direct 1-2")

	aliceFrames = decodeFrames(t, alice)
	data, ok = findEvent(aliceFrames, EventChatStarted)
	require.True(t, ok)
	assert.Contains(t, string(data), `"with":"bob"`)

	// A second respond on the consumed invitation fails.
	fx.gateway.Dispatch(bob, frame(EventRespondInvitation, map[string]string{
		"invitationId": received.InvitationId,
		"response":     "accept",
	}))
	bobFrames = decodeFrames(t, bob)
	data, ok = findEvent(bobFrames, EventServerError)
	require.True(t, ok)
	assert.Contains(t, string(data), "invitation not found")
}

func TestGatewayInvitationDecline(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	bob := authenticate(t, fx, "bob")
	drain(alice)
	drain(bob)

	fx.gateway.Dispatch(alice, frame(EventInviteUser, map[string]string{"targetUsername": "bob"}))

	bobFrames := decodeFrames(t, bob)
	data, _ := findEvent(bobFrames, EventInvitationReceived)
	var received struct {
		InvitationId string `json:"invitationId"`
	}
	require.NoError(t, json.Unmarshal(data, &received))
	drain(alice)

	fx.gateway.Dispatch(bob, frame(EventRespondInvitation, map[string]string{
		"invitationId": received.InvitationId,
		"response":     "reject",
	}))

	aliceFrames := decodeFrames(t, alice)
	data, ok := findEvent(aliceFrames, EventInvitationDeclined)
	require.True(t, ok)
	assert.Contains(t, string(data), `"byUsername":"bob"`)
}

func TestGatewayInvitationWrongRecipientRejected(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	bob := authenticate(t, fx, "bob")
	drain(bob)

	fx.gateway.Dispatch(alice, frame(EventInviteUser, map[string]string{"targetUsername": "bob"}))

	aliceFrames := decodeFrames(t, alice)
	data, _ := findEvent(aliceFrames, EventInvitationSent)
	var sent struct {
		InvitationId string `json:"invitationId"`
	}
	require.NoError(t, json.Unmarshal(data, &sent))

	// Alice cannot answer her own invitation; only bob can.
	fx.gateway.Dispatch(alice, frame(EventRespondInvitation, map[string]string{
		"invitationId": sent.InvitationId,
		"response":     "accept",
	}))

	aliceFrames = decodeFrames(t, alice)
	data, ok := findEvent(aliceFrames, EventServerError)
	require.True(t, ok)
	assert.Contains(t, string(data), "not the invitation recipient")

	// The rebuff left the invitation intact, so bob can still accept it.
	fx.gateway.Dispatch(bob, frame(EventRespondInvitation, map[string]string{
		"invitationId": sent.InvitationId,
		"response":     "accept",
	}))
	bobFrames := decodeFrames(t, bob)
	_, ok = findEvent(bobFrames, EventChatStarted)
	assert.True(t, ok)
}

func TestGatewayUnknownResponseVerbPreservesInvitation(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	bob := authenticate(t, fx, "bob")
	drain(alice)

	fx.gateway.Dispatch(alice, frame(EventInviteUser, map[string]string{"targetUsername": "bob"}))

	bobFrames := decodeFrames(t, bob)
	data, _ := findEvent(bobFrames, EventInvitationReceived)
	var received struct {
		InvitationId string `json:"invitationId"`
	}
	require.NoError(t, json.Unmarshal(data, &received))
	drain(alice)

	fx.gateway.Dispatch(bob, frame(EventRespondInvitation, map[string]string{
		"invitationId": received.InvitationId,
		"response":     "maybe",
	}))

	bobFrames = decodeFrames(t, bob)
	data, ok := findEvent(bobFrames, EventServerError)
	require.True(t, ok)
	assert.Contains(t, string(data), "unknown response type")

	// The proposer was not told anything and the invitation is still pending.
	aliceFrames := decodeFrames(t, alice)
	_, ok = findEvent(aliceFrames, EventInvitationDeclined)
	assert.False(t, ok)

	fx.gateway.Dispatch(bob, frame(EventRespondInvitation, map[string]string{
		"invitationId": received.InvitationId,
		"response":     "accept",
	}))
	bobFrames = decodeFrames(t, bob)
	_, ok = findEvent(bobFrames, EventChatStarted)
	assert.True(t, ok)
}

func TestGatewayAcceptRetriesAfterRoomFailure(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	bob := authenticate(t, fx, "bob")
	drain(alice)

	fx.gateway.Dispatch(alice, frame(EventInviteUser, map[string]string{"targetUsername": "bob"}))

	bobFrames := decodeFrames(t, bob)
	data, _ := findEvent(bobFrames, EventInvitationReceived)
	var received struct {
		InvitationId string `json:"invitationId"`
	}
	require.NoError(t, json.Unmarshal(data, &received))

	// A store failure during accept must leave the invitation answerable.
	fx.chat.directRoomErr = errors.New("db down")
	fx.gateway.Dispatch(bob, frame(EventRespondInvitation, map[string]string{
		"invitationId": received.InvitationId,
		"response":     "accept",
	}))

	bobFrames = decodeFrames(t, bob)
	data, ok := findEvent(bobFrames, EventServerError)
	require.True(t, ok)
	assert.Contains(t, string(data), "failed to open direct room")

	fx.chat.directRoomErr = nil
	fx.gateway.Dispatch(bob, frame(EventRespondInvitation, map[string]string{
		"invitationId": received.InvitationId,
		"response":     "accept",
	}))
	bobFrames = decodeFrames(t, bob)
	_, ok = findEvent(bobFrames, EventChatStarted)
	assert.True(t, ok)
}

func TestGatewayInviteTrimsTargetUsername(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	bob := authenticate(t, fx, "bob")
	drain(alice)
	drain(bob)

	fx.gateway.Dispatch(alice, frame(EventInviteUser, map[string]string{"targetUsername": "  bob  "}))

	bobFrames := decodeFrames(t, bob)
	_, ok := findEvent(bobFrames, EventInvitationReceived)
	assert.True(t, ok)
}

func TestGatewayBlankMessageRejected(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	drain(alice)

	fx.gateway.Dispatch(alice, frame(EventSendMessage, map[string]string{"roomId": "1", "content": "   "}))

	assert.Empty(t, fx.chat.saved)

	frames := decodeFrames(t, alice)
	data, ok := findEvent(frames, EventServerError)
	require.True(t, ok)
	assert.Contains(t, string(data), "content is required")
}

func TestGatewayInviteOfflineTargetRejected(t *testing.T) {
	fx := newGatewayFixture()

	// Bob exists but never connected.
	alice := authenticate(t, fx, "alice")
	drain(alice)

	fx.gateway.Dispatch(alice, frame(EventInviteUser, map[string]string{"targetUsername": "bob"}))

	frames := decodeFrames(t, alice)
	data, ok := findEvent(frames, EventServerError)
	require.True(t, ok)
	assert.Contains(t, string(data), "not online")
	_, ok = findEvent(frames, EventInvitationSent)
	assert.False(t, ok)
}

func TestGatewaySelfInviteRejected(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	drain(alice)

	fx.gateway.Dispatch(alice, frame(EventInviteUser, map[string]string{"targetUsername": "alice"}))

	frames := decodeFrames(t, alice)
	data, ok := findEvent(frames, EventServerError)
	require.True(t, ok)
	assert.Contains(t, string(data), "cannot invite yourself")
}

func TestGatewayDisconnectBroadcastsPresence(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	bob := authenticate(t, fx, "bob")
	drain(bob)

	fx.gateway.HandleDisconnect(alice)

	bobFrames := decodeFrames(t, bob)
	data, ok := findEvent(bobFrames, EventOnlineUsers)
	require.True(t, ok)
	assert.NotContains(t, string(data), "alice")
	assert.Contains(t, string(data), "bob")
}

func TestGatewayFriendsList(t *testing.T) {
	fx := newGatewayFixture()

	alice := authenticate(t, fx, "alice")
	drain(alice)

	fx.gateway.Dispatch(alice, frame(EventFriendsList, map[string]string{}))

	frames := decodeFrames(t, alice)
	data, ok := findEvent(frames, EventFriendsUpdate)
	require.True(t, ok)
	assert.Contains(t, string(data), "dave")
}
