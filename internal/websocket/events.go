package websocket

import (
	"bytes"
	"encoding/json"
)

// Inbound event names.
const (
	EventAuthenticate      = "authenticate_with_token"
	EventJoinRoom          = "join_room"
	EventSendMessage       = "send_message"
	EventInviteUser        = "invite-user"
	EventRespondInvitation = "respond-to-invitation"
	EventFriendsList       = "friends:list"
	EventFriendsRequest    = "friends:request"
	EventFriendsRespond    = "friends:respond"
)

// Outbound event names.
const (
	EventTokenAuthSuccess   = "token_auth_success"
	EventTokenAuthError     = "token_auth_error"
	EventUserRooms          = "user_rooms"
	EventOnlineUsers        = "online_users"
	EventRoomJoined         = "room_joined"
	EventNewMessage         = "new_message"
	EventInvitationReceived = "invitation-received"
	EventInvitationSent     = "invitation-sent"
	EventInvitationDeclined = "invitation-declined"
	EventChatStarted        = "chat-started"
	EventFriendsRequestOk   = "friends:request:ok"
	EventFriendsRespondOk   = "friends:respond:ok"
	EventFriendsUpdate      = "friends:update"
	EventSupportMessage     = "support_message"
	EventServerError        = "server_error"
)

// Envelope is the wire frame: every websocket message carries an event name
// and a JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// RoomID tolerates clients sending the room identifier as either a JSON
// number or a string.
type RoomID string

func (r *RoomID) UnmarshalJSON(b []byte) error {
	*r = RoomID(bytes.Trim(b, `"`))
	return nil
}

type authenticatePayload struct {
	Token string `json:"token"`
}

type joinRoomPayload struct {
	RoomId RoomID `json:"roomId"`
}

type sendMessagePayload struct {
	RoomId  RoomID `json:"roomId"`
	Content string `json:"content"`
}

type inviteUserPayload struct {
	TargetUsername string `json:"targetUsername"`
}

type respondInvitationPayload struct {
	InvitationId string `json:"invitationId"`
	Response     string `json:"response"`
}

type friendRequestPayload struct {
	Username string `json:"username"`
}

type friendRespondPayload struct {
	From   string `json:"from"`
	Accept bool   `json:"accept"`
}

func encodeEvent(event string, data interface{}) []byte {
	// Payloads are built in-process; a marshal failure would be a
	// programming error, so the error is discarded.
	raw, _ := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	return raw
}
