package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"krackenx-chat-be/internal/dto"
	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/pkg/logger"
	"krackenx-chat-be/internal/repository/memory"
	"krackenx-chat-be/internal/service"

	"github.com/google/uuid"
)

// Gateway routes inbound websocket events to the chat services and fans the
// results back out through the hub. One gateway serves every connection.
type Gateway struct {
	hub         *Hub
	userService service.IUserService
	chatService service.IChatService
	friends     service.IFriendService
	invitations *memory.InvitationRepository
	logger      logger.ILogger
}

func NewGateway(
	hub *Hub,
	userService service.IUserService,
	chatService service.IChatService,
	friendService service.IFriendService,
	invitations *memory.InvitationRepository,
	log logger.ILogger,
) *Gateway {
	return &Gateway{
		hub:         hub,
		userService: userService,
		chatService: chatService,
		friends:     friendService,
		invitations: invitations,
		logger:      log,
	}
}

// Dispatch decodes one inbound frame and routes it. Every event except
// authentication requires a bound identity.
func (g *Gateway) Dispatch(client *Client, raw []byte) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		g.sendError(client, "malformed message")
		return
	}

	ctx := context.Background()

	if envelope.Event == EventAuthenticate {
		g.handleAuthenticate(ctx, client, envelope.Data)
		return
	}

	if !client.authenticated {
		g.sendError(client, "not authenticated")
		return
	}

	switch envelope.Event {
	case EventJoinRoom:
		g.handleJoinRoom(ctx, client, envelope.Data)
	case EventSendMessage:
		g.handleSendMessage(ctx, client, envelope.Data)
	case EventInviteUser:
		g.handleInvite(ctx, client, envelope.Data)
	case EventRespondInvitation:
		g.handleRespondInvitation(ctx, client, envelope.Data)
	case EventFriendsList:
		g.handleFriendsList(ctx, client)
	case EventFriendsRequest:
		g.handleFriendsRequest(ctx, client, envelope.Data)
	case EventFriendsRespond:
		g.handleFriendsRespond(ctx, client, envelope.Data)
	default:
		g.sendError(client, fmt.Sprintf("unknown event: %s", envelope.Event))
	}
}

// HandleDisconnect runs when the read pump exits for any reason.
func (g *Gateway) HandleDisconnect(client *Client) {
	wasAuthenticated := g.hub.Unregister(client)
	if !wasAuthenticated {
		return
	}

	g.hub.BroadcastOnlineUsers()

	if err := g.userService.UpdateLastSeen(context.Background(), client.UserID); err != nil {
		g.logger.Warn("Gateway", "Failed to update last seen on disconnect", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
	}
}

func (g *Gateway) handleAuthenticate(ctx context.Context, client *Client, data json.RawMessage) {
	var payload authenticatePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Token == "" {
		g.hub.Send(client, encodeEvent(EventTokenAuthError, map[string]interface{}{
			"message": "token is required",
		}))
		return
	}

	user, err := g.userService.ResolveToken(ctx, payload.Token)
	if err != nil {
		g.hub.Send(client, encodeEvent(EventTokenAuthError, map[string]interface{}{
			"message": "authentication failed",
		}))
		return
	}

	g.hub.Register(client, user.Id, user.Username)

	if err := g.chatService.EnsureGeneralMembership(ctx, user.Id); err != nil {
		g.logger.Error("Gateway", "Failed to ensure general membership", map[string]interface{}{
			"user_id": user.Id,
			"error":   err.Error(),
		})
	}

	g.hub.Send(client, encodeEvent(EventTokenAuthSuccess, map[string]interface{}{
		"user": map[string]interface{}{
			"id":       user.Id,
			"username": user.Username,
		},
	}))

	rooms, err := g.chatService.ListRoomsForUser(ctx, user.Id)
	if err != nil {
		g.logger.Error("Gateway", "Failed to list rooms", map[string]interface{}{
			"user_id": user.Id,
			"error":   err.Error(),
		})
	} else {
		g.hub.Send(client, encodeEvent(EventUserRooms, roomList(rooms)))
	}

	g.hub.BroadcastOnlineUsers()
}

func (g *Gateway) handleJoinRoom(ctx context.Context, client *Client, data json.RawMessage) {
	var payload joinRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.sendError(client, "malformed join_room payload")
		return
	}

	ref := entity.ParseRoomRef(string(payload.RoomId))
	g.hub.JoinRoom(client, ref.Key())

	// Ephemeral rooms have no backing store, so history is always empty.
	messages := []dto.MessageResponse{}
	if roomId, ok := ref.ID(); ok {
		history, err := g.chatService.RoomHistory(ctx, roomId)
		if err != nil {
			g.sendError(client, "failed to load room history")
			return
		}
		for _, m := range history {
			messages = append(messages, messagePayload(m.Id, m, ref.Key()))
		}
	}

	g.hub.Send(client, encodeEvent(EventRoomJoined, map[string]interface{}{
		"roomId":   ref.Key(),
		"messages": messages,
	}))
}

func (g *Gateway) handleSendMessage(ctx context.Context, client *Client, data json.RawMessage) {
	var payload sendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.sendError(client, "malformed send_message payload")
		return
	}

	content := strings.TrimSpace(payload.Content)
	if content == "" {
		g.sendError(client, "message content is required")
		return
	}

	ref := entity.ParseRoomRef(string(payload.RoomId))

	// Ephemeral rooms broadcast without touching the database. The id is
	// synthesized so clients can still key their message lists.
	roomId, persistent := ref.ID()
	if !persistent {
		ephemeral := &entity.Message{
			UserId:    client.UserID,
			Username:  client.Username,
			Content:   content,
			Timestamp: time.Now(),
		}
		id := fmt.Sprintf("ephemeral-%d", time.Now().UnixMilli())
		g.hub.BroadcastToRoom(ref.Key(), encodeEvent(EventNewMessage, messagePayload(id, ephemeral, ref.Key())))
		return
	}

	saved, err := g.chatService.SaveMessage(ctx, client.UserID, client.Username, roomId, content)
	if err != nil {
		g.sendError(client, "failed to send message")
		return
	}

	frame := encodeEvent(EventNewMessage, messagePayload(saved.Id, saved, ref.Key()))

	// The General room reaches every connection, not just those that joined
	// its channel.
	if ref.IsGeneral() {
		g.hub.Broadcast(frame)
	} else {
		g.hub.BroadcastToRoom(ref.Key(), frame)
	}
}

func (g *Gateway) handleInvite(ctx context.Context, client *Client, data json.RawMessage) {
	var payload inviteUserPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.sendError(client, "malformed invite-user payload")
		return
	}

	targetUsername := strings.TrimSpace(payload.TargetUsername)
	if targetUsername == "" {
		g.sendError(client, "malformed invite-user payload")
		return
	}

	if targetUsername == client.Username {
		g.sendError(client, "cannot invite yourself")
		return
	}

	// Invitations only make sense against a live connection; there is no
	// offline inbox for them.
	target := g.hub.LookupByUsername(targetUsername)
	if target == nil {
		g.sendError(client, "user is not online")
		return
	}

	invitation := &entity.Invitation{
		Id:        uuid.NewString(),
		From:      client.Username,
		To:        targetUsername,
		Status:    entity.InvitationPending,
		CreatedAt: time.Now(),
	}
	g.invitations.Save(invitation)

	g.hub.Send(target, encodeEvent(EventInvitationReceived, map[string]interface{}{
		"invitationId": invitation.Id,
		"fromUsername": invitation.From,
	}))

	g.hub.Send(client, encodeEvent(EventInvitationSent, map[string]interface{}{
		"invitationId":   invitation.Id,
		"targetUsername": invitation.To,
	}))
}

func (g *Gateway) handleRespondInvitation(ctx context.Context, client *Client, data json.RawMessage) {
	var payload respondInvitationPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.InvitationId == "" {
		g.sendError(client, "malformed respond-to-invitation payload")
		return
	}

	invitation, found := g.invitations.Get(payload.InvitationId)
	if !found {
		g.sendError(client, "invitation not found or expired")
		return
	}
	if invitation.To != client.Username {
		g.sendError(client, "you are not the invitation recipient")
		return
	}

	proposerConn := g.hub.LookupByUsername(invitation.From)

	switch payload.Response {
	case "reject":
		g.invitations.Delete(invitation.Id)
		if proposerConn != nil {
			g.hub.Send(proposerConn, encodeEvent(EventInvitationDeclined, map[string]interface{}{
				"byUsername": client.Username,
			}))
		}

	case "accept":
		// The proposer is re-resolved by name: their account may have been
		// recreated or their session replaced since the invitation was issued.
		// The invitation stays pending until the room exists, so a transient
		// store failure leaves it answerable.
		proposer, err := g.userService.FindByUsername(ctx, invitation.From)
		if err != nil || proposer == nil {
			g.sendError(client, "inviting user no longer exists")
			return
		}

		room, _, err := g.chatService.GetOrCreateDirectRoom(ctx, proposer.Id, client.UserID)
		if err != nil {
			g.sendError(client, "failed to open direct room")
			return
		}
		g.invitations.Delete(invitation.Id)

		roomKey := entity.PersistentRoom(room.Id).Key()
		g.hub.JoinRoom(client, roomKey)
		g.hub.Send(client, encodeEvent(EventChatStarted, map[string]interface{}{
			"roomId":   room.Id,
			"roomName": room.Name,
			"with":     invitation.From,
		}))

		if proposerConn != nil {
			g.hub.JoinRoom(proposerConn, roomKey)
			g.hub.Send(proposerConn, encodeEvent(EventChatStarted, map[string]interface{}{
				"roomId":   room.Id,
				"roomName": room.Name,
				"with":     client.Username,
			}))
		}

	default:
		g.sendError(client, "unknown response type")
	}
}

func (g *Gateway) handleFriendsList(ctx context.Context, client *Client) {
	g.pushFriendsUpdate(ctx, client)
}

func (g *Gateway) handleFriendsRequest(ctx context.Context, client *Client, data json.RawMessage) {
	var payload friendRequestPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Username == "" {
		g.sendError(client, "malformed friends:request payload")
		return
	}

	request, err := g.friends.SendRequest(ctx, client.UserID, payload.Username)
	if err != nil {
		g.sendError(client, err.Error())
		return
	}

	g.hub.Send(client, encodeEvent(EventFriendsRequestOk, request))

	if conn := g.hub.LookupByUsername(payload.Username); conn != nil {
		g.pushFriendsUpdate(ctx, conn)
	}
}

func (g *Gateway) handleFriendsRespond(ctx context.Context, client *Client, data json.RawMessage) {
	var payload friendRespondPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.From == "" {
		g.sendError(client, "malformed friends:respond payload")
		return
	}

	if err := g.friends.RespondByUsername(ctx, client.UserID, payload.From, payload.Accept); err != nil {
		g.sendError(client, err.Error())
		return
	}

	g.hub.Send(client, encodeEvent(EventFriendsRespondOk, map[string]interface{}{
		"from":     payload.From,
		"accepted": payload.Accept,
	}))

	g.pushFriendsUpdate(ctx, client)
	if conn := g.hub.LookupByUsername(payload.From); conn != nil {
		g.pushFriendsUpdate(ctx, conn)
	}
}

// pushFriendsUpdate sends the connection's current friend list and pending
// inbound requests.
func (g *Gateway) pushFriendsUpdate(ctx context.Context, client *Client) {
	friends, err := g.friends.ListFriends(ctx, client.UserID)
	if err != nil {
		g.sendError(client, "failed to load friends")
		return
	}
	pending, err := g.friends.PendingRequests(ctx, client.UserID)
	if err != nil {
		g.sendError(client, "failed to load friend requests")
		return
	}

	friendEntries := make([]map[string]interface{}, 0, len(friends))
	for _, f := range friends {
		friendEntries = append(friendEntries, map[string]interface{}{
			"userId":   f.UserId,
			"username": f.Username,
			"status":   string(f.Status),
		})
	}

	g.hub.Send(client, encodeEvent(EventFriendsUpdate, map[string]interface{}{
		"friends": friendEntries,
		"pending": pending,
	}))
}

func (g *Gateway) sendError(client *Client, message string) {
	g.hub.Send(client, encodeEvent(EventServerError, map[string]interface{}{
		"message": message,
	}))
}

func roomList(rooms []*entity.Room) []dto.RoomResponse {
	out := make([]dto.RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, dto.RoomResponse{
			Id:       r.Id,
			Name:     r.Name,
			RoomType: string(r.RoomType),
		})
	}
	return out
}

// messagePayload shapes one message for the wire. The id is either the
// database id or a synthesized ephemeral id, so it goes out as-is.
func messagePayload(id interface{}, m *entity.Message, roomKey string) dto.MessageResponse {
	return dto.MessageResponse{
		Id:        id,
		UserId:    m.UserId,
		Username:  m.Username,
		RoomId:    roomKey,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}
