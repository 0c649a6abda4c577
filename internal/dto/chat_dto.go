package dto

import "time"

type RoomResponse struct {
	Id       uint   `json:"id"`
	Name     string `json:"name"`
	RoomType string `json:"room_type"`
}

// MessageResponse is a message as sent over the websocket. Id is the numeric
// database id for persisted messages and an "ephemeral-<ts>" string otherwise.
type MessageResponse struct {
	Id        interface{} `json:"id"`
	UserId    uint        `json:"userId"`
	Username  string      `json:"username"`
	RoomId    string      `json:"roomId"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// MessagePersistedMessage is the payload published to the in-process bus
// after a message hits the database.
type MessagePersistedMessage struct {
	MessageId uint      `json:"message_id"`
	UserId    uint      `json:"user_id"`
	RoomId    uint      `json:"room_id"`
	Timestamp time.Time `json:"timestamp"`
}
