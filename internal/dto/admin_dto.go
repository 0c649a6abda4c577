package dto

type SupportMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type DeleteMessagesRequest struct {
	// RoomId limits the purge to one room; nil wipes every room.
	RoomId *uint `json:"roomId"`
}

type LogsQuery struct {
	Level  string `query:"level"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}
