package dto

type SendFriendRequestRequest struct {
	FromUserId uint   `json:"fromUserId" validate:"required"`
	ToUsername string `json:"toUsername" validate:"required"`
}

type RespondFriendRequestRequest struct {
	RequestId uint   `json:"requestId" validate:"required"`
	UserId    uint   `json:"userId" validate:"required"`
	Response  string `json:"response" validate:"required,oneof=accepted rejected"`
}

type FriendRequestResponse struct {
	Id           uint   `json:"id"`
	FromUserId   uint   `json:"fromUserId"`
	FromUsername string `json:"fromUsername"`
	Status       string `json:"status"`
}

type FriendResponse struct {
	Id       uint   `json:"id"`
	Username string `json:"username"`
	Status   string `json:"status"`
}
