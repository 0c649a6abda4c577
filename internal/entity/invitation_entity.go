package entity

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation is the in-memory record of a direct-chat handshake. It is never
// persisted: a process restart drops all pending invitations and clients are
// expected to re-propose.
type Invitation struct {
	Id        string
	From      string
	To        string
	Status    InvitationStatus
	CreatedAt time.Time
}
