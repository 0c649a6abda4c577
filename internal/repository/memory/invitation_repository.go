package memory

import (
	"time"

	"krackenx-chat-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

const (
	// Unanswered invitations expire after ten minutes. The responder then
	// sees the same "not found" error as for a never-issued id and the
	// proposer simply re-invites.
	invitationTTL   = 10 * time.Minute
	cleanupInterval = 5 * time.Minute
)

// InvitationRepository holds pending direct-chat invitations in process
// memory. Nothing here survives a restart.
type InvitationRepository struct {
	cache *cache.Cache
}

func NewInvitationRepository() *InvitationRepository {
	return &InvitationRepository{
		cache: cache.New(invitationTTL, cleanupInterval),
	}
}

func (r *InvitationRepository) Save(inv *entity.Invitation) {
	r.cache.Set(inv.Id, inv, cache.DefaultExpiration)
}

func (r *InvitationRepository) Get(id string) (*entity.Invitation, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*entity.Invitation), true
	}
	return nil, false
}

func (r *InvitationRepository) Delete(id string) {
	r.cache.Delete(id)
}
