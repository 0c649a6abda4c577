package memory

import (
	"testing"
	"time"

	"krackenx-chat-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestInvitationRepository(t *testing.T) {
	repo := NewInvitationRepository()

	inv := &entity.Invitation{
		Id:        "inv-1",
		From:      "alice",
		To:        "bob",
		Status:    entity.InvitationPending,
		CreatedAt: time.Now(),
	}
	repo.Save(inv)

	got, found := repo.Get("inv-1")
	assert.True(t, found)
	assert.Equal(t, "alice", got.From)
	assert.Equal(t, "bob", got.To)

	repo.Delete("inv-1")
	_, found = repo.Get("inv-1")
	assert.False(t, found)
}

func TestInvitationRepositoryMissingId(t *testing.T) {
	repo := NewInvitationRepository()

	got, found := repo.Get("never-issued")
	assert.False(t, found)
	assert.Nil(t, got)

	// Deleting an unknown id is a no-op.
	repo.Delete("never-issued")
}
