package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/repository/unitofwork"
	"krackenx-chat-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	return unitofwork.NewRepositoryFactory(gormDB)
}

func createTestUser(t *testing.T, uow unitofwork.UnitOfWork, prefix string) *entity.User {
	t.Helper()
	suffix := time.Now().UnixNano()
	user := &entity.User{
		Username:  fmt.Sprintf("%s-%d", prefix, suffix),
		Email:     fmt.Sprintf("%s-%d@example.com", prefix, suffix),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, uow.UserRepository().Create(context.Background(), user))
	return user
}

func TestGormConnection(t *testing.T) {
	uowFactory := setupFactory(t)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.RoomRepository())
	assert.NotNil(t, uow.MessageRepository())
	assert.NotNil(t, uow.FriendRepository())

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})
}

func TestDirectRoomLifecycle(t *testing.T) {
	uowFactory := setupFactory(t)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	a := createTestUser(t, uow, "direct-a")
	b := createTestUser(t, uow, "direct-b")
	defer uow.UserRepository().DeleteByIds(ctx, []uint{a.Id, b.Id})

	minId, maxId := a.Id, b.Id
	if minId > maxId {
		minId, maxId = maxId, minId
	}

	// No room yet
	room, err := uow.RoomRepository().FindDirectRoomByPair(ctx, minId, maxId)
	require.NoError(t, err)
	require.Nil(t, room)

	// Create + both memberships
	room = &entity.Room{
		Name:      fmt.Sprintf("Direct %d-%d", minId, maxId),
		RoomType:  entity.RoomTypeDirect,
		CreatedBy: &minId,
		CreatedAt: time.Now(),
	}
	require.NoError(t, uow.RoomRepository().Create(ctx, room))
	require.NoError(t, uow.RoomRepository().AddParticipant(ctx, room.Id, minId))
	require.NoError(t, uow.RoomRepository().AddParticipant(ctx, room.Id, maxId))

	// Re-adding a participant is a no-op, not an error
	require.NoError(t, uow.RoomRepository().AddParticipant(ctx, room.Id, minId))

	// Pair lookup finds it regardless of argument order at the service layer
	found, err := uow.RoomRepository().FindDirectRoomByPair(ctx, minId, maxId)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, room.Id, found.Id)

	rooms, err := uow.RoomRepository().ListRoomsForUser(ctx, a.Id)
	require.NoError(t, err)
	assert.NotEmpty(t, rooms)
}

func TestMessageHistoryOrdering(t *testing.T) {
	uowFactory := setupFactory(t)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	user := createTestUser(t, uow, "history")
	defer uow.UserRepository().DeleteByIds(ctx, []uint{user.Id})

	room := &entity.Room{
		Name:      fmt.Sprintf("history-%d", time.Now().UnixNano()),
		RoomType:  entity.RoomTypeDirect,
		CreatedAt: time.Now(),
	}
	require.NoError(t, uow.RoomRepository().Create(ctx, room))
	defer uow.MessageRepository().DeleteByRoom(ctx, room.Id)

	for i := 0; i < 3; i++ {
		msg := &entity.Message{
			UserId:  user.Id,
			RoomId:  room.Id,
			Content: fmt.Sprintf("message %d", i),
		}
		require.NoError(t, uow.MessageRepository().Create(ctx, msg))
		assert.NotZero(t, msg.Id)
	}

	history, err := uow.MessageRepository().FindRecentByRoom(ctx, room.Id, 50)
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Oldest first, usernames resolved
	assert.Equal(t, "message 0", history[0].Content)
	assert.Equal(t, "message 2", history[2].Content)
	for _, m := range history {
		assert.Equal(t, user.Username, m.Username)
	}

	// Limit trims from the old end
	limited, err := uow.MessageRepository().FindRecentByRoom(ctx, room.Id, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "message 1", limited[0].Content)
	assert.Equal(t, "message 2", limited[1].Content)
}

func TestFriendPairCanonicalOrder(t *testing.T) {
	uowFactory := setupFactory(t)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	a := createTestUser(t, uow, "friend-a")
	b := createTestUser(t, uow, "friend-b")
	defer uow.UserRepository().DeleteByIds(ctx, []uint{a.Id, b.Id})

	minId, maxId := a.Id, b.Id
	if minId > maxId {
		minId, maxId = maxId, minId
	}

	require.NoError(t, uow.FriendRepository().UpsertPending(ctx, minId, maxId))
	// Duplicate upsert is swallowed by the unique pair index
	require.NoError(t, uow.FriendRepository().UpsertPending(ctx, minId, maxId))

	require.NoError(t, uow.FriendRepository().UpdatePairStatus(ctx, minId, maxId, entity.FriendStatusAccepted))

	// Both directions see the accepted relationship
	forA, err := uow.FriendRepository().ListForUser(ctx, a.Id)
	require.NoError(t, err)
	forB, err := uow.FriendRepository().ListForUser(ctx, b.Id)
	require.NoError(t, err)

	assert.Len(t, forA, 1)
	assert.Len(t, forB, 1)
	assert.Equal(t, b.Username, forA[0].Username)
	assert.Equal(t, a.Username, forB[0].Username)
	assert.Equal(t, entity.FriendStatusAccepted, forA[0].Status)
}
