package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pingchat/internal/config"
	"pingchat/internal/dbmongo"
)

var testConfig *config.Config

func TestMain(m *testing.M) {
	testConfig = &config.Config{
		MongoDB: config.MongoDBConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: getEnvOrDefault("MONGO_USERNAME", ""),
			Password: getEnvOrDefault("MONGO_PASSWORD", ""),
			Database: getEnvOrDefault("MONGO_DATABASE", "pingchat_test"),
		},
	}

	os.Exit(m.Run())
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// connectOrSkip needs a replica-set MongoDB: transactions and change
// streams are not available on a standalone server.
func connectOrSkip(t *testing.T) *dbmongo.MongoClient {
	t.Helper()
	if os.Getenv("MONGO_INTEGRATION") == "" {
		t.Skip("set MONGO_INTEGRATION=1 to run MongoDB integration tests")
	}

	client, err := dbmongo.NewMongoConnection(testConfig)
	require.NoError(t, err, "failed to connect to MongoDB")
	t.Cleanup(func() {
		client.Close(context.Background())
	})
	return client
}

func TestConversationRepository_AppendWritesBothCopies(t *testing.T) {
	client := connectOrSkip(t)
	repo := NewConversationRepository(client)
	ctx := context.Background()

	alice, bob := uuid.NewString(), uuid.NewString()

	sent, err := repo.Append(ctx, alice, bob, "hi")
	require.NoError(t, err)
	require.Equal(t, alice, sent.SenderID)
	require.Equal(t, bob, sent.RecipientID)
	require.Equal(t, "hi", sent.Text)

	aliceSide, err := repo.List(ctx, alice, bob)
	require.NoError(t, err)
	bobSide, err := repo.List(ctx, bob, alice)
	require.NoError(t, err)

	require.Len(t, aliceSide, 1)
	require.Len(t, bobSide, 1)

	// Twin copies: identical payload, distinct identifiers
	assert.NotEqual(t, aliceSide[0].ID, bobSide[0].ID)
	assert.Equal(t, aliceSide[0].SenderID, bobSide[0].SenderID)
	assert.Equal(t, aliceSide[0].RecipientID, bobSide[0].RecipientID)
	assert.Equal(t, aliceSide[0].Text, bobSide[0].Text)
	assert.True(t, aliceSide[0].CreatedAt.Equal(bobSide[0].CreatedAt))
}

func TestConversationRepository_ListAscendingByCreationTime(t *testing.T) {
	client := connectOrSkip(t)
	repo := NewConversationRepository(client)
	ctx := context.Background()

	alice, bob := uuid.NewString(), uuid.NewString()

	for _, text := range []string{"one", "two", "three"} {
		_, err := repo.Append(ctx, alice, bob, text)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	messages, err := repo.List(ctx, alice, bob)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "one", messages[0].Text)
	assert.Equal(t, "two", messages[1].Text)
	assert.Equal(t, "three", messages[2].Text)
	assert.True(t, !messages[2].CreatedAt.Before(messages[0].CreatedAt))
}

func TestConversationRepository_DeleteLeavesTwinIntact(t *testing.T) {
	client := connectOrSkip(t)
	repo := NewConversationRepository(client)
	ctx := context.Background()

	alice, bob := uuid.NewString(), uuid.NewString()

	sent, err := repo.Append(ctx, alice, bob, "doomed")
	require.NoError(t, err)

	// The id is only deletable through the owner's subtree
	require.NoError(t, repo.Delete(ctx, bob, sent.ID))
	stillThere, err := repo.List(ctx, alice, bob)
	require.NoError(t, err)
	require.Len(t, stillThere, 1)

	require.NoError(t, repo.Delete(ctx, alice, sent.ID))

	aliceSide, err := repo.List(ctx, alice, bob)
	require.NoError(t, err)
	assert.Empty(t, aliceSide)

	// The recipient's copy is untouched
	bobSide, err := repo.List(ctx, bob, alice)
	require.NoError(t, err)
	require.Len(t, bobSide, 1)
	assert.Equal(t, "doomed", bobSide[0].Text)
}

func TestConversationRepository_SubscribeDeliversNewMessageLast(t *testing.T) {
	client := connectOrSkip(t)
	repo := NewConversationRepository(client)
	ctx := context.Background()

	alice, bob := uuid.NewString(), uuid.NewString()

	_, err := repo.Append(ctx, alice, bob, "existing")
	require.NoError(t, err)

	sub, err := repo.Subscribe(ctx, alice, bob)
	require.NoError(t, err)
	defer sub.Cancel()

	// Initial snapshot on establishment
	select {
	case snapshot := <-sub.Updates():
		require.Len(t, snapshot, 1)
		assert.Equal(t, "existing", snapshot[0].Text)
	case <-time.After(10 * time.Second):
		t.Fatal("no initial snapshot")
	}

	_, err = repo.Append(ctx, alice, bob, "fresh")
	require.NoError(t, err)

	deadline := time.After(10 * time.Second)
	for {
		select {
		case snapshot := <-sub.Updates():
			if len(snapshot) == 2 {
				assert.Equal(t, "fresh", snapshot[len(snapshot)-1].Text)
				return
			}
		case <-deadline:
			t.Fatal("no snapshot containing the new message")
		}
	}
}

func TestConversationRepository_NoDeliveryAfterCancel(t *testing.T) {
	client := connectOrSkip(t)
	repo := NewConversationRepository(client)
	ctx := context.Background()

	alice, bob := uuid.NewString(), uuid.NewString()

	sub, err := repo.Subscribe(ctx, alice, bob)
	require.NoError(t, err)

	select {
	case <-sub.Updates():
	case <-time.After(10 * time.Second):
		t.Fatal("no initial snapshot")
	}

	sub.Cancel()

	_, err = repo.Append(ctx, alice, bob, "after cancel")
	require.NoError(t, err)

	select {
	case snapshot := <-sub.Updates():
		t.Fatalf("unexpected delivery after cancel: %d messages", len(snapshot))
	case <-time.After(2 * time.Second):
	}
}
