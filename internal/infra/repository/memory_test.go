package repository

import (
	"context"
	"testing"

	"expert-finder/internal/domain/entities"
	Irepository "expert-finder/internal/domain/interfaces/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryUpsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[entities.ConversationState]()

	state := entities.ConversationState{ConversationID: "conv-1", IsWelcomeSent: true}
	_, err := repo.Upsert(ctx, "ConversationState", "conv-1", state)
	require.NoError(t, err)

	found, err := repo.FindByKey(ctx, "ConversationState", "conv-1")
	require.NoError(t, err)
	assert.Equal(t, state, found)
}

func TestMemoryRepositoryUpsertIsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[entities.CardActivityInfo]()

	first := entities.CardActivityInfo{CardID: "card-1", ActivityID: "act-1"}
	second := entities.CardActivityInfo{CardID: "card-1", ActivityID: "act-2"}

	_, err := repo.Upsert(ctx, "UserProfileActivityInfo", "card-1", first)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "UserProfileActivityInfo", "card-1", second)
	require.NoError(t, err)

	found, err := repo.FindByKey(ctx, "UserProfileActivityInfo", "card-1")
	require.NoError(t, err)
	assert.Equal(t, "act-2", found.ActivityID)
}

func TestMemoryRepositoryFindMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[entities.ConversationState]()

	_, err := repo.FindByKey(ctx, "ConversationState", "missing")
	assert.ErrorIs(t, err, Irepository.ErrNotFound)
}

func TestMemoryRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[entities.ConversationState]()

	_, err := repo.Upsert(ctx, "ConversationState", "conv-1", entities.ConversationState{ConversationID: "conv-1"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "ConversationState", "conv-1"))

	_, err = repo.FindByKey(ctx, "ConversationState", "conv-1")
	assert.ErrorIs(t, err, Irepository.ErrNotFound)

	// Deleting from a collection that was never written is a no-op.
	assert.NoError(t, repo.Delete(ctx, "Other", "key"))
}
