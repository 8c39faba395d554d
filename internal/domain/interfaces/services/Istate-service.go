package Iservices

import (
	"context"

	"expert-finder/internal/domain/entities"
)

// IStateService owns the per-conversation bookkeeping: the welcome
// flag and dialog cursor, and the card→activity bindings used for
// in-place card edits.
type IStateService interface {
	// ConversationState returns the stored state or a fresh zero state
	// when none exists yet.
	ConversationState(ctx context.Context, conversationID string) *entities.ConversationState
	SaveConversationState(ctx context.Context, state *entities.ConversationState) error
	ClearConversationState(ctx context.Context, conversationID string) error

	// UpsertCardActivity is last-write-wins on cardID; false signals a
	// storage-write failure (non-fatal to the turn).
	UpsertCardActivity(ctx context.Context, cardID, activityID string) bool
	CardActivity(ctx context.Context, cardID string) (*entities.CardActivityInfo, error)
}
