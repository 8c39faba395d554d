package services

import (
	"context"
	"errors"
	"fmt"

	"expert-finder/internal/domain/entities"
	Irepository "expert-finder/internal/domain/interfaces/repository"
	"expert-finder/internal/infra/logger"
)

// Collections used by the state service.
const (
	ConversationStateCollection = "ConversationState"
	CardActivityCollection      = "UserProfileActivityInfo"
)

// StateService is the conversation bookkeeping layer: welcome flag and
// dialog cursor per conversation, and card→activity bindings keyed by
// card id. State is loaded at turn start and saved once at turn end.
type StateService struct {
	ConversationRepository Irepository.Repository[entities.ConversationState]
	CardActivityRepository Irepository.Repository[entities.CardActivityInfo]
	Logger                 *logger.Logger
}

func NewStateService(
	conversationRepository Irepository.Repository[entities.ConversationState],
	cardActivityRepository Irepository.Repository[entities.CardActivityInfo],
	log *logger.Logger,
) *StateService {
	return &StateService{
		ConversationRepository: conversationRepository,
		CardActivityRepository: cardActivityRepository,
		Logger:                 log,
	}
}

// ConversationState loads the stored state, or a fresh zero state when
// the conversation has none yet.
func (ss *StateService) ConversationState(ctx context.Context, conversationID string) *entities.ConversationState {
	state, err := ss.ConversationRepository.FindByKey(ctx, ConversationStateCollection, conversationID)
	if err != nil {
		if !errors.Is(err, Irepository.ErrNotFound) {
			ss.Logger.Error(fmt.Sprintf("Failed to load conversation state for %s: %v", conversationID, err))
		}
		return entities.NewConversationState(conversationID)
	}
	return &state
}

func (ss *StateService) SaveConversationState(ctx context.Context, state *entities.ConversationState) error {
	_, err := ss.ConversationRepository.Upsert(ctx, ConversationStateCollection, state.ConversationID, *state)
	if err != nil {
		ss.Logger.Error(fmt.Sprintf("Failed to save conversation state for %s: %v", state.ConversationID, err))
	}
	return err
}

// ClearConversationState drops the stored state so a broken
// conversation starts clean on its next turn.
func (ss *StateService) ClearConversationState(ctx context.Context, conversationID string) error {
	return ss.ConversationRepository.Delete(ctx, ConversationStateCollection, conversationID)
}

// UpsertCardActivity stores the card→activity binding, replacing any
// prior record at the card id (last-write-wins).
func (ss *StateService) UpsertCardActivity(ctx context.Context, cardID, activityID string) bool {
	partitionKey, rowKey := entities.CardActivityKeys(cardID)
	record := entities.CardActivityInfo{
		PartitionKey: partitionKey,
		CardID:       cardID,
		ActivityID:   activityID,
	}
	if _, err := ss.CardActivityRepository.Upsert(ctx, CardActivityCollection, rowKey, record); err != nil {
		ss.Logger.Error(fmt.Sprintf("Failed to save card activity binding for card %s: %v", cardID, err))
		return false
	}
	return true
}

// CardActivity returns the binding for the card id, or nil when none
// was stored.
func (ss *StateService) CardActivity(ctx context.Context, cardID string) (*entities.CardActivityInfo, error) {
	_, rowKey := entities.CardActivityKeys(cardID)
	record, err := ss.CardActivityRepository.FindByKey(ctx, CardActivityCollection, rowKey)
	if errors.Is(err, Irepository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
