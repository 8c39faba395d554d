package Iservices

import (
	"context"

	"expert-finder/internal/domain/dto"
	"expert-finder/internal/domain/entities"
)

// IDialogService runs the conversational waterfall for one turn. The
// caller owns loading and saving the conversation state around the
// call.
type IDialogService interface {
	Run(ctx context.Context, activity *dto.Activity, state *entities.ConversationState) error
}
