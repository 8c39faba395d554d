package entities

import "time"

// DialogStep is the explicit cursor of the conversational waterfall.
type DialogStep string

const (
	// DialogStepStart means no waterfall is active for the conversation.
	DialogStepStart DialogStep = "start"
	// DialogStepAwaitingAuth means a sign-in card was sent and the
	// waterfall is suspended until a token (or timeout) comes back.
	DialogStepAwaitingAuth DialogStep = "awaiting_auth"
)

// ConversationState is the per-conversation bookkeeping loaded at the
// start of every turn and saved once at the end.
type ConversationState struct {
	ConversationID string     `json:"conversation_id" bson:"conversation_id"`
	IsWelcomeSent  bool       `json:"is_welcome_sent" bson:"is_welcome_sent"`
	DialogStep     DialogStep `json:"dialog_step" bson:"dialog_step"`
	PendingCommand string     `json:"pending_command" bson:"pending_command"`
	PromptIssuedAt time.Time  `json:"prompt_issued_at,omitempty" bson:"prompt_issued_at,omitempty"`
}

// NewConversationState returns the zero state for a conversation.
func NewConversationState(conversationID string) *ConversationState {
	return &ConversationState{
		ConversationID: conversationID,
		DialogStep:     DialogStepStart,
	}
}

// ResetDialog clears the waterfall cursor and any captured command.
func (s *ConversationState) ResetDialog() {
	s.DialogStep = DialogStepStart
	s.PendingCommand = ""
	s.PromptIssuedAt = time.Time{}
}
