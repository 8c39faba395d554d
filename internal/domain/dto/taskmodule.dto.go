package dto

import (
	"encoding/json"
	"fmt"

	"expert-finder/internal/domain/entities"
)

// Canonical command tokens carried in card actions and invoke payloads.
const (
	CommandMyProfile = "MY PROFILE"
	CommandSearch    = "SEARCH"
)

// CardAction is the payload attached to adaptive card submit actions.
// For edit submissions the free-text fields arrive as `;`-joined
// strings.
type CardAction struct {
	Command   string `json:"command"`
	CardID    string `json:"MyProfileCardId,omitempty"`
	AboutMe   string `json:"aboutMe,omitempty"`
	Skills    string `json:"skills,omitempty"`
	Interests string `json:"interests,omitempty"`
	Schools   string `json:"schools,omitempty"`
}

// TaskModuleRequest is the value of a task/fetch or task/submit invoke.
type TaskModuleRequest struct {
	Data json.RawMessage `json:"data,omitempty"`
}

// SearchSubmitAction is the task/submit payload from the search tab:
// the command plus the profiles the user picked to share.
type SearchSubmitAction struct {
	Command      string                         `json:"command"`
	UserProfiles []entities.ProfileSearchResult `json:"userProfiles"`
}

// ParseCardAction extracts the structured card action from an invoke
// activity value, which nests it under "data".
func ParseCardAction(value json.RawMessage) (*CardAction, error) {
	var request TaskModuleRequest
	if err := json.Unmarshal(value, &request); err != nil {
		return nil, fmt.Errorf("failed to parse task module request: %w", err)
	}
	if len(request.Data) == 0 {
		return nil, fmt.Errorf("task module request has no data payload")
	}
	var action CardAction
	if err := json.Unmarshal(request.Data, &action); err != nil {
		return nil, fmt.Errorf("failed to parse card action data: %w", err)
	}
	return &action, nil
}

// ParseSearchSubmitAction extracts the search tab submit payload from
// an invoke activity value.
func ParseSearchSubmitAction(value json.RawMessage) (*SearchSubmitAction, error) {
	var request TaskModuleRequest
	if err := json.Unmarshal(value, &request); err != nil {
		return nil, fmt.Errorf("failed to parse task module request: %w", err)
	}
	if len(request.Data) == 0 {
		return nil, fmt.Errorf("task module request has no data payload")
	}
	var action SearchSubmitAction
	if err := json.Unmarshal(request.Data, &action); err != nil {
		return nil, fmt.Errorf("failed to parse search submit data: %w", err)
	}
	return &action, nil
}

// TaskModuleResponse is the envelope returned to a task/fetch invoke.
type TaskModuleResponse struct {
	Task *TaskModuleContinueResponse `json:"task,omitempty"`
}

type TaskModuleContinueResponse struct {
	Type  string             `json:"type"`
	Value TaskModuleTaskInfo `json:"value"`
}

// TaskModuleTaskInfo describes the modal the client opens: either a
// URL (web tab) or an inline card.
type TaskModuleTaskInfo struct {
	Title  string      `json:"title,omitempty"`
	Height int         `json:"height,omitempty"`
	Width  int         `json:"width,omitempty"`
	URL    string      `json:"url,omitempty"`
	Card   *Attachment `json:"card,omitempty"`
}

// NewTaskModuleContinue wraps task info in the continue envelope.
func NewTaskModuleContinue(info TaskModuleTaskInfo) *TaskModuleResponse {
	return &TaskModuleResponse{
		Task: &TaskModuleContinueResponse{Type: "continue", Value: info},
	}
}
