package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"expert-finder/internal/cards"
	"expert-finder/internal/domain/dto"
	"expert-finder/internal/domain/entities"
	Iservices "expert-finder/internal/domain/interfaces/services"
	"expert-finder/internal/infra/logger"
	"expert-finder/internal/resources"
	"expert-finder/internal/util"

	"github.com/google/uuid"
)

// GraphResourceURL is the resource the dialog resolves user tokens for.
const GraphResourceURL = "https://graph.microsoft.com"

// SignInPromptTimeout bounds how long a sign-in prompt stays resumable.
// A prompt older than this is abandoned and the next activity starts a
// fresh dialog instead of resuming the stale one.
const SignInPromptTimeout = 5 * time.Minute

// Commands that terminate the stored sign-in, matched case-insensitively.
var logoutCommands = map[string]bool{
	"LOGOUT":   true,
	"SIGNOUT":  true,
	"LOG OUT":  true,
	"SIGN OUT": true,
}

// DialogService is the conversational waterfall: sign-in, command
// dispatch, profile display, profile edit and search card issuance.
// The cursor and the captured command live in the conversation state;
// every run completes exactly one action and resets the cursor.
type DialogService struct {
	Logger         *logger.Logger
	Connector      Iservices.IConnectorService
	Graph          Iservices.IGraphService
	Token          Iservices.ITokenService
	State          Iservices.IStateService
	ConnectionName string
}

func NewDialogService(
	log *logger.Logger,
	connector Iservices.IConnectorService,
	graph Iservices.IGraphService,
	token Iservices.ITokenService,
	state Iservices.IStateService,
	connectionName string,
) *DialogService {
	return &DialogService{
		Logger:         log,
		Connector:      connector,
		Graph:          graph,
		Token:          token,
		State:          state,
		ConnectionName: connectionName,
	}
}

// Run advances the waterfall by one turn. It wraps both dialog entry
// and continuation with the logout interruption check.
func (ds *DialogService) Run(ctx context.Context, activity *dto.Activity, state *entities.ConversationState) error {
	if interrupted, err := ds.interrupt(ctx, activity, state); interrupted {
		return err
	}

	switch state.DialogStep {
	case entities.DialogStepAwaitingAuth:
		if promptExpired(state) {
			state.ResetDialog()
			return ds.begin(ctx, activity, state)
		}
		return ds.resume(ctx, activity, state)
	default:
		return ds.begin(ctx, activity, state)
	}
}

// promptExpired reports whether the suspended sign-in prompt has aged
// past the resume window.
func promptExpired(state *entities.ConversationState) bool {
	return !state.PromptIssuedAt.IsZero() && time.Since(state.PromptIssuedAt) > SignInPromptTimeout
}

// interrupt handles the logout commands. A match revokes the stored
// sign-in, confirms, and cancels the active dialog.
func (ds *DialogService) interrupt(ctx context.Context, activity *dto.Activity, state *entities.ConversationState) (bool, error) {
	if activity.Type != dto.ActivityTypeMessage || activity.Text == "" {
		return false, nil
	}
	if !logoutCommands[strings.ToUpper(strings.TrimSpace(activity.Text))] {
		return false, nil
	}

	if err := ds.Connector.SignOut(ctx, activity.From.ID, ds.ConnectionName); err != nil {
		ds.Logger.Error(fmt.Sprintf("Failed to sign out user %s: %v", activity.From.ID, err))
	}
	state.ResetDialog()
	_, err := ds.Connector.SendActivity(ctx, activity.NewReply(resources.SignOutText))
	return true, err
}

// begin starts a fresh waterfall: reject unknown commands, capture the
// pending command, and either dispatch immediately (token already on
// file) or suspend behind the sign-in prompt.
func (ds *DialogService) begin(ctx context.Context, activity *dto.Activity, state *entities.ConversationState) error {
	command := ds.captureCommand(activity)

	// Unknown plain-text input ends the dialog with the help card; no
	// sign-in prompt is issued for unrecognized commands. The compare
	// is case-sensitive against the canonical tokens; empty text means
	// "no explicit command yet" (e.g. a sign-in callback) and passes.
	if activity.Type == dto.ActivityTypeMessage && activity.Text != "" {
		trimmed := strings.TrimSpace(activity.Text)
		if trimmed != dto.CommandMyProfile && trimmed != dto.CommandSearch {
			_, err := ds.Connector.SendActivity(ctx, activity.NewCardReply(cards.HelpCard()))
			return err
		}
	}

	state.PendingCommand = command

	token, err := ds.Token.UserToken(ctx, activity.From.ID, GraphResourceURL)
	if err != nil {
		ds.Logger.Error(fmt.Sprintf("Token resolution failed for conversation %s: %v", activity.Conversation.ID, err))
	}
	if token != "" {
		return ds.dispatch(ctx, activity, state, token)
	}

	signInLink, err := ds.Connector.SignInLink(ctx, activity, ds.ConnectionName)
	if err != nil {
		ds.Logger.Error(fmt.Sprintf("Failed to get sign-in link for conversation %s: %v", activity.Conversation.ID, err))
		_, sendErr := ds.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
		return sendErr
	}

	ds.Logger.Info(fmt.Sprintf("Sign-in card sent for conversation id: %s", activity.Conversation.ID))
	state.DialogStep = entities.DialogStepAwaitingAuth
	state.PromptIssuedAt = time.Now()
	_, err = ds.Connector.SendActivity(ctx, activity.NewCardReply(cards.SigninCard(signInLink)))
	return err
}

// resume re-enters the suspended waterfall with the outcome of the
// sign-in prompt.
func (ds *DialogService) resume(ctx context.Context, activity *dto.Activity, state *entities.ConversationState) error {
	magicCode := ds.magicCode(activity)
	token, err := ds.Connector.UserToken(ctx, activity.From.ID, ds.ConnectionName, magicCode)
	if err != nil {
		ds.Logger.Error(fmt.Sprintf("Token resolution failed on resume for conversation %s: %v", activity.Conversation.ID, err))
	}

	if token == "" {
		ds.Logger.Info(fmt.Sprintf("User is not authenticated and token is empty for: %s", activity.Conversation.ID))
		state.ResetDialog()
		_, err := ds.Connector.SendActivity(ctx, activity.NewReply(resources.NotLoginText))
		return err
	}

	return ds.dispatch(ctx, activity, state, token)
}

// dispatch performs exactly one action for the captured command and
// ends the dialog.
func (ds *DialogService) dispatch(ctx context.Context, activity *dto.Activity, state *entities.ConversationState, token string) error {
	command := state.PendingCommand
	state.ResetDialog()

	// A task-module submit resume is always an edit submission, no
	// matter which command was captured.
	if activity.Type == dto.ActivityTypeInvoke && activity.Name == dto.InvokeNameTaskSubmit {
		return ds.editProfile(ctx, activity, token)
	}

	switch command {
	case dto.CommandMyProfile:
		ds.Logger.Info(fmt.Sprintf("My profile command triggered by user %s", activity.From.ID))
		return ds.myProfile(ctx, activity, token)
	case dto.CommandSearch:
		ds.Logger.Info(fmt.Sprintf("Search command triggered by user %s", activity.From.ID))
		_, err := ds.Connector.SendActivity(ctx, activity.NewCardReply(cards.SearchCard()))
		return err
	default:
		return ds.editProfile(ctx, activity, token)
	}
}

// myProfile fetches and renders the profile card, persisting the
// card→activity binding for future in-place edits.
func (ds *DialogService) myProfile(ctx context.Context, activity *dto.Activity, token string) error {
	profile, err := ds.Graph.UserProfile(ctx, token)
	if err != nil {
		ds.Logger.Error(fmt.Sprintf("Error occurred while executing my profile for %s: %v", activity.Conversation.ID, err))
		_, sendErr := ds.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
		return sendErr
	}

	cardID := uuid.New().String()
	var attachment dto.Attachment
	if profile != nil {
		attachment = cards.MyProfileCard(profile, cardID)
	} else {
		ds.Logger.Info(fmt.Sprintf("User profile obtained from graph api is empty for: %s", activity.Conversation.ID))
		attachment = cards.EmptyProfileCard(cardID)
	}

	activityID, err := ds.Connector.SendActivity(ctx, activity.NewCardReply(attachment))
	if err != nil {
		return err
	}

	if !ds.State.UpsertCardActivity(ctx, cardID, activityID) {
		ds.Logger.Info(fmt.Sprintf("Saving card activity binding failed for: %s", activity.Conversation.ID))
		_, err := ds.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
		return err
	}
	return nil
}

// editProfile handles the task-module edit submission: parse the
// delimiter-joined fields, patch the profile, then re-render the
// original card in place.
func (ds *DialogService) editProfile(ctx context.Context, activity *dto.Activity, token string) error {
	action, err := dto.ParseCardAction(activity.Value)
	if err != nil {
		ds.Logger.Error(fmt.Sprintf("Error occurred while posting profile data for %s: %v", activity.Conversation.ID, err))
		_, sendErr := ds.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
		return sendErr
	}

	update := &entities.UserProfile{
		AboutMe:   action.AboutMe,
		Skills:    util.SplitList(action.Skills),
		Interests: util.SplitList(action.Interests),
		Schools:   util.SplitList(action.Schools),
	}

	if !ds.Graph.UpdateUserProfile(ctx, token, update) {
		ds.Logger.Info(fmt.Sprintf("Failure in saving profile data for: %s", activity.Conversation.ID))
		if _, err := ds.Connector.SendActivity(ctx, activity.NewReply(resources.FailedToUpdateText)); err != nil {
			return err
		}
	}

	profile, err := ds.Graph.UserProfile(ctx, token)
	if err != nil || profile == nil {
		ds.Logger.Error(fmt.Sprintf("Failed to re-fetch profile after update for %s: %v", activity.Conversation.ID, err))
		_, sendErr := ds.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
		return sendErr
	}

	binding, err := ds.State.CardActivity(ctx, action.CardID)
	if err != nil || binding == nil {
		ds.Logger.Error(fmt.Sprintf("No card activity binding found for card %s: %v", action.CardID, err))
		_, sendErr := ds.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
		return sendErr
	}

	updated := activity.NewCardReply(cards.MyProfileCard(profile, action.CardID))
	if err := ds.Connector.UpdateActivity(ctx, updated, binding.ActivityID); err != nil {
		ds.Logger.Error(fmt.Sprintf("Failed to update profile card in place for %s: %v", activity.Conversation.ID, err))
		_, sendErr := ds.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
		return sendErr
	}

	ds.Logger.Info(fmt.Sprintf("User profile updated for conversation id: %s", activity.Conversation.ID))
	return nil
}

// captureCommand extracts the pending command from the message text,
// falling back to the structured payload's command field when the
// activity carries no plain text.
func (ds *DialogService) captureCommand(activity *dto.Activity) string {
	if activity.Text != "" {
		return strings.ToUpper(strings.TrimSpace(activity.Text))
	}
	if len(activity.Value) == 0 {
		return ""
	}

	var payload struct {
		Command string `json:"command"`
		Data    struct {
			Command string `json:"command"`
		} `json:"data"`
	}
	if err := json.Unmarshal(activity.Value, &payload); err != nil {
		return ""
	}
	if payload.Command != "" {
		return strings.ToUpper(strings.TrimSpace(payload.Command))
	}
	return strings.ToUpper(strings.TrimSpace(payload.Data.Command))
}

// magicCode pulls the verification code from a signin/verifyState
// event, when present.
func (ds *DialogService) magicCode(activity *dto.Activity) string {
	if activity.Name != dto.InvokeNameSigninVerifyState || len(activity.Value) == 0 {
		return ""
	}
	var payload struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(activity.Value, &payload); err != nil {
		return ""
	}
	return payload.State
}
