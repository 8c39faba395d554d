package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"expert-finder/internal/cards"
	"expert-finder/internal/domain/dto"
	Iservices "expert-finder/internal/domain/interfaces/services"
	"expert-finder/internal/infra/logger"
	"expert-finder/internal/resources"
)

// APITokenLifetime bounds the credential embedded in the search tab URL.
const APITokenLifetime = 60 * time.Minute

// taskModuleHeight and taskModuleWidth size every modal this bot opens.
const (
	taskModuleHeight = 600
	taskModuleWidth  = 600
)

// BotService routes one inbound activity to the matching handler. All
// shapes funnel through the single dispatch in ProcessActivity; the
// conversation state is loaded at turn start and saved once at turn end.
type BotService struct {
	Logger            *logger.Logger
	Connector         Iservices.IConnectorService
	Dialog            Iservices.IDialogService
	Graph             Iservices.IGraphService
	SharePoint        Iservices.ISharePointService
	Token             Iservices.ITokenService
	State             Iservices.IStateService
	ConnectionName    string
	TenantID          string
	AppBaseURL        string
	AppInsightsKey    string
	SharePointSiteURL string
}

func NewBotService(
	log *logger.Logger,
	connector Iservices.IConnectorService,
	dialog Iservices.IDialogService,
	graph Iservices.IGraphService,
	sharePoint Iservices.ISharePointService,
	token Iservices.ITokenService,
	state Iservices.IStateService,
	connectionName, tenantID, appBaseURL, appInsightsKey, sharePointSiteURL string,
) *BotService {
	return &BotService{
		Logger:            log,
		Connector:         connector,
		Dialog:            dialog,
		Graph:             graph,
		SharePoint:        sharePoint,
		Token:             token,
		State:             state,
		ConnectionName:    connectionName,
		TenantID:          tenantID,
		AppBaseURL:        appBaseURL,
		AppInsightsKey:    appInsightsKey,
		SharePointSiteURL: sharePointSiteURL,
	}
}

// ProcessActivity is the per-turn entry point. A panic anywhere in the
// turn is contained here: it is logged, the user gets an apology, and
// the conversation state is dropped so the next turn starts clean.
func (bs *BotService) ProcessActivity(ctx context.Context, activity *dto.Activity) (response any, err error) {
	defer func() {
		if r := recover(); r != nil {
			bs.Logger.Error(fmt.Sprintf("Recovered from panic while processing activity for %s: %v", activity.Conversation.ID, r))
			if _, sendErr := bs.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText)); sendErr != nil {
				bs.Logger.Error(fmt.Sprintf("Failed to send error notice for %s: %v", activity.Conversation.ID, sendErr))
			}
			if clearErr := bs.State.ClearConversationState(ctx, activity.Conversation.ID); clearErr != nil {
				bs.Logger.Error(fmt.Sprintf("Failed to clear conversation state for %s: %v", activity.Conversation.ID, clearErr))
			}
			response, err = nil, nil
		}
	}()

	if !bs.tenantAllowed(activity) {
		bs.Logger.Info(fmt.Sprintf("Rejected activity from tenant %s", activity.Conversation.TenantID))
		_, err := bs.Connector.SendActivity(ctx, activity.NewReply(resources.InvalidTenantText))
		return nil, err
	}

	switch activity.Kind() {
	case dto.KindMessage:
		return nil, bs.onMessage(ctx, activity)
	case dto.KindSigninVerifyState:
		return nil, bs.runDialog(ctx, activity)
	case dto.KindMembersAdded:
		return nil, bs.onMembersAdded(ctx, activity)
	case dto.KindMembersRemoved:
		return nil, bs.onMembersRemoved(ctx, activity)
	case dto.KindTaskModuleFetch:
		return bs.onTaskModuleFetch(ctx, activity)
	case dto.KindTaskModuleSubmit:
		return nil, bs.onTaskModuleSubmit(ctx, activity)
	case dto.KindMessagingExtensionQuery:
		return bs.onMessagingExtensionQuery(ctx, activity)
	default:
		bs.Logger.Debug(fmt.Sprintf("Ignoring unhandled activity type %s for %s", activity.Type, activity.Conversation.ID))
		return nil, nil
	}
}

// tenantAllowed gates every turn on the configured tenant. The compare
// is case-insensitive; mismatches get a notice and nothing else.
func (bs *BotService) tenantAllowed(activity *dto.Activity) bool {
	return strings.EqualFold(activity.Conversation.TenantID, bs.TenantID)
}

func (bs *BotService) onMessage(ctx context.Context, activity *dto.Activity) error {
	// Card attachments posted back through the compose extension carry
	// no command; there is nothing to do with them.
	if len(activity.Attachments) > 0 {
		return nil
	}
	bs.Connector.SendTyping(ctx, activity)
	return bs.runDialog(ctx, activity)
}

// onMembersAdded greets the conversation the first time a non-bot
// member shows up. The flag keeps re-adds from repeating the welcome.
func (bs *BotService) onMembersAdded(ctx context.Context, activity *dto.Activity) error {
	for _, member := range activity.MembersAdded {
		if member.ID == activity.Recipient.ID {
			continue
		}

		state := bs.State.ConversationState(ctx, activity.Conversation.ID)
		if state.IsWelcomeSent {
			return nil
		}
		if _, err := bs.Connector.SendActivity(ctx, activity.NewCardReply(cards.WelcomeCard(bs.AppBaseURL))); err != nil {
			return err
		}
		state.IsWelcomeSent = true
		return bs.State.SaveConversationState(ctx, state)
	}
	return nil
}

// onMembersRemoved resets the welcome flag so a re-added user is
// greeted again.
func (bs *BotService) onMembersRemoved(ctx context.Context, activity *dto.Activity) error {
	for _, member := range activity.MembersRemoved {
		if member.ID == activity.Recipient.ID {
			continue
		}
		state := bs.State.ConversationState(ctx, activity.Conversation.ID)
		state.IsWelcomeSent = false
		return bs.State.SaveConversationState(ctx, state)
	}
	return nil
}

// onTaskModuleFetch opens the modal matching the invoking card action:
// the search web tab with a fresh signed credential, or the profile
// edit form pre-filled from the directory.
func (bs *BotService) onTaskModuleFetch(ctx context.Context, activity *dto.Activity) (any, error) {
	action, err := dto.ParseCardAction(activity.Value)
	if err != nil {
		bs.Logger.Error(fmt.Sprintf("Failed to parse task module fetch for %s: %v", activity.Conversation.ID, err))
		_, sendErr := bs.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
		return nil, sendErr
	}

	token, err := bs.Token.UserToken(ctx, activity.From.ID, GraphResourceURL)
	if err != nil || token == "" {
		if _, sendErr := bs.Connector.SendActivity(ctx, activity.NewReply(resources.NotLoginText)); sendErr != nil {
			return nil, sendErr
		}
		// Hand the turn to the dialog so the sign-in prompt goes out
		// and the command is captured for after authentication.
		return nil, bs.runDialog(ctx, activity)
	}

	switch action.Command {
	case dto.CommandSearch:
		apiToken, err := bs.Token.IssueAPIToken(activity.From.AadObjectID, activity.ServiceURL, activity.From.ID, APITokenLifetime)
		if err != nil {
			bs.Logger.Error(fmt.Sprintf("Failed to issue api token for %s: %v", activity.Conversation.ID, err))
			_, sendErr := bs.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
			return nil, sendErr
		}
		// {theme} is substituted client-side by the Teams host.
		tabURL := fmt.Sprintf("%s/?token=%s&telemetry=%s&theme={theme}", bs.AppBaseURL, apiToken, bs.AppInsightsKey)
		return dto.NewTaskModuleContinue(dto.TaskModuleTaskInfo{
			Title:  resources.SearchTaskModuleTitle,
			Height: taskModuleHeight,
			Width:  taskModuleWidth,
			URL:    tabURL,
		}), nil

	case dto.CommandMyProfile:
		profile, err := bs.Graph.UserProfile(ctx, token)
		if err != nil || profile == nil {
			bs.Logger.Error(fmt.Sprintf("Failed to load profile for edit form for %s: %v", activity.Conversation.ID, err))
			_, sendErr := bs.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
			return nil, sendErr
		}
		card := cards.EditProfileCard(profile, action.CardID)
		return dto.NewTaskModuleContinue(dto.TaskModuleTaskInfo{
			Title:  resources.EditProfileTitle,
			Height: taskModuleHeight,
			Width:  taskModuleWidth,
			Card:   &card,
		}), nil

	default:
		bs.Logger.Error(fmt.Sprintf("Unknown task module command %q for %s", action.Command, activity.Conversation.ID))
		_, sendErr := bs.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
		return nil, sendErr
	}
}

// onTaskModuleSubmit routes the modal result: profile edits go through
// the dialog so they hit the in-place card update, search selections
// are posted as one detail card per chosen profile.
func (bs *BotService) onTaskModuleSubmit(ctx context.Context, activity *dto.Activity) error {
	action, err := dto.ParseCardAction(activity.Value)
	if err != nil {
		bs.Logger.Error(fmt.Sprintf("Failed to parse task module submit for %s: %v", activity.Conversation.ID, err))
		_, sendErr := bs.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
		return sendErr
	}

	if action.Command != dto.CommandSearch {
		return bs.runDialog(ctx, activity)
	}

	submit, err := dto.ParseSearchSubmitAction(activity.Value)
	if err != nil {
		bs.Logger.Error(fmt.Sprintf("Failed to parse search submit for %s: %v", activity.Conversation.ID, err))
		_, sendErr := bs.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
		return sendErr
	}

	activities := make([]*dto.Activity, 0, len(submit.UserProfiles))
	for _, profile := range submit.UserProfiles {
		activities = append(activities, activity.NewCardReply(cards.UserDetailCard(profile)))
	}
	if err := bs.Connector.SendActivities(ctx, activities); err != nil {
		bs.Logger.Error(fmt.Sprintf("Failed to share search results for %s: %v", activity.Conversation.ID, err))
		_, sendErr := bs.Connector.SendActivity(ctx, activity.NewReply(resources.ErrorMessageText))
		return sendErr
	}
	return nil
}

// onMessagingExtensionQuery serves the compose-extension search box:
// an auth prompt until the user has a token, a hint on the initial
// run, and a preview/detail result list for real queries.
func (bs *BotService) onMessagingExtensionQuery(ctx context.Context, activity *dto.Activity) (any, error) {
	var query dto.MessagingExtensionQuery
	if err := json.Unmarshal(activity.Value, &query); err != nil {
		bs.Logger.Error(fmt.Sprintf("Failed to parse messaging extension query for %s: %v", activity.Conversation.ID, err))
		return messageResult(resources.ErrorMessageText), nil
	}

	token, err := bs.Token.UserToken(ctx, activity.From.ID, bs.SharePointSiteURL)
	if err != nil || token == "" {
		link, linkErr := bs.Connector.SignInLink(ctx, activity, bs.ConnectionName)
		if linkErr != nil {
			bs.Logger.Error(fmt.Sprintf("Failed to get sign-in link for messaging extension for %s: %v", activity.Conversation.ID, linkErr))
			return messageResult(resources.ErrorMessageText), nil
		}
		return authResult(link), nil
	}

	searchText, initialRun := queryParameters(&query)
	if initialRun {
		return messageResult(resources.DefaultCardContentME), nil
	}

	var filters []string
	if query.CommandID != "" {
		filters = []string{query.CommandID}
	}
	results, err := bs.SharePoint.UserProfiles(ctx, searchText, filters, token, bs.SharePointSiteURL)
	if err != nil {
		bs.Logger.Error(fmt.Sprintf("Messaging extension search failed for %s: %v", activity.Conversation.ID, err))
		return messageResult(resources.ErrorMessageText), nil
	}
	if len(results) == 0 {
		bs.Logger.Info(fmt.Sprintf("Messaging extension search returned no results for %q", searchText))
	}

	return &dto.MessagingExtensionResponse{
		ComposeExtension: &dto.MessagingExtensionResult{
			Type:             "result",
			AttachmentLayout: "list",
			Attachments:      cards.MessagingExtensionCards(results, query.CommandID),
		},
	}, nil
}

// runDialog wraps one dialog turn with the state load and save.
func (bs *BotService) runDialog(ctx context.Context, activity *dto.Activity) error {
	state := bs.State.ConversationState(ctx, activity.Conversation.ID)
	if err := bs.Dialog.Run(ctx, activity, state); err != nil {
		return err
	}
	return bs.State.SaveConversationState(ctx, state)
}

// queryParameters pulls the search text out of the query, flagging the
// client's initial-run probe.
func queryParameters(query *dto.MessagingExtensionQuery) (searchText string, initialRun bool) {
	for _, parameter := range query.Parameters {
		if parameter.Name == dto.MessagingExtensionInitialParameterName {
			return "", parameter.Value == "true"
		}
		searchText = parameter.Value
	}
	return searchText, false
}

func messageResult(text string) *dto.MessagingExtensionResponse {
	return &dto.MessagingExtensionResponse{
		ComposeExtension: &dto.MessagingExtensionResult{
			Type: "message",
			Text: text,
		},
	}
}

func authResult(signInLink string) *dto.MessagingExtensionResponse {
	return &dto.MessagingExtensionResponse{
		ComposeExtension: &dto.MessagingExtensionResult{
			Type: "auth",
			SuggestedActions: &dto.MessagingExtensionSuggestedAction{
				Actions: []dto.MessagingExtensionAction{
					{Type: "openUrl", Title: resources.SignInButtonText, Value: signInLink},
				},
			},
		},
	}
}
