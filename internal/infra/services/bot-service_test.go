package services

import (
	"context"
	"encoding/json"
	"testing"

	"expert-finder/internal/domain/dto"
	"expert-finder/internal/domain/entities"
	"expert-finder/internal/infra/logger"
	"expert-finder/internal/resources"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type botFixture struct {
	bot        *BotService
	connector  *fakeConnector
	dialog     *fakeDialog
	graph      *fakeGraph
	sharePoint *fakeSharePoint
	token      *fakeTokenService
	state      *fakeState
}

func newBotFixture() *botFixture {
	connector := &fakeConnector{}
	dialog := &fakeDialog{}
	graph := &fakeGraph{updateOK: true}
	sharePoint := &fakeSharePoint{}
	token := &fakeTokenService{apiToken: "signed-api-token"}
	state := newFakeState()
	bot := NewBotService(
		logger.NewLogger(context.Background(), true),
		connector, dialog, graph, sharePoint, token, state,
		"GraphConnection", "tenant-1", "https://bot.example.org", "insights-key", "https://sp.example.org/sites/hr/",
	)
	return &botFixture{bot: bot, connector: connector, dialog: dialog, graph: graph, sharePoint: sharePoint, token: token, state: state}
}

func invokeActivity(t *testing.T, name string, value any) *dto.Activity {
	t.Helper()
	payload, err := json.Marshal(value)
	require.NoError(t, err)
	return &dto.Activity{
		Type:         dto.ActivityTypeInvoke,
		Name:         name,
		Value:        payload,
		ServiceURL:   "https://smba.example.org/",
		From:         dto.ChannelAccount{ID: "29:user", AadObjectID: "aad-1"},
		Recipient:    dto.ChannelAccount{ID: "28:bot"},
		Conversation: dto.ConversationAccount{ID: "conv-1", TenantID: "tenant-1"},
	}
}

func TestBotRejectsForeignTenant(t *testing.T) {
	f := newBotFixture()
	activity := messageActivity("MY PROFILE")
	activity.Conversation.TenantID = "other-tenant"

	response, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)
	assert.Nil(t, response)

	assert.Equal(t, resources.InvalidTenantText, f.connector.lastSentText())
	assert.Empty(t, f.dialog.runs)
	assert.Empty(t, f.state.states)
}

func TestBotTenantGateIsCaseInsensitive(t *testing.T) {
	f := newBotFixture()
	activity := messageActivity("MY PROFILE")
	activity.Conversation.TenantID = "TENANT-1"

	_, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)
	assert.Len(t, f.dialog.runs, 1)
}

func TestBotMessageRunsDialogWithTyping(t *testing.T) {
	f := newBotFixture()

	_, err := f.bot.ProcessActivity(context.Background(), messageActivity("MY PROFILE"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.connector.typingCount)
	assert.Len(t, f.dialog.runs, 1)
	assert.Contains(t, f.state.states, "conv-1")
}

func TestBotMessageWithAttachmentsIsIgnored(t *testing.T) {
	f := newBotFixture()
	activity := messageActivity("")
	activity.Attachments = []dto.Attachment{{ContentType: "application/vnd.microsoft.card.adaptive"}}

	_, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)

	assert.Zero(t, f.connector.typingCount)
	assert.Empty(t, f.dialog.runs)
}

func TestBotWelcomesOnceOnMembersAdded(t *testing.T) {
	f := newBotFixture()
	activity := messageActivity("")
	activity.Type = dto.ActivityTypeConversationUpdate
	activity.Text = ""
	activity.MembersAdded = []dto.ChannelAccount{
		{ID: "28:bot"},
		{ID: "29:user"},
	}

	_, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)
	require.Len(t, f.connector.sent, 1)
	require.Len(t, f.connector.sent[0].Attachments, 1)
	assert.True(t, f.state.states["conv-1"].IsWelcomeSent)

	// A second add of the same user does not repeat the welcome.
	_, err = f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)
	assert.Len(t, f.connector.sent, 1)
}

func TestBotResetsWelcomeOnMembersRemoved(t *testing.T) {
	f := newBotFixture()
	f.state.states["conv-1"] = &entities.ConversationState{ConversationID: "conv-1", IsWelcomeSent: true, DialogStep: entities.DialogStepStart}

	activity := messageActivity("")
	activity.Type = dto.ActivityTypeConversationUpdate
	activity.MembersRemoved = []dto.ChannelAccount{{ID: "29:user"}}

	_, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)
	assert.False(t, f.state.states["conv-1"].IsWelcomeSent)
}

func TestBotTaskFetchSearchOpensWebTab(t *testing.T) {
	f := newBotFixture()
	f.token.userToken = "graph-token"

	activity := invokeActivity(t, dto.InvokeNameTaskFetch, map[string]any{
		"data": map[string]any{"command": dto.CommandSearch},
	})

	response, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)

	taskResponse, ok := response.(*dto.TaskModuleResponse)
	require.True(t, ok)
	require.NotNil(t, taskResponse.Task)
	info := taskResponse.Task.Value
	assert.Equal(t, resources.SearchTaskModuleTitle, info.Title)
	assert.Equal(t, 600, info.Height)
	assert.Equal(t, 600, info.Width)
	assert.Equal(t, "https://bot.example.org/?token=signed-api-token&telemetry=insights-key&theme={theme}", info.URL)
}

func TestBotTaskFetchWithoutTokenHandsOffToDialog(t *testing.T) {
	f := newBotFixture()
	f.token.userToken = ""

	activity := invokeActivity(t, dto.InvokeNameTaskFetch, map[string]any{
		"data": map[string]any{"command": dto.CommandSearch},
	})

	response, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)
	assert.Nil(t, response)

	assert.Equal(t, resources.NotLoginText, f.connector.sent[0].Text)
	assert.Len(t, f.dialog.runs, 1)
}

func TestBotTaskFetchMyProfileOpensEditForm(t *testing.T) {
	f := newBotFixture()
	f.token.userToken = "graph-token"
	f.graph.profile = &entities.UserProfile{ID: "aad-1", DisplayName: "Ada Lovelace"}

	activity := invokeActivity(t, dto.InvokeNameTaskFetch, map[string]any{
		"data": map[string]any{"command": dto.CommandMyProfile, "MyProfileCardId": "card-1"},
	})

	response, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)

	taskResponse, ok := response.(*dto.TaskModuleResponse)
	require.True(t, ok)
	info := taskResponse.Task.Value
	assert.Equal(t, resources.EditProfileTitle, info.Title)
	assert.Empty(t, info.URL)
	require.NotNil(t, info.Card)
}

func TestBotTaskSubmitSearchSharesSelectedProfiles(t *testing.T) {
	f := newBotFixture()

	activity := invokeActivity(t, dto.InvokeNameTaskSubmit, map[string]any{
		"data": map[string]any{
			"command": dto.CommandSearch,
			"userProfiles": []map[string]any{
				{"preferredName": "Ada Lovelace", "skills": "math"},
				{"preferredName": "Grace Hopper", "skills": "compilers"},
			},
		},
	})

	response, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)
	assert.Nil(t, response)

	require.Len(t, f.connector.sent, 2)
	assert.Len(t, f.connector.sent[0].Attachments, 1)
	assert.Empty(t, f.dialog.runs)
}

func TestBotTaskSubmitMyProfileGoesThroughDialog(t *testing.T) {
	f := newBotFixture()

	activity := invokeActivity(t, dto.InvokeNameTaskSubmit, map[string]any{
		"data": map[string]any{"command": dto.CommandMyProfile, "MyProfileCardId": "card-1"},
	})

	_, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)
	assert.Len(t, f.dialog.runs, 1)
}

func TestBotMessagingExtensionRequiresSignIn(t *testing.T) {
	f := newBotFixture()
	f.token.userToken = ""
	f.connector.signInLink = "https://login.example.org/signin"

	activity := invokeActivity(t, dto.InvokeNameComposeQuery, map[string]any{
		"commandId":  "skills",
		"parameters": []map[string]any{{"name": "searchText", "value": "rust"}},
	})

	response, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)

	meResponse, ok := response.(*dto.MessagingExtensionResponse)
	require.True(t, ok)
	assert.Equal(t, "auth", meResponse.ComposeExtension.Type)
	require.NotNil(t, meResponse.ComposeExtension.SuggestedActions)
	assert.Equal(t, "https://login.example.org/signin", meResponse.ComposeExtension.SuggestedActions.Actions[0].Value)
}

func TestBotMessagingExtensionInitialRun(t *testing.T) {
	f := newBotFixture()
	f.token.userToken = "sp-token"

	activity := invokeActivity(t, dto.InvokeNameComposeQuery, map[string]any{
		"commandId":  "skills",
		"parameters": []map[string]any{{"name": "initialRun", "value": "true"}},
	})

	response, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)

	meResponse, ok := response.(*dto.MessagingExtensionResponse)
	require.True(t, ok)
	assert.Equal(t, "message", meResponse.ComposeExtension.Type)
	assert.Equal(t, resources.DefaultCardContentME, meResponse.ComposeExtension.Text)
	assert.Zero(t, f.sharePoint.searchCalls)
}

func TestBotMessagingExtensionQueryRunsSearch(t *testing.T) {
	f := newBotFixture()
	f.token.userToken = "sp-token"
	f.sharePoint.results = []entities.ProfileSearchResult{
		{PreferredName: "Ada Lovelace", Skills: "math"},
	}

	activity := invokeActivity(t, dto.InvokeNameComposeQuery, map[string]any{
		"commandId":  "interests",
		"parameters": []map[string]any{{"name": "searchText", "value": "rust"}},
	})

	response, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)

	assert.Equal(t, "rust", f.sharePoint.gotText)
	assert.Equal(t, []string{"interests"}, f.sharePoint.gotFilters)

	meResponse, ok := response.(*dto.MessagingExtensionResponse)
	require.True(t, ok)
	assert.Equal(t, "result", meResponse.ComposeExtension.Type)
	assert.Equal(t, "list", meResponse.ComposeExtension.AttachmentLayout)
	require.Len(t, meResponse.ComposeExtension.Attachments, 1)
	require.NotNil(t, meResponse.ComposeExtension.Attachments[0].Preview)
}

func TestBotMessagingExtensionEmptyResultIsNotAnError(t *testing.T) {
	f := newBotFixture()
	f.token.userToken = "sp-token"
	f.sharePoint.results = nil

	activity := invokeActivity(t, dto.InvokeNameComposeQuery, map[string]any{
		"commandId":  "skills",
		"parameters": []map[string]any{{"name": "searchText", "value": "nothing"}},
	})

	response, err := f.bot.ProcessActivity(context.Background(), activity)
	require.NoError(t, err)

	meResponse, ok := response.(*dto.MessagingExtensionResponse)
	require.True(t, ok)
	assert.Equal(t, "result", meResponse.ComposeExtension.Type)
	assert.Empty(t, meResponse.ComposeExtension.Attachments)
}

type panickingDialog struct{}

func (panickingDialog) Run(ctx context.Context, activity *dto.Activity, state *entities.ConversationState) error {
	panic("turn blew up")
}

func TestBotRecoversFromPanicAndClearsState(t *testing.T) {
	f := newBotFixture()
	f.bot.Dialog = panickingDialog{}

	response, err := f.bot.ProcessActivity(context.Background(), messageActivity("MY PROFILE"))
	require.NoError(t, err)
	assert.Nil(t, response)

	assert.Equal(t, resources.ErrorMessageText, f.connector.lastSentText())
	assert.Equal(t, []string{"conv-1"}, f.state.cleared)
}
