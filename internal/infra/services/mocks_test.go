package services

import (
	"context"
	"time"

	"expert-finder/internal/domain/dto"
	"expert-finder/internal/domain/entities"
	Iservices "expert-finder/internal/domain/interfaces/services"
)

// Hand-written fakes for the service interfaces. Each records enough
// of the calls it receives for the assertions in this package.

type fakeConnector struct {
	sent         []*dto.Activity
	updated      []*dto.Activity
	updatedIDs   []string
	typingCount  int
	signOutUsers []string

	userToken    string
	userTokenErr error
	signInLink   string
	signInErr    error
	sendErr      error
}

func (fc *fakeConnector) SendActivity(ctx context.Context, activity *dto.Activity) (string, error) {
	if fc.sendErr != nil {
		return "", fc.sendErr
	}
	fc.sent = append(fc.sent, activity)
	return "activity-" + string(rune('a'+len(fc.sent)-1)), nil
}

func (fc *fakeConnector) UpdateActivity(ctx context.Context, activity *dto.Activity, activityID string) error {
	fc.updated = append(fc.updated, activity)
	fc.updatedIDs = append(fc.updatedIDs, activityID)
	return nil
}

func (fc *fakeConnector) SendActivities(ctx context.Context, activities []*dto.Activity) error {
	if fc.sendErr != nil {
		return fc.sendErr
	}
	fc.sent = append(fc.sent, activities...)
	return nil
}

func (fc *fakeConnector) SendTyping(ctx context.Context, inbound *dto.Activity) {
	fc.typingCount++
}

func (fc *fakeConnector) UserToken(ctx context.Context, userID, connectionName, magicCode string) (string, error) {
	return fc.userToken, fc.userTokenErr
}

func (fc *fakeConnector) SignOut(ctx context.Context, userID, connectionName string) error {
	fc.signOutUsers = append(fc.signOutUsers, userID)
	return nil
}

func (fc *fakeConnector) SignInLink(ctx context.Context, activity *dto.Activity, connectionName string) (string, error) {
	return fc.signInLink, fc.signInErr
}

// lastSentText returns the text of the most recent outgoing activity.
func (fc *fakeConnector) lastSentText() string {
	if len(fc.sent) == 0 {
		return ""
	}
	return fc.sent[len(fc.sent)-1].Text
}

type fakeGraph struct {
	profile    *entities.UserProfile
	profileErr error
	updateOK   bool
	updates    []*entities.UserProfile
}

func (fg *fakeGraph) UserProfile(ctx context.Context, token string) (*entities.UserProfile, error) {
	return fg.profile, fg.profileErr
}

func (fg *fakeGraph) UpdateUserProfile(ctx context.Context, token string, profile *entities.UserProfile) bool {
	fg.updates = append(fg.updates, profile)
	return fg.updateOK
}

type fakeTokenService struct {
	userToken string
	apiToken  string
	issueErr  error
}

func (ft *fakeTokenService) IssueAPIToken(aadObjectID, serviceURL, fromID string, expiry time.Duration) (string, error) {
	return ft.apiToken, ft.issueErr
}

func (ft *fakeTokenService) ValidateAPIToken(token string) (*Iservices.APITokenClaims, error) {
	return nil, nil
}

func (ft *fakeTokenService) UserToken(ctx context.Context, fromID, resourceURL string) (string, error) {
	return ft.userToken, nil
}

type fakeState struct {
	states   map[string]*entities.ConversationState
	bindings map[string]string
	cleared  []string
	upsertOK bool
}

func newFakeState() *fakeState {
	return &fakeState{
		states:   map[string]*entities.ConversationState{},
		bindings: map[string]string{},
		upsertOK: true,
	}
}

func (fs *fakeState) ConversationState(ctx context.Context, conversationID string) *entities.ConversationState {
	if state, ok := fs.states[conversationID]; ok {
		copied := *state
		return &copied
	}
	return entities.NewConversationState(conversationID)
}

func (fs *fakeState) SaveConversationState(ctx context.Context, state *entities.ConversationState) error {
	copied := *state
	fs.states[state.ConversationID] = &copied
	return nil
}

func (fs *fakeState) ClearConversationState(ctx context.Context, conversationID string) error {
	fs.cleared = append(fs.cleared, conversationID)
	delete(fs.states, conversationID)
	return nil
}

func (fs *fakeState) UpsertCardActivity(ctx context.Context, cardID, activityID string) bool {
	if !fs.upsertOK {
		return false
	}
	fs.bindings[cardID] = activityID
	return true
}

func (fs *fakeState) CardActivity(ctx context.Context, cardID string) (*entities.CardActivityInfo, error) {
	activityID, ok := fs.bindings[cardID]
	if !ok {
		return nil, nil
	}
	partitionKey, _ := entities.CardActivityKeys(cardID)
	return &entities.CardActivityInfo{PartitionKey: partitionKey, CardID: cardID, ActivityID: activityID}, nil
}

type fakeSharePoint struct {
	results     []entities.ProfileSearchResult
	err         error
	gotText     string
	gotFilters  []string
	gotSiteURL  string
	searchCalls int
}

func (fp *fakeSharePoint) UserProfiles(ctx context.Context, searchText string, searchFilters []string, token, siteBaseURL string) ([]entities.ProfileSearchResult, error) {
	fp.searchCalls++
	fp.gotText = searchText
	fp.gotFilters = searchFilters
	fp.gotSiteURL = siteBaseURL
	return fp.results, fp.err
}

type fakeDialog struct {
	runs   []*dto.Activity
	runErr error
}

func (fd *fakeDialog) Run(ctx context.Context, activity *dto.Activity, state *entities.ConversationState) error {
	fd.runs = append(fd.runs, activity)
	return fd.runErr
}
