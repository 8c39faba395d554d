package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"expert-finder/internal/domain/dto"
	"expert-finder/internal/infra/logger"

	"github.com/cenkalti/backoff/v4"
)

const (
	botLoginURL        = "https://login.microsoftonline.com/botframework.com/oauth2/v2.0/token"
	botFrameworkScope  = "https://api.botframework.com/.default"
	tokenServiceURL    = "https://api.botframework.com"
	teamsChannelID     = "msteams"
	errCodeRateLimited = http.StatusTooManyRequests
)

// RetrySettings bounds the send retry loop used when the bot fans out
// multiple cards in one turn.
type RetrySettings struct {
	MaxAttempts     int
	InitialInterval time.Duration
}

// DefaultRetrySettings matches the transport rate-limit policy: five
// attempts with jittered exponential backoff starting at one second.
func DefaultRetrySettings() RetrySettings {
	return RetrySettings{MaxAttempts: 5, InitialInterval: time.Second}
}

// ConnectorProvider is the REST client for the bot transport: it sends
// and updates conversation activities and talks to the platform token
// service for user-token exchange, sign-out and sign-in links.
type ConnectorProvider struct {
	Logger     *logger.Logger
	HTTPClient *http.Client
	Retry      RetrySettings

	appID       string
	appPassword string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewConnectorProvider(log *logger.Logger, httpClient *http.Client, appID, appPassword string, retry RetrySettings) *ConnectorProvider {
	return &ConnectorProvider{
		Logger:      log,
		HTTPClient:  httpClient,
		Retry:       retry,
		appID:       appID,
		appPassword: appPassword,
	}
}

// appToken returns a cached bot app token, minting a fresh one through
// the client-credentials grant when the cached one is near expiry.
func (cp *ConnectorProvider) appToken(ctx context.Context) (string, error) {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	if cp.accessToken != "" && time.Until(cp.tokenExpiry) > time.Minute {
		return cp.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", cp.appID)
	form.Set("client_secret", cp.appPassword)
	form.Set("scope", botFrameworkScope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, botLoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create app token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := cp.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("app token request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("app token request returned %s: %s", res.Status, string(body))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(res.Body).Decode(&tokenResponse); err != nil {
		return "", fmt.Errorf("failed to decode app token response: %w", err)
	}

	cp.accessToken = tokenResponse.AccessToken
	cp.tokenExpiry = time.Now().Add(time.Duration(tokenResponse.ExpiresIn) * time.Second)
	return cp.accessToken, nil
}

func (cp *ConnectorProvider) doJSON(ctx context.Context, method, requestURL string, payload any, out any) (int, error) {
	token, err := cp.appToken(ctx)
	if err != nil {
		return 0, err
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := cp.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return res.StatusCode, fmt.Errorf("unexpected HTTP status %s: %s", res.Status, string(raw))
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return res.StatusCode, fmt.Errorf("failed to decode response body: %w", err)
		}
	}
	return res.StatusCode, nil
}

// SendActivity posts a new activity to the conversation and returns
// the id the transport assigned to it.
func (cp *ConnectorProvider) SendActivity(ctx context.Context, activity *dto.Activity) (string, error) {
	requestURL := fmt.Sprintf("%s/v3/conversations/%s/activities",
		strings.TrimSuffix(activity.ServiceURL, "/"), url.PathEscape(activity.Conversation.ID))

	var result struct {
		ID string `json:"id"`
	}
	if _, err := cp.doJSON(ctx, http.MethodPost, requestURL, activity, &result); err != nil {
		cp.Logger.Error(fmt.Sprintf("Failed to send activity to conversation %s: %v", activity.Conversation.ID, err))
		return "", err
	}
	return result.ID, nil
}

// UpdateActivity replaces an existing activity in place.
func (cp *ConnectorProvider) UpdateActivity(ctx context.Context, activity *dto.Activity, activityID string) error {
	requestURL := fmt.Sprintf("%s/v3/conversations/%s/activities/%s",
		strings.TrimSuffix(activity.ServiceURL, "/"), url.PathEscape(activity.Conversation.ID), url.PathEscape(activityID))

	if _, err := cp.doJSON(ctx, http.MethodPut, requestURL, activity, nil); err != nil {
		cp.Logger.Error(fmt.Sprintf("Failed to update activity %s in conversation %s: %v", activityID, activity.Conversation.ID, err))
		return err
	}
	return nil
}

// SendActivities sends a batch of activities, retrying each send under
// the bounded jittered backoff policy to absorb transient transport
// rate limits. The retry loop honors ctx cancellation.
func (cp *ConnectorProvider) SendActivities(ctx context.Context, activities []*dto.Activity) error {
	for _, activity := range activities {
		policy := backoff.NewExponentialBackOff()
		policy.InitialInterval = cp.Retry.InitialInterval
		policy.RandomizationFactor = 1

		operation := func() error {
			_, err := cp.SendActivity(ctx, activity)
			return err
		}

		err := backoff.Retry(operation,
			backoff.WithContext(backoff.WithMaxRetries(policy, uint64(cp.Retry.MaxAttempts-1)), ctx))
		if err != nil {
			return err
		}
	}
	return nil
}

// SendTyping sends a typing indicator to the conversation.
func (cp *ConnectorProvider) SendTyping(ctx context.Context, inbound *dto.Activity) {
	typing := inbound.NewReply("")
	typing.Type = dto.ActivityTypeTyping
	if _, err := cp.SendActivity(ctx, typing); err != nil {
		cp.Logger.Warn(fmt.Sprintf("Failed to send typing indicator for conversation %s: %v", inbound.Conversation.ID, err))
	}
}

// UserToken exchanges a Teams user id for an AAD token scoped to the
// connection. An absent token (user never signed in) is returned as
// empty with no error.
func (cp *ConnectorProvider) UserToken(ctx context.Context, userID, connectionName, magicCode string) (string, error) {
	query := url.Values{}
	query.Set("userId", userID)
	query.Set("connectionName", connectionName)
	query.Set("channelId", teamsChannelID)
	if magicCode != "" {
		query.Set("code", magicCode)
	}
	requestURL := fmt.Sprintf("%s/api/usertoken/GetToken?%s", tokenServiceURL, query.Encode())

	var result struct {
		Token string `json:"token"`
	}
	status, err := cp.doJSON(ctx, http.MethodGet, requestURL, nil, &result)
	if status == http.StatusNotFound {
		return "", nil
	}
	if err != nil {
		cp.Logger.Error(fmt.Sprintf("Failed to get user token for %s: %v", userID, err))
		return "", nil
	}
	return result.Token, nil
}

// SignOut revokes the stored sign-in for the user on the connection.
func (cp *ConnectorProvider) SignOut(ctx context.Context, userID, connectionName string) error {
	query := url.Values{}
	query.Set("userId", userID)
	query.Set("connectionName", connectionName)
	query.Set("channelId", teamsChannelID)
	requestURL := fmt.Sprintf("%s/api/usertoken/SignOut?%s", tokenServiceURL, query.Encode())

	if _, err := cp.doJSON(ctx, http.MethodDelete, requestURL, nil, nil); err != nil {
		cp.Logger.Error(fmt.Sprintf("Failed to sign out user %s: %v", userID, err))
		return err
	}
	return nil
}

// SignInLink returns the platform sign-in page URL for the connection.
func (cp *ConnectorProvider) SignInLink(ctx context.Context, activity *dto.Activity, connectionName string) (string, error) {
	state := map[string]any{
		"ConnectionName": connectionName,
		"Conversation": map[string]any{
			"activity": map[string]any{
				"channelId":    activity.ChannelID,
				"serviceUrl":   activity.ServiceURL,
				"conversation": activity.Conversation,
				"from":         activity.From,
				"recipient":    activity.Recipient,
			},
		},
		"MsAppId": cp.appID,
	}
	rawState, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("failed to marshal sign-in state: %w", err)
	}

	query := url.Values{}
	query.Set("state", string(rawState))
	requestURL := fmt.Sprintf("%s/api/botsignin/GetSignInUrl?%s", tokenServiceURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create sign-in link request: %w", err)
	}
	token, err := cp.appToken(ctx)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := cp.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign-in link request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read sign-in link response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sign-in link request returned %s: %s", res.Status, string(body))
	}
	return strings.Trim(string(body), `"`), nil
}
