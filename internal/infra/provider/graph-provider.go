package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"expert-finder/internal/domain/entities"
	"expert-finder/internal/infra/logger"
)

const (
	graphProfileURL       = "https://graph.microsoft.com/v1.0/me"
	graphProfileSelectURL = graphProfileURL + "?$select=id,displayname,jobTitle,aboutme,skills,interests,schools"
)

// GraphProvider reads and patches the signed-in user's profile through
// the Microsoft Graph people-directory API.
type GraphProvider struct {
	Logger     *logger.Logger
	HTTPClient *http.Client
}

func NewGraphProvider(log *logger.Logger, httpClient *http.Client) *GraphProvider {
	return &GraphProvider{Logger: log, HTTPClient: httpClient}
}

// UserProfile fetches the fixed profile field set. A non-success
// response means "no profile yet" and yields (nil, nil); callers
// render the empty-profile affordance instead of failing the turn.
func (gp *GraphProvider) UserProfile(ctx context.Context, token string) (*entities.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, graphProfileSelectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := gp.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile response body: %w", err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		gp.Logger.Info(fmt.Sprintf("Error getting user profile from Graph: %s", string(body)))
		return nil, nil
	}

	var profile entities.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	return &profile, nil
}

// UpdateUserProfile submits a partial profile update. Any non-success
// response is logged and reported as false; the caller notifies the
// user and continues the turn.
func (gp *GraphProvider) UpdateUserProfile(ctx context.Context, token string, profile *entities.UserProfile) bool {
	payload, err := json.Marshal(profile)
	if err != nil {
		gp.Logger.Error(fmt.Sprintf("Failed to marshal profile update: %v", err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, graphProfileURL, bytes.NewReader(payload))
	if err != nil {
		gp.Logger.Error(fmt.Sprintf("Failed to create profile update request: %v", err))
		return false
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := gp.HTTPClient.Do(req)
	if err != nil {
		gp.Logger.Error(fmt.Sprintf("Profile update request failed: %v", err))
		return false
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(res.Body)
		gp.Logger.Info(fmt.Sprintf("Graph API user profile update error: %s", string(body)))
		return false
	}
	return true
}
