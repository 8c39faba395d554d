package Iservices

import (
	"context"

	"expert-finder/internal/domain/dto"
	"expert-finder/internal/domain/entities"
)

// IConnectorService is the bot transport: outbound activities plus the
// platform token-service operations.
type IConnectorService interface {
	SendActivity(ctx context.Context, activity *dto.Activity) (string, error)
	UpdateActivity(ctx context.Context, activity *dto.Activity, activityID string) error
	SendActivities(ctx context.Context, activities []*dto.Activity) error
	SendTyping(ctx context.Context, inbound *dto.Activity)
	UserToken(ctx context.Context, userID, connectionName, magicCode string) (string, error)
	SignOut(ctx context.Context, userID, connectionName string) error
	SignInLink(ctx context.Context, activity *dto.Activity, connectionName string) (string, error)
}

// ISharePointService runs directory searches.
type ISharePointService interface {
	UserProfiles(ctx context.Context, searchText string, searchFilters []string, token, siteBaseURL string) ([]entities.ProfileSearchResult, error)
}

// IGraphService reads and patches the signed-in user's profile.
type IGraphService interface {
	UserProfile(ctx context.Context, token string) (*entities.UserProfile, error)
	UpdateUserProfile(ctx context.Context, token string, profile *entities.UserProfile) bool
}
