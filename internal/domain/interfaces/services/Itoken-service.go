package Iservices

import (
	"context"
	"time"
)

// APITokenClaims are the identity claims carried by the short-lived
// credential issued to the web tab.
type APITokenClaims struct {
	AadObjectID string
	ServiceURL  string
	FromID      string
}

// ITokenService mints and validates the bot-issued tab credential and
// resolves per-user access tokens for downstream resources.
type ITokenService interface {
	IssueAPIToken(aadObjectID, serviceURL, fromID string, expiry time.Duration) (string, error)
	ValidateAPIToken(token string) (*APITokenClaims, error)
	// UserToken returns empty (not an error) when the user has never
	// signed in for the connection.
	UserToken(ctx context.Context, fromID, resourceURL string) (string, error)
}
