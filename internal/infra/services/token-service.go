package services

import (
	"context"
	"fmt"
	"time"

	Iservices "expert-finder/internal/domain/interfaces/services"
	"expert-finder/internal/infra/logger"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService mints the short-lived signed credential handed to the
// web tab and resolves per-user AAD tokens through the bot connector.
type TokenService struct {
	Logger      *logger.Logger
	Connector   Iservices.IConnectorService
	securityKey []byte
	appBaseURL  string
	connection  string
}

func NewTokenService(log *logger.Logger, connector Iservices.IConnectorService, securityKey, appBaseURL, connectionName string) (*TokenService, error) {
	if securityKey == "" {
		return nil, fmt.Errorf("token service: security key is not configured")
	}
	return &TokenService{
		Logger:      log,
		Connector:   connector,
		securityKey: []byte(securityKey),
		appBaseURL:  appBaseURL,
		connection:  connectionName,
	}, nil
}

type apiTokenClaims struct {
	AadObjectID string `json:"aadObjectId"`
	ServiceURL  string `json:"serviceURL"`
	FromID      string `json:"fromId"`
	jwt.RegisteredClaims
}

// IssueAPIToken produces an HMAC-SHA256 signed credential binding the
// caller's identity and originating service URL.
func (ts *TokenService) IssueAPIToken(aadObjectID, serviceURL, fromID string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := apiTokenClaims{
		AadObjectID: aadObjectID,
		ServiceURL:  serviceURL,
		FromID:      fromID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.appBaseURL,
			Audience:  jwt.ClaimStrings{ts.appBaseURL},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.securityKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign api token: %w", err)
	}
	return signed, nil
}

// ValidateAPIToken verifies signature, issuer, audience and expiry and
// returns the identity claims.
func (ts *TokenService) ValidateAPIToken(tokenString string) (*Iservices.APITokenClaims, error) {
	var claims apiTokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ts.securityKey, nil
	}, jwt.WithIssuer(ts.appBaseURL), jwt.WithAudience(ts.appBaseURL), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid api token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid api token")
	}

	return &Iservices.APITokenClaims{
		AadObjectID: claims.AadObjectID,
		ServiceURL:  claims.ServiceURL,
		FromID:      claims.FromID,
	}, nil
}

// UserToken exchanges the bot-conversation identity for a bearer token
// scoped to the resource. Absence (never signed in) and transport
// errors both come back as empty; callers prompt for sign-in.
func (ts *TokenService) UserToken(ctx context.Context, fromID, resourceURL string) (string, error) {
	token, err := ts.Connector.UserToken(ctx, fromID, ts.connection, "")
	if err != nil {
		ts.Logger.Error(fmt.Sprintf("Failed to get user access token for resource %s: %v", resourceURL, err))
		return "", nil
	}
	return token, nil
}
