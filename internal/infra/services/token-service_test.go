package services

import (
	"context"
	"testing"
	"time"

	"expert-finder/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, key string) *TokenService {
	t.Helper()
	ts, err := NewTokenService(logger.NewLogger(context.Background(), true), nil, key, "https://bot.example.org", "GraphConnection")
	require.NoError(t, err)
	return ts
}

func TestTokenServiceRequiresSecurityKey(t *testing.T) {
	_, err := NewTokenService(logger.NewLogger(context.Background(), true), nil, "", "https://bot.example.org", "GraphConnection")
	assert.Error(t, err)
}

func TestIssueAndValidateAPIToken(t *testing.T) {
	ts := newTestTokenService(t, "test-security-key")

	token, err := ts.IssueAPIToken("aad-1", "https://smba.example.org/", "29:user", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.ValidateAPIToken(token)
	require.NoError(t, err)
	assert.Equal(t, "aad-1", claims.AadObjectID)
	assert.Equal(t, "https://smba.example.org/", claims.ServiceURL)
	assert.Equal(t, "29:user", claims.FromID)
}

func TestValidateAPITokenRejectsWrongKey(t *testing.T) {
	issuer := newTestTokenService(t, "key-one")
	verifier := newTestTokenService(t, "key-two")

	token, err := issuer.IssueAPIToken("aad-1", "https://smba.example.org/", "29:user", time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateAPIToken(token)
	assert.Error(t, err)
}

func TestValidateAPITokenRejectsExpired(t *testing.T) {
	ts := newTestTokenService(t, "test-security-key")

	token, err := ts.IssueAPIToken("aad-1", "https://smba.example.org/", "29:user", -time.Minute)
	require.NoError(t, err)

	_, err = ts.ValidateAPIToken(token)
	assert.Error(t, err)
}

func TestValidateAPITokenRejectsGarbage(t *testing.T) {
	ts := newTestTokenService(t, "test-security-key")
	_, err := ts.ValidateAPIToken("not-a-token")
	assert.Error(t, err)
}
