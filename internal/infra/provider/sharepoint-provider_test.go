package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"expert-finder/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueryText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		filters  []string
		expected string
	}{
		{
			name:     "defaults to skills when no filters given",
			text:     "rust",
			filters:  nil,
			expected: "skills:rust",
		},
		{
			name:     "single filter has no OR",
			text:     "go",
			filters:  []string{"interests"},
			expected: "interests:go",
		},
		{
			name:     "two filters joined with OR",
			text:     "rust",
			filters:  []string{"skills", "interests"},
			expected: "skills:rust OR interests:rust",
		},
		{
			name:     "three filters keep the order given",
			text:     "mit",
			filters:  []string{"skills", "interests", "schools"},
			expected: "skills:mit OR interests:mit OR schools:mit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildQueryText(tt.text, tt.filters))
		})
	}
}

func TestUserProfilesMapsCells(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("querytext")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"PrimaryQueryResult": {
				"RelevantResults": {
					"Table": {
						"Rows": [
							{
								"Cells": [
									{"Key": "PreferredName", "Value": "Ada Lovelace"},
									{"Key": "JobTitle", "Value": "Engineer"},
									{"Key": "AboutMe", "Value": "I like machines"},
									{"Key": "Skills", "Value": "math;computing"},
									{"Key": "OriginalPath", "Value": "https://example.org/ada"}
								]
							},
							{
								"Cells": [
									{"Key": "PreferredName", "Value": "Grace Hopper"}
								]
							}
						]
					}
				}
			}
		}`))
	}))
	defer server.Close()

	sp := NewSharePointProvider(logger.NewLogger(context.Background(), true), server.Client())
	profiles, err := sp.UserProfiles(context.Background(), "rust", []string{"skills", "interests"}, "token", server.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, "'skills:rust OR interests:rust'", gotQuery)

	require.Len(t, profiles, 2)
	assert.Equal(t, "Ada Lovelace", profiles[0].PreferredName)
	assert.Equal(t, "Engineer", profiles[0].JobTitle)
	assert.Equal(t, "I like machines", profiles[0].AboutMe)
	assert.Equal(t, "math;computing", profiles[0].Skills)
	assert.Equal(t, "https://example.org/ada", profiles[0].Path)

	// Missing cells come back as empty strings, not errors.
	assert.Equal(t, "Grace Hopper", profiles[1].PreferredName)
	assert.Empty(t, profiles[1].Skills)
	assert.Empty(t, profiles[1].Path)
}

func TestUserProfilesUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer server.Close()

	sp := NewSharePointProvider(logger.NewLogger(context.Background(), true), server.Client())
	_, err := sp.UserProfiles(context.Background(), "rust", nil, "stale", server.URL+"/")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserProfilesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	sp := NewSharePointProvider(logger.NewLogger(context.Background(), true), server.Client())
	_, err := sp.UserProfiles(context.Background(), "rust", nil, "token", server.URL+"/")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}
