package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"expert-finder/internal/domain/dto"
	"expert-finder/internal/domain/entities"
	"expert-finder/internal/infra/logger"
)

// ErrUnauthorized marks a 401 from the search endpoint so the HTTP
// surface can answer 401 instead of a generic failure.
var ErrUnauthorized = errors.New("sharepoint: unauthorized")

const (
	// Default field searched when no filters are supplied.
	defaultSearchField = "skills"

	// Fixed source id of the people result source.
	searchSourceID = "B09A7990-05EA-4AF9-81EF-EDFAB16C4E31"
)

// SharePointProvider executes directory searches against the SharePoint
// search REST API and maps the columnar result into profile records.
type SharePointProvider struct {
	Logger     *logger.Logger
	HTTPClient *http.Client
}

func NewSharePointProvider(log *logger.Logger, httpClient *http.Client) *SharePointProvider {
	return &SharePointProvider{Logger: log, HTTPClient: httpClient}
}

// BuildQueryText builds the disjunction `f1:q OR f2:q ... OR fn:q`
// over the supplied filters, defaulting to the skills field when none
// are given. The last filter carries no trailing OR; the shape is kept
// byte-for-byte compatible with the search backend.
func BuildQueryText(searchText string, searchFilters []string) string {
	var query strings.Builder

	if len(searchFilters) > 0 {
		for _, filter := range searchFilters[:len(searchFilters)-1] {
			query.WriteString(filter + ":" + searchText + " OR ")
		}
		query.WriteString(searchFilters[len(searchFilters)-1] + ":" + searchText)
	} else {
		query.WriteString(defaultSearchField + ":" + searchText)
	}
	return query.String()
}

// searchRequestURL builds the search REST URI for the query.
func searchRequestURL(siteBaseURL, queryText string) string {
	return fmt.Sprintf("%s_api/search/query?querytext='%s'&sourceid='%s'",
		siteBaseURL, url.QueryEscape(queryText), searchSourceID)
}

// UserProfiles runs the search and maps result rows to profile
// records. A 401 is surfaced as ErrUnauthorized; any other non-success
// status carries the reason and body.
func (sp *SharePointProvider) UserProfiles(ctx context.Context, searchText string, searchFilters []string, token, siteBaseURL string) ([]entities.ProfileSearchResult, error) {
	requestURL := searchRequestURL(siteBaseURL, BuildQueryText(searchText, searchFilters))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		sp.Logger.Error(fmt.Sprintf("Failed to create search request: %v", err))
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := sp.HTTPClient.Do(req)
	if err != nil {
		sp.Logger.Error(fmt.Sprintf("Search request failed: %v", err))
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response body: %w", err)
	}

	if res.StatusCode == http.StatusUnauthorized {
		sp.Logger.Error(fmt.Sprintf("Search endpoint rejected the token: %s", string(body)))
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, string(body))
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		sp.Logger.Error(fmt.Sprintf("Unexpected search HTTP status %s response_body %s", res.Status, string(body)))
		return nil, fmt.Errorf("error getting user profiles (%s): %s", res.Status, string(body))
	}

	var searchResponse dto.SharePointSearchResponse
	if err := json.Unmarshal(body, &searchResponse); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	rows := searchResponse.PrimaryQueryResult.RelevantResults.Table.Rows
	profiles := make([]entities.ProfileSearchResult, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, entities.ProfileSearchResult{
			AboutMe:       row.CellValue("AboutMe"),
			Interests:     row.CellValue("Interests"),
			JobTitle:      row.CellValue("JobTitle"),
			PreferredName: row.CellValue("PreferredName"),
			Schools:       row.CellValue("Schools"),
			Skills:        row.CellValue("Skills"),
			WorkEmail:     row.CellValue("WorkEmail"),
			Path:          row.CellValue("OriginalPath"),
		})
	}
	return profiles, nil
}
