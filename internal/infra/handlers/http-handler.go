package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"expert-finder/internal/domain/dto"
	Iservices "expert-finder/internal/domain/interfaces/services"
	"expert-finder/internal/infra/logger"
	"expert-finder/internal/infra/provider"
	"expert-finder/internal/middleware"
	"expert-finder/internal/resources"
)

// HttpHandlers serves the web tab API: directory search on behalf of
// the signed-in user plus the localized string bundles.
type HttpHandlers struct {
	Logger            *logger.Logger
	TokenService      Iservices.ITokenService
	SharePointService Iservices.ISharePointService
	SharePointSiteURL string
}

func NewHttpHandlers(
	log *logger.Logger,
	tokenService Iservices.ITokenService,
	sharePointService Iservices.ISharePointService,
	sharePointSiteURL string,
) *HttpHandlers {
	return &HttpHandlers{
		Logger:            log,
		TokenService:      tokenService,
		SharePointService: sharePointService,
		SharePointSiteURL: sharePointSiteURL,
	}
}

// SearchUsers runs a directory search for the tab. The caller identity
// comes from the validated bearer credential; a missing or rejected
// directory sign-in maps to 401 so the tab can prompt a re-login, and
// a null search payload is forbidden.
func (hh *HttpHandlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var request *dto.UserSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request == nil {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	defer r.Body.Close()

	token, err := hh.TokenService.UserToken(r.Context(), claims.FromID, hh.SharePointSiteURL)
	if err != nil || token == "" {
		hh.Logger.Info(fmt.Sprintf("No directory token on file for %s", claims.AadObjectID))
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	results, err := hh.SharePointService.UserProfiles(r.Context(), request.SearchText, request.SearchFilters, token, hh.SharePointSiteURL)
	if err != nil {
		if errors.Is(err, provider.ErrUnauthorized) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		hh.Logger.Error(fmt.Sprintf("Directory search failed for %s: %v", claims.AadObjectID, err))
		http.Error(w, "Search failed", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		hh.Logger.Error(fmt.Sprintf("Failed to encode search results: %v", err))
	}
}

// ResourceStrings serves the string bundle for the tab search page.
func (hh *HttpHandlers) ResourceStrings(w http.ResponseWriter, r *http.Request) {
	hh.writeStrings(w, resources.TabStrings())
}

// ResourceErrorStrings serves the string bundle for the tab error page.
func (hh *HttpHandlers) ResourceErrorStrings(w http.ResponseWriter, r *http.Request) {
	hh.writeStrings(w, resources.TabErrorStrings())
}

func (hh *HttpHandlers) writeStrings(w http.ResponseWriter, bundle map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(bundle); err != nil {
		hh.Logger.Error(fmt.Sprintf("Failed to encode string bundle: %v", err))
	}
}
