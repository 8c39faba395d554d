package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"expert-finder/internal/domain/dto"
	Iservices "expert-finder/internal/domain/interfaces/services"
	"expert-finder/internal/infra/logger"
)

// BotHandlers receives Bot Framework activities on the webhook and
// feeds them to the activity router. Invoke activities expect their
// response body back on the same request, so processing is synchronous.
type BotHandlers struct {
	Logger     *logger.Logger
	BotService Iservices.IBotService
}

func NewBotHandlers(log *logger.Logger, botService Iservices.IBotService) *BotHandlers {
	return &BotHandlers{Logger: log, BotService: botService}
}

func (bh *BotHandlers) Messages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var activity dto.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		http.Error(w, "Error to process JSON", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response, err := bh.BotService.ProcessActivity(r.Context(), &activity)
	if err != nil {
		bh.Logger.Error(fmt.Sprintf("Failed to process activity for %s: %v", activity.Conversation.ID, err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if response == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		bh.Logger.Error(fmt.Sprintf("Failed to encode invoke response: %v", err))
	}
}
