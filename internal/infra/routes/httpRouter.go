package routes

import (
	"encoding/json"
	"net/http"

	"expert-finder/internal/infra/handlers"

	"github.com/gorilla/mux"
)

type Routes struct {
	Mux            *mux.Router
	BotHandler     *handlers.BotHandlers
	HttpHandler    *handlers.HttpHandlers
	AuthMiddleware func(http.Handler) http.Handler
}

func NewRoutes(mux *mux.Router, botHandler *handlers.BotHandlers, httpHandler *handlers.HttpHandlers, authMiddleware func(http.Handler) http.Handler) *Routes {
	return &Routes{mux, botHandler, httpHandler, authMiddleware}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/api/messages", r.BotHandler.Messages).Methods(http.MethodPost)

	r.Mux.Handle("/api/users", r.AuthMiddleware(http.HandlerFunc(r.HttpHandler.SearchUsers))).Methods(http.MethodPost)

	r.Mux.HandleFunc("/api/resource", r.HttpHandler.ResourceStrings).Methods(http.MethodGet)
	r.Mux.HandleFunc("/api/resource/error", r.HttpHandler.ResourceErrorStrings).Methods(http.MethodGet)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
