package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"expert-finder/internal/config"
	"expert-finder/internal/domain/entities"
	Irepository "expert-finder/internal/domain/interfaces/repository"
	Iservices "expert-finder/internal/domain/interfaces/services"
	"expert-finder/internal/infra/handlers"
	"expert-finder/internal/infra/logger"
	"expert-finder/internal/infra/provider"
	"expert-finder/internal/infra/repository"
	"expert-finder/internal/infra/routes"
	"expert-finder/internal/infra/services"
	"expert-finder/internal/middleware"
	client "expert-finder/internal/pkg"

	"github.com/gorilla/mux"
)

func main() {
	config.LoadEnv()

	ctx := context.Background()
	log := logger.NewLogger(ctx, true)
	cfg := config.Load()

	var conversationRepo Irepository.Repository[entities.ConversationState]
	var cardActivityRepo Irepository.Repository[entities.CardActivityInfo]
	if cfg.UseInMemoryState {
		log.Info("Using in-memory state storage")
		conversationRepo = repository.NewMemoryRepository[entities.ConversationState]()
		cardActivityRepo = repository.NewMemoryRepository[entities.CardActivityInfo]()
	} else {
		mongoClient := client.MongoClient(cfg.MongoURI)
		stateDB := mongoClient.Database("ExpertFinder")
		conversationRepo = repository.NewMongoRepository[entities.ConversationState](stateDB)
		cardActivityRepo = repository.NewMongoRepository[entities.CardActivityInfo](stateDB)
	}

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	httpClient := &http.Client{Timeout: 30 * time.Second}

	// The directory and profile clients retry transient failures at the
	// transport; the connector carries its own policy on the send path.
	apiClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: provider.NewRetryTransport(http.DefaultTransport, provider.DownstreamRetrySettings()),
	}

	var connector Iservices.IConnectorService = provider.NewConnectorProvider(
		log, httpClient, cfg.MicrosoftAppID, cfg.MicrosoftAppPassword, provider.DefaultRetrySettings(),
	)
	var sharePoint Iservices.ISharePointService = provider.NewSharePointProvider(log, apiClient)
	var graph Iservices.IGraphService = provider.NewGraphProvider(log, apiClient)

	var stateSvc Iservices.IStateService = services.NewStateService(conversationRepo, cardActivityRepo, log)

	tokenSvc, err := services.NewTokenService(log, connector, cfg.SecurityKey, cfg.AppBaseURL, cfg.ConnectionName)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to initialize token service: %v", err))
	}

	var dialogSvc Iservices.IDialogService = services.NewDialogService(log, connector, graph, tokenSvc, stateSvc, cfg.ConnectionName)

	var botSvc Iservices.IBotService = services.NewBotService(
		log, connector, dialogSvc, graph, sharePoint, tokenSvc, stateSvc,
		cfg.ConnectionName, cfg.TenantID, cfg.AppBaseURL, cfg.AppInsightsKey, cfg.SharePointSiteURL,
	)

	botHandlers := handlers.NewBotHandlers(log, botSvc)
	httpHandlers := handlers.NewHttpHandlers(log, tokenSvc, sharePoint, cfg.SharePointSiteURL)

	routes := routes.NewRoutes(
		router,
		botHandlers,
		httpHandlers,
		middleware.AuthMiddleware(log, tokenSvc),
	)

	routes.Init()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}
