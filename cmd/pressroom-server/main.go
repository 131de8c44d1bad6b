package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/dfryer1193/pressroom/blog/application"
	"github.com/dfryer1193/pressroom/blog/persistence"
	"github.com/dfryer1193/pressroom/internal/auth"
	"github.com/dfryer1193/pressroom/internal/config"
	"github.com/dfryer1193/pressroom/internal/middleware"
	"github.com/dfryer1193/pressroom/internal/rest"
	"github.com/dfryer1193/pressroom/shared/db/sqlite"
	"github.com/dfryer1193/pressroom/shared/hygraph"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Logger.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// Initialize dependencies
	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.SQLite.Path})
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	tokens, err := auth.NewTokenService(cfg.Auth.TokenKeyHex)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token service")
	}

	contentStore := hygraph.NewContentStore(hygraph.NewClient(cfg.Hygraph.Endpoint, cfg.Hygraph.Token))
	interactionRepo := persistence.NewInteractionRepository(database.DB())
	outbox := persistence.NewSyncOutbox(database.DB())
	reconciler := application.NewTagReconciler(contentStore, cfg.Workflow.TagPublishDelay)

	postService := application.NewPostService(contentStore, interactionRepo, outbox, reconciler, cfg.Workflow.SyncRepairInterval)
	defer func() {
		if err := postService.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to gracefully close post service")
		}
	}()

	interactionService := application.NewInteractionService(interactionRepo)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))

	rest.NewAPI(postService, interactionService, tokens).Register(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Msg("Starting server on port :" + cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
