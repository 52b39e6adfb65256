package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/minishop-api/internal/config"
	"github.com/vasapolrittideah/minishop-api/internal/handler"
	"github.com/vasapolrittideah/minishop-api/internal/repository"
	"github.com/vasapolrittideah/minishop-api/internal/upload"
	"github.com/vasapolrittideah/minishop-api/internal/usecase"
	"github.com/vasapolrittideah/minishop-api/shared/auth"
	"github.com/vasapolrittideah/minishop-api/shared/validator"
	"github.com/vasapolrittideah/minishop-api/shared/wechat"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	itemRepo := repository.NewItemMongoRepository(ctx, &logger, db)
	categoryRepo := repository.NewCategoryMongoRepository(ctx, &logger, db)

	gate, err := upload.NewGate(cfg.AttachmentDir, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize upload gate")
	}

	payloadValidator, err := validator.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize validator")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret)
	sessions := wechat.NewClient(cfg.AppID, cfg.AppSecret, "")
	decrypter := wechat.NewDecrypter(cfg.AppID)

	router := handler.NewRouter(&handler.RouterDeps{
		AuthUsecase:     usecase.NewAuthUsecase(userRepo, sessions, decrypter, tokens, cfg, &logger),
		ItemUsecase:     usecase.NewItemUsecase(itemRepo, gate, &logger),
		CategoryUsecase: usecase.NewCategoryUsecase(categoryRepo, gate, &logger),
		Tokens:          tokens,
		Gate:            gate,
		Validator:       payloadValidator,
		Logger:          &logger,
	})

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("starting server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down server gracefully")
	}
}
