package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/deepsr2003/micro-telegram/internal/application/config"
	"github.com/deepsr2003/micro-telegram/internal/application/constant"
	"github.com/deepsr2003/micro-telegram/internal/application/metric"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/memory"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/postgres"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/postgres/repository"
	"github.com/deepsr2003/micro-telegram/internal/infra/ports/http/handlers"
	"github.com/deepsr2003/micro-telegram/internal/infra/ports/http/server"
	"github.com/deepsr2003/micro-telegram/internal/usecase"
)

func runApp() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: slog.LevelInfo},
			),
		),
	)

	cfg, err := config.New()
	if err != nil {
		slog.Error("parse config", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	slog.Info("Running app", slog.Bool("debug", cfg.Debug))

	dbConn, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		slog.Error("connect to postgres", slog.Any(constant.Error, err))
		os.Exit(1)
	}
	defer dbConn.Close()

	txRunner := postgres.NewTxRunner(dbConn)

	userRepo := repository.NewUserRepo(dbConn)
	roomRepo := repository.NewRoomRepo(dbConn)
	membershipRepo := repository.NewMembershipRepo(dbConn)
	contactRepo := repository.NewContactRepo(dbConn)
	messageRepo := repository.NewMessageRepo(dbConn)

	presence := memory.NewPresenceRegistry()
	channels := memory.NewRoomChannelRepository()

	userUsecase := usecase.NewUserUsecase([]byte(cfg.JWTSecret), userRepo)
	roomUsecase := usecase.NewRoomUsecase(txRunner, roomRepo, membershipRepo, presence)
	contactUsecase := usecase.NewContactUsecase(userRepo, contactRepo, messageRepo)
	messageUsecase := usecase.NewMessageUsecase(messageRepo, presence, channels)

	authHandler := handlers.NewAuthHandler(userUsecase)
	roomHandler := handlers.NewRoomHandler(roomUsecase, messageUsecase)
	contactHandler := handlers.NewContactHandler(contactUsecase, messageUsecase)
	wsHandler := handlers.NewWebSocketHandler(cfg, presence, channels, roomUsecase, messageUsecase)

	echoSrv := server.New(cfg, userRepo, membershipRepo, authHandler, roomHandler, contactHandler, wsHandler)

	metricSrv := metric.NewServer()
	go func() {
		if err := metricSrv.Start(":" + cfg.MetricPort); err != nil {
			slog.Error("metric server failed", slog.Any(constant.Error, err))
		}
	}()

	srvCh := make(chan error, 1)
	go func() {
		srvCh <- echoSrv.Start(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server due to context cancel")
	case err := <-srvCh:
		slog.Error(
			"HTTP server failed",
			slog.Any(constant.Error, err),
		)

		os.Exit(1)
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeoutCancel()

	if err := echoSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown server", slog.Any(constant.Error, err))
	}

	if err := metricSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown metric server", slog.Any(constant.Error, err))
	}
}
