package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrNoFunsadface/FCommunityBE/internal/app/server"
	"github.com/MrNoFunsadface/FCommunityBE/internal/config"
	"github.com/MrNoFunsadface/FCommunityBE/internal/core/services"
	"github.com/MrNoFunsadface/FCommunityBE/internal/platform/logger"
	"github.com/MrNoFunsadface/FCommunityBE/internal/platform/telemetry"
	redisPlugin "github.com/MrNoFunsadface/FCommunityBE/internal/plugins/redis"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	cfg := config.Load()

	// Logger
	log := logger.NewLogger(*cfg)
	log.Info("starting application")

	otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "err", err)
	}
	defer func() {
		log.Info("flushing telemetry...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "err", err)
		}
	}()

	// Infra
	var rdb *redis.Client
	if rdb, err = redisPlugin.NewRedisClient(ctx, *cfg.Redis); err != nil {
		log.Error("redis connection failed", "url", cfg.Redis.URL)
		return
	}
	log.Info("redis connected")

	// Adapters
	store := redisPlugin.NewRedisStore(rdb)
	publisher := redisPlugin.NewRedisPublisher(rdb)
	presence := redisPlugin.NewRedisPresenceStore(rdb)

	// Core Services
	notifier := services.NewNotifier(log, publisher)
	userSvc := services.NewUserService(log, store)
	friendSvc := services.NewFriendService(log, store, userSvc, notifier)
	chatSvc := services.NewChatService(log, store, userSvc, presence, notifier)
	msgSvc := services.NewMessageService(log, store, notifier)
	tokenSvc := services.NewTokenService(cfg.SecretToken)

	// Server
	srv := server.NewServer(log, cfg.Service.Name, cfg.Service.Addr, tokenSvc, userSvc, tokenSvc, friendSvc, chatSvc, msgSvc)
	if err := srv.Start(); err != nil {
		log.Error("server stopped", "err", err)
	}
}
