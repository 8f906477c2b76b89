package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/3sol-fa/RoofConstructionManager/internal/auth"
	"github.com/3sol-fa/RoofConstructionManager/internal/config"
	"github.com/3sol-fa/RoofConstructionManager/internal/relay"
	"github.com/3sol-fa/RoofConstructionManager/internal/server"
	"github.com/3sol-fa/RoofConstructionManager/internal/storage"
	"github.com/3sol-fa/RoofConstructionManager/internal/store"
	"github.com/3sol-fa/RoofConstructionManager/internal/util"
	"github.com/3sol-fa/RoofConstructionManager/internal/weather"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	var st store.Store
	if cfg.DatabaseURL != "" {
		st, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to init database store: %v", err)
		}
		slog.Info("using postgres store")
	} else {
		st = store.NewMemoryStore()
		slog.Warn("DATABASE_URL not set, using in-memory store")
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	if err != nil {
		log.Fatalf("failed to init token issuer: %v", err)
	}

	var objects storage.ObjectStore
	if cfg.MinioEndpoint != "" {
		objects, err = storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("failed to init object store: %v", err)
		}
		slog.Info("using minio object store", "endpoint", cfg.MinioEndpoint)
	} else {
		objects, err = storage.NewFileStore(cfg.UploadDir)
		if err != nil {
			log.Fatalf("failed to init file store: %v", err)
		}
		slog.Warn("minio not configured, storing uploads on local disk", "dir", cfg.UploadDir)
	}

	weatherSvc := weather.New(weather.Config{
		APIKey:    cfg.WeatherAPIKey,
		RedisAddr: cfg.RedisAddr,
		RedisPass: cfg.RedisPassword,
		CacheTTL:  time.Duration(cfg.WeatherCacheTTL) * time.Minute,
		Lat:       cfg.SiteLat,
		Lng:       cfg.SiteLng,
	})

	rel := relay.New(st, tokens)

	httpServer, err := server.New(server.Config{
		Store:                      st,
		Tokens:                     tokens,
		Relay:                      rel,
		Objects:                    objects,
		Weather:                    weatherSvc,
		RedisAddr:                  cfg.RedisAddr,
		RedisPassword:              cfg.RedisPassword,
		RegisterRateLimitPerMinute: cfg.RegisterRateLimitPerMinute,
		LoginRateLimitPerMinute:    cfg.LoginRateLimitPerMinute,
		MaxUploadBytes:             cfg.MaxUploadBytes,
		AllowedExtensions:          cfg.AllowedExtensions,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server error", "err", err)
	}
}
