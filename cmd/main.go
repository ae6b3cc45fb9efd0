package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/civicfix/civicfix_client/config"
	"github.com/civicfix/civicfix_client/internal/catalog"
	"github.com/civicfix/civicfix_client/internal/gateway"
	api "github.com/civicfix/civicfix_client/internal/http/rest"
	"github.com/civicfix/civicfix_client/internal/storage"
	"github.com/civicfix/civicfix_client/internal/store"
	"github.com/civicfix/civicfix_client/util/logger"
	imagestore "github.com/civicfix/civicfix_client/util/storage"
	"go.uber.org/zap"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
	storageConnectTimeout         = 5 * time.Second
)

func main() {
	cfg := config.New()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "civicfix-client")
	if err != nil {
		log.Panicln("failed to build logger", "error", err)
	}
	defer func() { _ = zlog.Sync() }()

	durable, cleanup, err := newDurableStore(cfg)
	if err != nil {
		zlog.Fatal("failed to open durable store", zap.Error(err))
	}
	defer cleanup()

	gw := gateway.NewRestClient(
		cfg.BackendBaseURL,
		time.Duration(cfg.BackendTimeout)*time.Second,
		cfg.BackendRetries,
		zlog,
	)

	var images *imagestore.ImageStore
	if cfg.CloudinaryCloudName != "" {
		images, err = imagestore.NewImageStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			zlog.Fatal("failed to initialize image store", zap.Error(err))
		}
	}

	a := &api.API{
		Config:  cfg,
		Store:   store.New(gw, durable, zlog),
		Catalog: catalog.New(gw, zlog),
		Images:  images,
		Log:     zlog,
	}

	go func() {
		zlog.Info("client facade running", zap.Int("port", cfg.Port))
		log.Fatal(a.Serve())
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	zlog.Info("shutdown requested, draining", zap.Duration("grace", allowConnectionsAfterShutdown))
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	if err := a.Shutdown(); err != nil {
		zlog.Error("shutdown failed", zap.Error(err))
	}
}

func newDurableStore(cfg *config.Config) (storage.DurableStore, func(), error) {
	switch cfg.StorageBackend {
	case "redis":
		s := storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), storageConnectTimeout)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		s, err := storage.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return storage.NewMemoryStore(), func() {}, nil
	}
}
