package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop_backend/internal/app/di"
	"shop_backend/internal/app/router"
	"shop_backend/internal/config"
	authhandler "shop_backend/internal/feature/auth/transport/handler"
	producthandler "shop_backend/internal/feature/product/transport/handler"
	productusecase "shop_backend/internal/feature/product/usecase"
	"shop_backend/internal/platform/db"
	platformhandler "shop_backend/internal/platform/http/handler"
	jwtmw "shop_backend/internal/platform/jwt"
	"shop_backend/internal/platform/logger"
	platformredis "shop_backend/internal/platform/redis"
)

const readHeaderTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.Open(cfg.DatabaseURL, cfg.RunMigrations)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}

	// Redis is optional; without it the product cache is off.
	rdb, err := platformredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	images, err := di.NewImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	tokens := jwtmw.NewManager(cfg.JWTSecret, jwtmw.TokenTTL)
	products := productusecase.NewProductUsecase(di.NewProductRepository(gdb, rdb, cfg.Redis.CacheTTL), images)

	engine := router.NewRouter(router.Deps{
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins,
		Tokens:      tokens,
		Health:      platformhandler.NewHealthHandler(sqlDB),
		Auth:        authhandler.NewAuthHandler(di.NewAuthUsecase(gdb, tokens)),
		Products:    producthandler.NewProductHandler(products),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "image_store", cfg.Image.Driver, "cache", rdb != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received, draining requests", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
