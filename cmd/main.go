package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"waiter/internal/caching"
	"waiter/internal/config"
	"waiter/internal/handlers"
	"waiter/internal/jobs/background"
	"waiter/internal/repositories"
	"waiter/internal/services"
	"waiter/pkg/database"
	"waiter/pkg/logger"
)

var version = "1.0.0"

//	@title			Waiter API
//	@version		1.0
//	@description	Restaurant order management: products, orders, order lines and date-range reports.
//	@BasePath		/
func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	lifetime, idle := cfg.ConnLifetimes()
	pool, err := database.NewPool(ctx, cfg.Database.URL, database.PoolConfig{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: lifetime,
		MaxConnIdleTime: idle,
	}, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	productRepo := repositories.NewProductRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	quantityRepo := repositories.NewQuantityRepo(pool)

	// Readiness only reports Redis when it is configured.
	cacheService := caching.NewNopCacheService()
	var cachePinger handlers.Pinger
	if cfg.Redis.Addr != "" {
		cacheService = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		cachePinger = cacheService
	} else {
		log.Info("Redis not configured, product cache disabled")
	}

	var images *services.ImageStorage
	if cfg.Minio.Endpoint != "" {
		minioService, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
		if err != nil {
			return fmt.Errorf("minio: %w", err)
		}
		if err := minioService.EnsureBucketExists(ctx, cfg.Minio.Bucket); err != nil {
			return fmt.Errorf("minio bucket %s: %w", cfg.Minio.Bucket, err)
		}
		images = &services.ImageStorage{Client: minioService, Bucket: cfg.Minio.Bucket}
		log.Info("Image storage enabled", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.Bucket)
	}

	productService := services.NewProductService(productRepo, cacheService, images, cfg.ProductCacheTTL(), log)
	orderService := services.NewOrderService(orderRepo, log)
	quantityService := services.NewQuantityService(quantityRepo, orderRepo, productRepo)

	interval, err := cfg.PurgeInterval()
	if err != nil {
		return err
	}
	scheduler, err := background.NewJobScheduler(orderService, cfg.Jobs.PurgeRetentionDays, interval, log)
	if err != nil {
		return fmt.Errorf("job scheduler: %w", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Error("failed to stop job scheduler", "error", err)
		}
	}()

	e := handlers.NewServer(handlers.Server{
		Products:     handlers.NewProductHandlers(productService, log),
		Orders:       handlers.NewOrderHandlers(orderService, log),
		Quantities:   handlers.NewQuantityHandlers(quantityService, log),
		Reports:      handlers.NewReportHandlers(orderService, log),
		Health:       handlers.NewHealthHandlers(pool, cachePinger, log),
		ImageUploads: images != nil,
		AppVersion:   version,
		Log:          log,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", "addr", addr, "version", version)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
