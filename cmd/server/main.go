package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelkang/config"
	"travelkang/internal/database"
	"travelkang/internal/router"
	"travelkang/pkg/cloudinary"
	"travelkang/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Log)
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatalf("migrate: %v", err)
	}
	database.SeedGuides(db)

	rdb, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}

	cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		logger.Fatalf("cloudinary: %v", err)
	}

	engine := router.Setup(cfg, db, rdb, cloud)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("server shutdown: %v", err)
	}
	logger.Infof("server stopped")
}
