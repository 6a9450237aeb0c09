package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cafe-backend/configs"
	"cafe-backend/pkg/logger"
	"cafe-backend/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := configs.LoadConfig()

	log := logger.Must(cfg.AppEnv)
	defer log.Sync()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// DB
	if _, err := configs.ConnectionDB(cfg); err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	db := configs.DB()

	// migrate
	if err := configs.SetupDatabase(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	if err := configs.SeedAdmin(db, log); err != nil {
		log.Fatal("seed admin failed", zap.Error(err))
	}
	if cfg.SeedMenu {
		if err := configs.SeedMenu(db, log); err != nil {
			log.Fatal("seed menu failed", zap.Error(err))
		}
	}

	rdb, err := configs.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(ctx, r, db, rdb, cfg, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", srv.Addr), zap.Bool("debug", cfg.Debug))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
