package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"presales-tracker/internal/config"
	"presales-tracker/internal/database"
	"presales-tracker/internal/logger"
	"presales-tracker/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	if err := database.Init(cfg); err != nil {
		logrus.Fatalf("database: %v", err)
	}

	r, err := server.NewRouter(cfg)
	if err != nil {
		logrus.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: r,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		<-shutdownCh

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logrus.Info("shutdown signal received, stopping the server...")
		if err := srv.Shutdown(ctx); err != nil {
			logrus.Errorf("failed to shut down gracefully: %v", err)
		}
	}()

	logrus.Infof("starting server on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatalf("server error: %v", err)
	}
	<-done

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logrus.Info("server stopped")
}
