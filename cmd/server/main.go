package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dhnshshettigar/sweet-shop-backend/internal/config"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/events"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/handlers"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/logging"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/middleware"
	authmw "github.com/dhnshshettigar/sweet-shop-backend/internal/middleware/auth"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/repo"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/search"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/service"
	httpserver "github.com/dhnshshettigar/sweet-shop-backend/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.DBHost, "DB_HOST")

	ctx := context.Background()
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.Noop{}
	var producer *events.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewKafkaProducer(cfg.KafkaBrokers)
		publisher = producer
	}

	var searchClient *search.Client
	if cfg.ESURL != "" {
		searchClient, err = search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword, search.DefaultIndex)
		if err != nil {
			logger.Error("elasticsearch init failed", "error", err)
			os.Exit(1)
		}
	}

	store := repo.New(db)
	authSvc := &service.AuthService{Repo: store, JWTSecret: cfg.JWTSecret, Events: publisher}
	catalogSvc := &service.CatalogService{Repo: store, Events: publisher, Search: searchClient}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.HTTPErrorHandler = httpserver.ErrorHandler(logger)

	httpserver.Register(e, &httpserver.Deps{
		DB:           db,
		AuthHandler:  &handlers.AuthHandler{Svc: authSvc},
		SweetHandler: &handlers.SweetHandler{Svc: catalogSvc},
		AuthMW:       authmw.New(cfg.JWTSecret),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
