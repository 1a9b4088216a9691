package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Haseeb044/ecommerce-backend-design/internal/cache"
	"github.com/Haseeb044/ecommerce-backend-design/internal/config"
	"github.com/Haseeb044/ecommerce-backend-design/internal/es"
	"github.com/Haseeb044/ecommerce-backend-design/internal/events"
	"github.com/Haseeb044/ecommerce-backend-design/internal/httpserver"
	"github.com/Haseeb044/ecommerce-backend-design/internal/logging"
	authmw "github.com/Haseeb044/ecommerce-backend-design/internal/middleware/auth"
	loggingmw "github.com/Haseeb044/ecommerce-backend-design/internal/middleware/logging"
	"github.com/Haseeb044/ecommerce-backend-design/internal/models"
	"github.com/Haseeb044/ecommerce-backend-design/internal/repo"
	"github.com/Haseeb044/ecommerce-backend-design/internal/service"
	"github.com/Haseeb044/ecommerce-backend-design/pkg/db"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := gormDB.AutoMigrate(&models.User{}, &models.Product{}, &models.RefreshToken{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	rdb := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	}

	store := &repo.GormRepo{DB: gormDB}
	authSvc := &service.AuthService{
		Repo:          store,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		Producer:      producer,
	}
	catalogSvc := &service.CatalogService{
		Repo:     store,
		Cache:    rdb,
		Producer: producer,
		ES:       esClient,
		ESIndex:  cfg.ESIndex,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc},
		Guard:          &authmw.Guard{JWTSecret: cfg.JWTSecret},
	}
	if esClient != nil {
		deps.SearchHandler = httpserver.NewSearchHandler(esClient, cfg.ESIndex)
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort, "service", cfg.ServiceName)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Printf("redis close error: %v", err)
		}
	}

	logger.Info("shutdown complete")
}
