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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kapilraj/pos-backend/internal/config"
	"github.com/kapilraj/pos-backend/internal/es"
	"github.com/kapilraj/pos-backend/internal/events"
	"github.com/kapilraj/pos-backend/internal/handlers"
	"github.com/kapilraj/pos-backend/internal/khalti"
	"github.com/kapilraj/pos-backend/internal/logging"
	"github.com/kapilraj/pos-backend/internal/middleware/auth"
	requestlog "github.com/kapilraj/pos-backend/internal/middleware/logging"
	"github.com/kapilraj/pos-backend/internal/repo"
	"github.com/kapilraj/pos-backend/internal/search"
	"github.com/kapilraj/pos-backend/internal/service"
	"github.com/kapilraj/pos-backend/internal/storage"
	httpserver "github.com/kapilraj/pos-backend/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	jwtSecret := []byte(cfg.JWT_SECRET)

	var producer *events.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{cfg.KAFKA_ADDRESS})
	} else {
		logger.Warn("kafka disabled, events will not be published")
	}

	var searchIndex *search.Index
	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			logger.Error("elasticsearch init failed", "error", err)
			os.Exit(1)
		}
		searchIndex = search.NewIndex(esClient, "items")
	} else {
		logger.Warn("elasticsearch disabled, item search unavailable")
	}

	var fileStore service.FileStore
	if cfg.AWS_BUCKET != "" {
		s3, err := storage.New(context.Background(), cfg.AWS_BUCKET, cfg.AWS_REGION)
		if err != nil {
			logger.Error("s3 init failed", "error", err)
			os.Exit(1)
		}
		fileStore = s3
	} else {
		logger.Warn("blob storage disabled, images will not be stored")
	}

	gateway := khalti.NewClient(cfg.KHALTI_BASE_URL, cfg.KHALTI_SECRET_KEY)

	r := &repo.GormRepo{DB: db}
	catalogSvc := service.NewCatalogService(r, fileStore, searchIndex)
	orderSvc := service.NewOrderService(r)
	dashboardSvc := service.NewDashboardService(r)
	userSvc := service.NewUserService(r, jwtSecret)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.CORS(),
		requestlog.RequestLogger(logger),
	)

	deps := httpserver.Deps{
		DB:               db,
		Auth:             auth.New(jwtSecret),
		AuthHandler:      &handlers.AuthHandler{Users: userSvc, Producer: producer},
		CategoryHandler:  &handlers.CategoryHandler{Catalog: catalogSvc, Producer: producer},
		ItemHandler:      &handlers.ItemHandler{Catalog: catalogSvc, Orders: orderSvc, Producer: producer},
		OrderHandler:     &handlers.OrderHandler{Orders: orderSvc, Producer: producer},
		PaymentHandler:   &handlers.PaymentHandler{Orders: orderSvc, Gateway: gateway, Producer: producer},
		DashboardHandler: &handlers.DashboardHandler{Dashboard: dashboardSvc},
		SearchHandler:    &handlers.SearchHandler{Index: searchIndex},
	}
	httpserver.Register(e, &deps)

	port := cfg.PORT
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
