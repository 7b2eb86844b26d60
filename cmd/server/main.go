package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/little_lemon/internal/config"
	"github.com/Skotchmaster/little_lemon/internal/db"
	"github.com/Skotchmaster/little_lemon/internal/events"
	"github.com/Skotchmaster/little_lemon/internal/httpserver"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	loggingmw "github.com/Skotchmaster/little_lemon/internal/middleware/logging"
	"github.com/Skotchmaster/little_lemon/internal/repo"
	"github.com/Skotchmaster/little_lemon/internal/service"
)

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(initCtx, gdb)
	}
	cancel()
	if err != nil {
		logger.Error("db_init_error", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	r := &repo.GormRepo{DB: gdb}
	authSvc := &service.AuthService{
		Repo:          r,
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		ctx := logging.IntoContext(context.Background(), logger)
		if err := authSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logger.Error("ensure_admin_error", "error", err)
			os.Exit(1)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID(), middleware.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.Recover())

	httpserver.Register(e, &httpserver.Deps{
		Auth:          &httpserver.AuthHTTP{Svc: authSvc},
		Catalog:       &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		Cart:          &httpserver.CartHTTP{Svc: &service.CartService{Repo: r}},
		Orders:        &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Events: publisher}},
		Groups:        &httpserver.GroupHTTP{Svc: &service.GroupService{Repo: r, Events: publisher}},
		Authenticator: authSvc,
		Ready:         func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		CSRF:          cfg.CSRFEnabled,
	})

	addr := ":" + strconv.Itoa(cfg.ServerPort)
	go func() {
		logger.Info("server_starting", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
