package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"crudapp.com/app/internal/apiclient"
	"crudapp.com/app/internal/config"
	"crudapp.com/app/internal/discovery"
	apphttp "crudapp.com/app/internal/http"
	"crudapp.com/app/internal/http/flash"
	"crudapp.com/app/internal/http/viewcookie"
	"crudapp.com/app/internal/modules/products"
	"crudapp.com/app/internal/modules/users"
	"crudapp.com/app/internal/storage"
)

func main() {
	// .env is optional; production uses real env vars
	_ = godotenv.Load()

	cfg := config.Load()

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	baseURL := cfg.APIBaseURL
	if cfg.APIDiscovery == "consul" {
		baseURL = discoverAPI(logger, cfg)
	}

	var opts []apiclient.Option
	if cfg.APIBreaker {
		opts = append(opts, apiclient.WithBreaker("crud-api", cfg.BreakerFailures, cfg.BreakerCooldown))
	}
	api := apiclient.New(baseURL, opts...)

	views, err := storage.FromConfig(ctx, storage.Config{
		Driver:    cfg.ViewStore,
		RedisAddr: cfg.RedisAddr,
		DSN:       cfg.DBDSN,
		TTL:       cfg.ViewTTL,
	})
	if err != nil {
		logger.Error("view_store_failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer views.Close()

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:        logger,
		Products:      products.NewService(api),
		Users:         users.NewService(api),
		Views:         views.Storage,
		Flash:         flash.NewCodec([]byte(cfg.FlashSecret), cfg.FlashCookie, cfg.SecureCookies),
		ViewCookies:   viewcookie.New([]byte(cfg.FlashSecret), cfg.SecureCookies, cfg.ViewTTL),
		RedirectDelay: cfg.RedirectDelay,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	go func() {
		logger.Info("server_started",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("api", baseURL),
			slog.String("view_store", views.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", slog.Any("err", err))
	}
}

// discoverAPI asks Consul for a healthy API instance and falls back to the
// configured base URL.
func discoverAPI(logger *slog.Logger, cfg config.Config) string {
	consul, err := discovery.NewConsulClient(cfg.ConsulAddr)
	if err != nil {
		logger.Warn("consul_unavailable", slog.Any("err", err))
		return cfg.APIBaseURL
	}
	url, err := consul.ServiceURL(cfg.APIServiceName)
	if err != nil {
		logger.Warn("api_discovery_failed", slog.String("service", cfg.APIServiceName), slog.Any("err", err))
		return cfg.APIBaseURL
	}
	return url
}
