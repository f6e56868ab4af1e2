package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/issuetracker/internal/config"
	"github.com/gogotex/issuetracker/internal/server"
	"github.com/gogotex/issuetracker/internal/storage"
	"github.com/gogotex/issuetracker/pkg/logger"
	"github.com/gogotex/issuetracker/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: store=%s redis=%v rate_limit=%v", cfg.Store.Driver, cfg.Redis.Addr() != "", cfg.RateLimit.Enabled)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open store: %v", err)
	}

	rdb := server.ConnectRedis(ctx, cfg.Redis, cfg.RateLimit)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r, err := server.New(server.Deps{Repo: repo, Redis: rdb, RateLimit: cfg.RateLimit})
	if err != nil {
		logger.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("Listening on port %s", cfg.Server.Port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Infof("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := repo.Close(shutdownCtx); err != nil {
		logger.Errorf("store close: %v", err)
	}
}
