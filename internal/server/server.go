package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/issuetracker/internal/config"
	"github.com/gogotex/issuetracker/internal/issue/handler"
	"github.com/gogotex/issuetracker/internal/issue/repository"
	"github.com/gogotex/issuetracker/internal/issue/service"
	"github.com/gogotex/issuetracker/pkg/logger"
	"github.com/gogotex/issuetracker/pkg/middleware"
	"github.com/gogotex/issuetracker/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

// Deps are the long-lived collaborators the router is built around.
type Deps struct {
	Repo      repository.Repository
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
}

// New builds the HTTP router: issue API, pages, health and metrics endpoints.
func New(d Deps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.CORS(), middleware.RequestLog(), gin.Recovery())

	if d.RateLimit.Enabled {
		if d.RateLimit.UseRedis && d.Redis != nil {
			win := time.Duration(d.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(d.Redis, d.RateLimit.RPS, d.RateLimit.Burst, win))
			logger.Infof("rate limiter: redis (rps=%.1f burst=%d window=%s)", d.RateLimit.RPS, d.RateLimit.Burst, win)
		} else {
			r.Use(middleware.RateLimitMiddleware(d.RateLimit.RPS, d.RateLimit.Burst))
			logger.Infof("rate limiter: memory (rps=%.1f burst=%d)", d.RateLimit.RPS, d.RateLimit.Burst)
		}
	}

	if err := registerPages(r); err != nil {
		return nil, err
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(d))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	RegisterSwagger(r)

	handler.RegisterIssueRoutes(r, service.NewService(d.Repo))

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not Found")
	})
	return r, nil
}

func registerPages(r *gin.Engine) error {
	public, err := web.Public()
	if err != nil {
		return fmt.Errorf("public assets: %w", err)
	}
	r.StaticFS("/public", http.FS(public))

	for route, name := range map[string]string{"/": "index.html", "/:project/": "issue.html"} {
		page, err := web.Page(name)
		if err != nil {
			return fmt.Errorf("page %s: %w", name, err)
		}
		r.GET(route, func(c *gin.Context) {
			c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		})
	}
	return nil
}

// readiness returns 200 only when the store (and Redis, when the limiter uses it) answers a ping.
func readiness(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := map[string]bool{}

		if err := d.Repo.Ping(ctx); err != nil {
			logger.Warnf("readiness: store ping: %v", err)
			deps["store"] = false
			ready = false
		} else {
			deps["store"] = true
		}

		if d.RateLimit.Enabled && d.RateLimit.UseRedis {
			deps["redis"] = d.Redis != nil && d.Redis.Ping(ctx).Err() == nil
			if !deps["redis"] {
				ready = false
			}
		}

		uptime := time.Since(startTime).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	}
}
