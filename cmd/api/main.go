package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/orchids/voice-monitor/internal/config"
	"github.com/orchids/voice-monitor/internal/handler"
	"github.com/orchids/voice-monitor/internal/probe"
	"github.com/orchids/voice-monitor/internal/service"
	"github.com/orchids/voice-monitor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Environment, cfg.LogLevel)
	log.Info(context.Background(), "Starting voice platform monitor", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	})

	monitor, err := service.NewMonitor(cfg, log)
	if err != nil {
		log.Fatal(context.Background(), "Failed to initialize monitor", err, nil)
	}

	registerProbes(monitor, cfg, log)

	monitor.Start()
	defer monitor.Stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	monitoringHandler := handler.NewMonitoringHandler(monitor, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log, monitor))

	router.GET("/health", monitoringHandler.Health)

	api := router.Group("/api/monitoring")
	{
		api.GET("/dashboard", monitoringHandler.Dashboard)
		api.GET("/history", monitoringHandler.History)
		api.GET("/alerts", monitoringHandler.ListAlerts)
		api.GET("/alerts/active", monitoringHandler.ActiveAlerts)
		api.POST("/alerts", monitoringHandler.CreateAlert)
		api.POST("/alerts/:id/resolve", monitoringHandler.ResolveAlert)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info(context.Background(), "HTTP server starting", map[string]interface{}{
			"address": cfg.Server.Address(),
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(context.Background(), "Failed to start server", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(context.Background(), "Shutting down...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(context.Background(), "Server forced to shutdown", err, nil)
	}

	log.Info(context.Background(), "Server exited gracefully", nil)
}

// registerProbes wires dependency health probes for whatever backing services
// are configured. A missing address just means that probe is not registered.
func registerProbes(monitor *service.Monitor, cfg *config.Config, log *logger.Logger) {
	ctx := context.Background()

	if cfg.Probes.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Probes.RedisAddr,
			Password: cfg.Probes.RedisPassword,
			DB:       cfg.Probes.RedisDB,
		})
		monitor.RegisterCheck("redis", probe.Redis(client))

		inspector := asynq.NewInspector(asynq.RedisClientOpt{
			Addr:     cfg.Probes.RedisAddr,
			Password: cfg.Probes.RedisPassword,
			DB:       cfg.Probes.RedisDB,
		})
		monitor.RegisterCheck("task_queue", probe.Queue(inspector, cfg.Probes.QueueMaxPending))

		log.Info(ctx, "Registered redis and task queue probes", map[string]interface{}{
			"addr": cfg.Probes.RedisAddr,
		})
	}

	if cfg.Probes.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Probes.PostgresDSN)
		if err != nil {
			log.Error(ctx, "Failed to build postgres pool, probe disabled", err, nil)
		} else {
			monitor.RegisterCheck("postgres", probe.Postgres(pool))
			log.Info(ctx, "Registered postgres probe", nil)
		}
	}
}

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		ctx := context.WithValue(c.Request.Context(), "request_id", requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// LoggerMiddleware logs each request and feeds the outcome back into the
// aggregator so the monitor's own API traffic shows up in the snapshots.
func LoggerMiddleware(log *logger.Logger, monitor *service.Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		monitor.RecordAPIRequest(statusCode < 500, float64(latency.Milliseconds()))

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info(c.Request.Context(), "HTTP request", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"status":     statusCode,
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
	}
}
