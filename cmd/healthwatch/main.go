package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	_ "healthwatch/configs"
	"healthwatch/internal/application/broadcast"
	"healthwatch/internal/application/controller"
	"healthwatch/internal/application/middleware"
	"healthwatch/internal/application/notify"
	"healthwatch/internal/application/schedule"
	"healthwatch/internal/domain/gateway/api"
	"healthwatch/internal/domain/gateway/store"
	"healthwatch/internal/domain/usecase/health"
	awsinfra "healthwatch/internal/infra/aws"
	"healthwatch/internal/infra/connectivity"
	httppkg "healthwatch/pkg/http"
	"healthwatch/pkg/log"
	"healthwatch/pkg/msg"
	redispkg "healthwatch/pkg/redis"
	"healthwatch/pkg/resource"
)

func main() {
	log.Info(msg.GetMessage("app.start"))

	// Persistent store: Redis when configured, in-process otherwise
	var backing store.Store
	var redisClient *redispkg.Client
	if resource.GetBool("redis.enabled") {
		redisConfig := redispkg.NewRedisConfig().
			WithHost(resource.GetStringOrDefault("redis.host", "localhost")).
			WithPort(resource.GetInt("redis.port")).
			WithPassword(resource.GetString("redis.password")).
			WithDatabase(resource.GetInt("redis.database"))
		redisClient = redispkg.NewClient(redisConfig)
		backing = store.NewRedisStore(redisClient)
	} else {
		backing = store.NewMemoryStore()
	}
	cache := store.NewCache(backing)

	// Remote health endpoints
	httpClient := httppkg.NewHttpClient(resource.GetString("app.health.api.base-url"), httppkg.ClientOptions{
		ReadTimeout:       resource.GetDurationOrDefault("app.health.api.read-timeout", 10*time.Second),
		ConnectionTimeout: resource.GetDurationOrDefault("app.health.api.connection-timeout", 5*time.Second),
	})
	gateway := api.NewHealthGateway(httpClient)

	// Connectivity monitor
	monitor := connectivity.NewMonitor().
		WithPollInterval(resource.GetDurationOrDefault("connectivity.poll-interval", 5*time.Second))
	monitor.Start()

	// Broadcast of computed results, mirrored to Redis when available
	broadcaster := broadcast.New()
	if redisClient != nil {
		publisher := redispkg.NewPublisher(redisClient, "")
		broadcaster.WithMirror(broadcast.NewRedisMirror(publisher, resource.GetString("app.broadcast.redis-channel")))
	}

	// Poller
	useCase := health.NewHealthUseCase(gateway, cache, monitor, broadcaster)
	useCase.SetStalenessThreshold(resource.GetDurationOrDefault("app.health.staleness-threshold", store.DefaultStalenessThreshold))

	// Scheduler
	scheduler := schedule.NewHealthScheduler(useCase, monitor)
	pollInterval := resource.GetDurationOrDefault("app.health.poll-interval", 5*time.Minute)
	if err := scheduler.Start(pollInterval); err != nil {
		log.Fatalf("Failed to start health scheduler: %v", err)
	}

	// Transition notifications over SQS when a queue is configured
	var notifier *notify.Notifier
	if queueURL := resource.GetString("app.notify.queue-url"); queueURL != "" {
		awsConfig, err := awsinfra.NewConfig(context.Background())
		if err != nil {
			log.Fatalf("Failed to load AWS configuration: %v", err)
		}
		sender := awsinfra.NewSqsSender(awsinfra.NewSqsClient(awsConfig))
		notifier = notify.NewNotifier(sender, broadcaster, queueURL)
		notifier.Start()
	}

	// First check: wait briefly for connectivity, then fall back to offline synthesis
	waitTimeout := resource.GetDurationOrDefault("app.health.connectivity-wait-timeout", 8*time.Second)
	go useCase.PerformCheckWithWait(context.Background(), waitTimeout)

	// HTTP surface
	e := echo.New()
	e.HideBanner = true
	middleware.SetupRequestLogger(e)
	apiGroup := e.Group(resource.GetStringOrDefault("app.server.context-path", "/healthwatch"))
	monitorController := controller.NewMonitorController(apiGroup, useCase, broadcaster, scheduler)
	monitorController.InitMonitorRoutes()

	go func() {
		port := resource.GetStringOrDefault("app.server.port", "8080")
		if err := e.Start(":" + port); err != nil {
			log.Infof("HTTP server stopped: %v", err)
		}
	}()
	log.Info(msg.GetMessage("app.started"))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info(msg.GetMessage("app.stopping"))

	scheduler.Stop()
	if notifier != nil {
		notifier.Stop()
	}
	monitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown failed: %v", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Errorf("Failed to close Redis client: %v", err)
		}
	}
	log.Info(msg.GetMessage("app.stopped"))
}
