package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Patoruzuy/SYSGrow-sub003/internal/services/aggregator"
	"github.com/Patoruzuy/SYSGrow-sub003/internal/services/analytics"
	"github.com/Patoruzuy/SYSGrow-sub003/internal/services/dashboard"
	"github.com/Patoruzuy/SYSGrow-sub003/internal/services/notification"
	"github.com/Patoruzuy/SYSGrow-sub003/pkg/growbus"
)

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	unitID := env("UNIT_ID", "")

	analyticsURL := env("ANALYTICS_URL", "http://localhost:8001")
	notificationURL := env("NOTIFICATION_URL", "http://localhost:8002")
	httpTimeout := envDuration("HTTP_TIMEOUT", 5*time.Second)

	ac := analytics.NewClient(analyticsURL, analytics.Options{
		Timeout:         httpTimeout,
		BreakerFailures: uint32(envInt("BREAKER_FAILURES", 3)),
		BreakerOpenFor:  envDuration("BREAKER_OPEN_FOR", 15*time.Second),
	})
	nc := notification.NewClient(notificationURL, notification.ClientOptions{
		Timeout:         httpTimeout,
		BreakerFailures: uint32(envInt("BREAKER_FAILURES", 3)),
		BreakerOpenFor:  envDuration("BREAKER_OPEN_FOR", 15*time.Second),
	})

	view := dashboard.NewSnapshotView()
	view.SetUnit(unitID)

	// Push channel. The dashboard still works without it: the periodic
	// refresh reconciles everything the channel would have delivered.
	var consumer growbus.IConsumer
	busCfg := &growbus.Config{
		Host:     env("MQTT_HOST", "localhost"),
		Port:     envInt("MQTT_PORT", 1883),
		User:     env("MQTT_USER", "guest"),
		Password: env("MQTT_PASSWORD", "guest"),
		ClientID: fmt.Sprintf("sysgrow-dashboard-%s", env("HOSTNAME", "local")),
	}
	mqClient, err := growbus.Connect(ctx, busCfg)
	if err != nil {
		log.Printf("main: push channel unavailable, relying on periodic refresh: %v", err)
	} else {
		consumer = growbus.NewConsumer(mqClient, growbus.DashboardTopics(), nil)
	}

	agg := aggregator.New(aggregator.Config{
		RefreshPeriod:   envDuration("REFRESH_PERIOD", 5*time.Minute),
		FetchTimeout:    envDuration("FETCH_TIMEOUT", 10*time.Second),
		InsightLimit:    envInt("INSIGHT_LIMIT", 10),
		ForecastDays:    envInt("FORECAST_DAYS", 7),
		ComparisonLimit: envInt("COMPARISON_LIMIT", 5),
	}, ac, view, consumer)
	agg.SetUnit(unitID)
	agg.Start(ctx)
	defer agg.Stop()

	store := notification.NewStore(nc, envInt("PAGE_SIZE", 10))
	store.SetUnit(unitID)
	executor := notification.NewExecutor(nc, store, view)
	center := notification.NewCenter(store, executor, view, envDuration("POLL_PERIOD", time.Minute))
	center.Start(ctx)
	defer center.Stop()

	srv := dashboard.NewServer(view, center, ac, mqClient)
	hs := &http.Server{
		Addr:              ":" + env("PORT", "8080"),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("dashboard listening on %s (unit=%q)", hs.Addr, unitID)
		if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	<-sigc

	log.Println("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = hs.Shutdown(shutdownCtx)
	cancel()
}
