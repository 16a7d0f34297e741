package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vishudhGupta/salon-management-api/internal/booking"
	"github.com/vishudhGupta/salon-management-api/internal/config"
	"github.com/vishudhGupta/salon-management-api/internal/directory"
	"github.com/vishudhGupta/salon-management-api/internal/events"
	"github.com/vishudhGupta/salon-management-api/internal/gateway"
	"github.com/vishudhGupta/salon-management-api/internal/httpapi"
	"github.com/vishudhGupta/salon-management-api/internal/metrics"
	"github.com/vishudhGupta/salon-management-api/internal/reminders"
	"github.com/vishudhGupta/salon-management-api/internal/repository"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("SALON_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := repository.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		logger.Fatal().Err(err).Msg("mongo connect error")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()
	store := repository.NewStore(client, cfg.Mongo.Database)

	dir := directory.New(store.Users, store.Salons, store.Services, store.Experts, store.Appointments, store.Ratings)
	var rdb *redis.Client
	if cfg.Redis.Enabled && cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		dir.UseRedisCache(rdb, cfg.CacheTTL())
	}

	var sender gateway.Gateway
	twilioCfg := gateway.TwilioConfig{
		AccountSID:     cfg.Twilio.AccountSID,
		AuthToken:      cfg.Twilio.AuthToken,
		From:           "whatsapp:" + cfg.Twilio.WhatsAppNumber,
		SendsPerSecond: cfg.Twilio.SendsPerSecond,
	}
	sender, err = gateway.NewTwilioGateway(twilioCfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("twilio gateway error")
	}

	bus := events.NewBus()
	bus.Subscribe(events.TypeBookingCommitted, func(ev events.Event) {
		logger.Info().Str("recipient", ev.Recipient).Interface("payload", ev.Payload).Msg("booking committed")
	})
	bus.Subscribe(events.TypeSessionFailed, func(ev events.Event) {
		logger.Warn().Str("recipient", ev.Recipient).Interface("payload", ev.Payload).Msg("session failed")
	})

	metrics.Register()

	engine := booking.NewEngine(dir, sender, bus, booking.Config{
		SessionTimeout:      cfg.SessionTimeout(),
		CollaboratorTimeout: cfg.CollaboratorTimeout(),
		RetryBudget:         cfg.Booking.RetryBudget,
	}, &logger)

	if cfg.Reminders.Enabled {
		sweeper := reminders.New(store.Appointments, store.Users, sender,
			reminders.Config{Interval: cfg.ReminderInterval()}, &logger)
		go sweeper.Run(ctx)
	}

	readyChecks := []func(ctx context.Context) error{
		func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			return client.Ping(pingCtx, readpref.Primary())
		},
	}
	if rdb != nil {
		readyChecks = append(readyChecks, func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			return rdb.Ping(pingCtx).Err()
		})
	}

	// Probe and scrape endpoints ride the API router too; the side
	// listeners exist for deployments where the API port is not exposed
	// to the orchestrator or the Prometheus scraper.
	if cfg.Monitoring.HealthCheckPort > 0 {
		go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, readyChecks, &logger)
	}
	if cfg.Monitoring.PrometheusEnabled {
		port := cfg.Monitoring.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go startMetricsServer(ctx, port, &logger)
	}

	api := httpapi.New(httpapi.Deps{
		Users:        store.Users,
		Salons:       store.Salons,
		Services:     store.Services,
		Experts:      store.Experts,
		Appointments: store.Appointments,
		Ratings:      store.Ratings,
		Engine:       engine,
		Logger:       &logger,
		ReadyChecks:  readyChecks,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("address", cfg.Server.Address).Msg("salon booking server started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("server stopped")
}

func startHealthServer(ctx context.Context, port int, readyChecks []func(ctx context.Context) error, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		for _, check := range readyChecks {
			if err := check(r.Context()); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
