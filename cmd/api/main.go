package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "foodorder/docs"
	"foodorder/pkg/api"
	"foodorder/pkg/catalog"
	catalogpg "foodorder/pkg/catalog/postgres"
	"foodorder/pkg/catalog/rediscache"
	"foodorder/pkg/config"
	"foodorder/pkg/logger"
	"foodorder/pkg/metrics"
	"foodorder/pkg/order"
	pg "foodorder/pkg/order/postgres"
	"foodorder/pkg/otel"
	"foodorder/pkg/payment"
	"foodorder/pkg/payment/mock"
	"foodorder/pkg/payment/razorpay"
)

// @title Food Order API
// @version 1.0
// @description Places and manages food orders backed by a payment gateway
// @host localhost:8443
// @BasePath /
func main() {
	configPath := flag.String("config", "", "path to a config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.New(os.Stderr, logger.LevelError, "foodorder", nil).Error(ctx, "load config", "error", err)
		return err
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Log.Level), cfg.ServiceName, otel.GetTraceID)
	defer log.Sync()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: cfg.ServiceName, Host: cfg.Otel.Host, Probability: cfg.Otel.Probability})
	if err != nil {
		log.Error(ctx, "init tracing", "error", err)
		return err
	}
	defer shutdown(context.Background())
	tracer := tp.Tracer(cfg.ServiceName)

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Error(ctx, "db connect", "error", err)
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Error(ctx, "db ping", "error", err)
		return err
	}

	repo := pg.New(db)
	if err := repo.Migrate(ctx); err != nil {
		log.Error(ctx, "migrate orders", "error", err)
		return err
	}
	menu := catalogpg.New(db)
	if err := menu.Migrate(ctx); err != nil {
		log.Error(ctx, "migrate menu items", "error", err)
		return err
	}

	var lookup catalog.Lookup = menu
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer redisClient.Close()
		lookup = rediscache.New(redisClient, menu, cfg.Redis.CatalogTTL, log)
		log.Info(ctx, "catalog cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CatalogTTL.String())
	}

	var gateway payment.Gateway
	if cfg.Razorpay.KeyID == "" && cfg.Razorpay.KeySecret == "" {
		log.Warn(ctx, "no razorpay credentials, using in-process payment gateway")
		gateway = mock.New()
	} else {
		gateway, err = razorpay.New(razorpay.Config{KeyID: cfg.Razorpay.KeyID, KeySecret: cfg.Razorpay.KeySecret})
		if err != nil {
			log.Error(ctx, "init payment gateway", "error", err)
			return err
		}
	}

	svc := order.NewService(repo, lookup, gateway, log, order.WithCurrency(cfg.Razorpay.Currency))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics(reg, "api")

	r := mux.NewRouter()
	r.Use(api.TraceMiddleware(tracer))
	r.Use(serverMetrics.Middleware)
	api.New(svc, log).Register(r)
	r.Handle("/health", api.HealthHandler(db)).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler(reg)).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.HTTP.Addr, "tls", cfg.HTTP.TLS())
		if cfg.HTTP.TLS() {
			errCh <- srv.ListenAndServeTLS(cfg.HTTP.CertFile, cfg.HTTP.KeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server closed", "error", err)
			return err
		}
	case <-sigCtx.Done():
		log.Info(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "shutdown", "error", err)
			return err
		}
	}
	return nil
}
