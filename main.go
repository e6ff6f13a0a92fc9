package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appcatalog "github.com/campusbazaar/marketplace/internal/application/catalog"
	appinventory "github.com/campusbazaar/marketplace/internal/application/inventory"
	apporder "github.com/campusbazaar/marketplace/internal/application/order"
	apppayment "github.com/campusbazaar/marketplace/internal/application/payment"
	"github.com/campusbazaar/marketplace/internal/config"
	httptransport "github.com/campusbazaar/marketplace/internal/infrastructure/http"
	"github.com/campusbazaar/marketplace/internal/infrastructure/memory"
	"github.com/campusbazaar/marketplace/internal/infrastructure/notify"
	"github.com/campusbazaar/marketplace/internal/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	baseLogger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDurations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	notifyFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_dispatch_failed_total",
			Help: "Count of notification deliveries that failed or were dropped.",
		},
	)
	prometheus.MustRegister(httpRequests, httpDurations, notifyFailures)

	productRepo := memory.NewProductRepository()
	listingRepo := memory.NewListingRepository()
	orderRepo := memory.NewOrderRepository()
	challengeStore := memory.NewChallengeStore()

	sender := notify.NewSMTPSender(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, baseLogger)
	mailQueue := notify.NewQueue(sender, baseLogger, notifyFailures)
	mailQueue.Start(context.Background())

	catalogService := appcatalog.NewService(productRepo)
	inventoryService := appinventory.NewService(listingRepo, productRepo, orderRepo)
	orderService := apporder.NewService(orderRepo, productRepo)
	paymentService := apppayment.NewService(orderRepo, orderService, challengeStore, mailQueue, cfg.OTPTTL)

	handler := httptransport.NewHandler(catalogService, inventoryService, orderService, paymentService)
	observe := httptransport.Observability(baseLogger, httptransport.Metrics{
		Requests:  httpRequests,
		Durations: httpDurations,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", observe(handler.Router()))

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("http_server_start",
			zap.String("addr", server.Addr),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Error("http_server_error",
				zap.Error(err),
			)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("http_server_shutdown_error",
			zap.Error(err),
		)
	} else {
		baseLogger.Info("http_server_stopped")
	}
	mailQueue.Stop(shutdownCtx)
}
