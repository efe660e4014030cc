package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"

	"ticket-engine/config"
	"ticket-engine/notification"
	"ticket-engine/services"
	"ticket-engine/services/gateway"
	"ticket-engine/store"
	"ticket-engine/utils"
)

func main() {
	cfg := config.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage
	st, err := store.New(ctx, cfg)
	if err != nil {
		log.Fatalf("store init: %v", err)
	}

	// Initialize Redis (optional: shares the ticket-ID claim space
	// across engine instances)
	var redisClient *redis.Client
	idRegistry := store.TicketIDRegistry(st)
	if cfg.RedisEnabled {
		redisClient, err = utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis init: %v", err)
		}
		defer redisClient.Close()
		idRegistry = store.NewRedisTicketIDRegistry(redisClient)
	}

	// Initialize payment gateway
	gatewayClient, err := gateway.New(ctx, gateway.Provider(cfg.GatewayProvider))
	if err != nil {
		log.Fatalf("gateway init: %v", err)
	}
	defer gatewayClient.Close(ctx)

	// Initialize notifiers
	var notifiers notification.MultiNotifier
	if cfg.SMTPAddr != "" {
		notifiers = append(notifiers, notification.NewEmailNotifier(cfg.SMTPAddr, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom))
	}
	if cfg.PubNubPublishKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		notifiers = append(notifiers, notification.NewPubNubNotifier(pubnub.NewPubNub(pnConfig)))
	}
	var notifier notification.Notifier = notifiers
	if len(notifiers) == 0 {
		notifier = notification.NopNotifier{}
	}

	// Initialize services
	inventoryService := services.NewInventoryService(st)
	promoService := services.NewPromoService(st)
	paymentService := services.NewPaymentService(st, st)
	idGenerator := services.NewTicketIDGenerator(idRegistry, cfg.TicketIDMaxRetries)
	bookingService := services.NewBookingService(st, inventoryService, promoService, paymentService, idGenerator, gatewayClient, notifier)
	_ = bookingService // exposed to the transport layer hosting this engine

	slog.Info("ticket engine initialized",
		"environment", cfg.Environment,
		"storage", cfg.StorageBackend,
		"gateway", cfg.GatewayProvider,
	)

	// Metrics and health endpoints
	mux := http.NewServeMux()
	if cfg.EnableMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	server := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: mux,
	}

	go func() {
		log.Printf("metrics server listening on :%s", cfg.MetricsPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server: %v", err)
		}
	}()

	// Setup graceful shutdown
	go handleShutdown(cancel)

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics server shutdown: %v", err)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
