package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/callmeprinceyadav/Levich/internal/adapters/api"
	"github.com/callmeprinceyadav/Levich/internal/adapters/events"
	"github.com/callmeprinceyadav/Levich/internal/adapters/ws"
	"github.com/callmeprinceyadav/Levich/internal/auction"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load environment variables (local overrides .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Core engine
	clock := auction.NewClock()
	registry := auction.NewRegistry(auction.DefaultCatalog(), clock)
	service := auction.NewService(registry, clock)

	// 2. Event sinks: WebSocket hub always, RabbitMQ when configured
	hub := ws.NewHub(logger)
	sinks := []auction.EventSink{hub}

	if rabbitURL := os.Getenv("RABBITMQ_URL"); rabbitURL != "" {
		amqpConn, err := amqp091.Dial(rabbitURL)
		if err != nil {
			logger.Error("Failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer amqpConn.Close()

		publisher, err := events.NewRabbitMQPublisher(amqpConn)
		if err != nil {
			logger.Error("Failed to create RabbitMQ publisher", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
		logger.Info("RabbitMQ Connected")
	}

	dispatcher := events.NewDispatcher(logger, sinks...)

	// 3. HTTP surface
	handler := api.NewHandler(service, dispatcher, logger)
	router := handler.Router()
	router.HandleFunc("/ws", hub.ServeWS)

	server := &http.Server{
		Addr:              addr,
		Handler:           cors.AllowAll().Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(ctx)
	})

	g.Go(func() error {
		logger.Info("Auction server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
