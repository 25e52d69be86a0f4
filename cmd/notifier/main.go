package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/craftline/artisan-market/internal/config"
	kafkax "github.com/craftline/artisan-market/internal/kafka"
	"github.com/craftline/artisan-market/internal/logging"
	"github.com/craftline/artisan-market/internal/market"
	"github.com/craftline/artisan-market/internal/notifier"
	"github.com/craftline/artisan-market/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.New(cfg.ServiceName + "-notifier")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-notifier",
		Log:         logger,
	}

	group := getenv("NOTIFIER_GROUP", "market-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")

	consOK := kafkax.NewConsumer(cfg.KafkaBrokers, group, market.TopicPurchaseCompleted, workers, logger)
	consRJ := kafkax.NewConsumer(cfg.KafkaBrokers, group, market.TopicPurchaseRejected, workers, logger)

	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, market.TopicPurchaseCompleted, workers)
		if err := consOK.Start(ctx, svc.HandlePurchaseCompleted); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()
	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, market.TopicPurchaseRejected, workers)
		if err := consRJ.Start(ctx, svc.HandlePurchaseRejected); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down notifier...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
