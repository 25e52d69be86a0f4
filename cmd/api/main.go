package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/craftline/artisan-market/internal/config"
	"github.com/craftline/artisan-market/internal/httpx"
	kafkax "github.com/craftline/artisan-market/internal/kafka"
	"github.com/craftline/artisan-market/internal/logging"
	"github.com/craftline/artisan-market/internal/market"
	"github.com/craftline/artisan-market/internal/postgres"
	"github.com/craftline/artisan-market/internal/purchase"
	"github.com/craftline/artisan-market/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.ServiceName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers for resolved purchase attempts
	pOK := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicPurchaseCompleted, 1024)
	pOK.Start(ctx)
	pRJ := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicPurchaseRejected, 1024)
	pRJ.Start(ctx)

	// Core
	writer, err := purchase.NewLedgerWriter(cfg.CommissionRate)
	if err != nil {
		log.Fatalf("commission rate: %v", err)
	}
	coordinator := &purchase.Coordinator{DB: db, Writer: writer, Log: logger}
	reporter := &purchase.Reporter{
		Audit:     &market.AuditRepo{DB: db},
		Completed: pOK,
		Rejected:  pRJ,
		Cache:     rdb,
		Service:   cfg.ServiceName,
		Log:       logger,
	}

	// Handlers
	router := httpx.NewRouter()
	(&httpx.PurchaseHandler{Coordinator: coordinator, Reporter: reporter}).Register(router)
	(&httpx.CatalogHandler{Repo: &market.CatalogRepo{DB: db}, Redis: rdb}).Register(router)
	(&httpx.OrdersHandler{Repo: &market.OrderRepo{DB: db}, Redis: rdb}).Register(router)
	(&httpx.UsersHandler{Repo: &market.UserRepo{DB: db}}).Register(router)
	(&httpx.AdminHandler{Finance: &market.FinanceRepo{DB: db}, Audit: &market.AuditRepo{DB: db}}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pOK.Close() // close inbox -> flush & close writer
	pRJ.Close()
	cancel() // stop producer loops
	pOK.WaitClosed()
	pRJ.WaitClosed()
}
