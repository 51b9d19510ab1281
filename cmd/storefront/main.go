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

	"github.com/arigading/go-catalog-checkout/internal/auth"
	"github.com/arigading/go-catalog-checkout/internal/cart"
	"github.com/arigading/go-catalog-checkout/internal/catalog"
	"github.com/arigading/go-catalog-checkout/internal/checkout"
	"github.com/arigading/go-catalog-checkout/internal/config"
	"github.com/arigading/go-catalog-checkout/internal/events"
	"github.com/arigading/go-catalog-checkout/internal/httpx"
	kafkax "github.com/arigading/go-catalog-checkout/internal/kafka"
	"github.com/arigading/go-catalog-checkout/internal/redisx"
	"github.com/arigading/go-catalog-checkout/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Remote store + catalog cache
	client := store.NewClient(cfg.StoreBaseURL)
	cache := catalog.NewCache(client)
	if err := cache.Refresh(ctx); err != nil {
		// boleh start dengan katalog kosong; refresh berikutnya akan mengisi
		log.Printf("initial catalog refresh failed: %v", err)
	}

	// Redis: keranjang durable + sesi admin
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	carts := cart.NewRedisStore(rdb)

	// Kafka producer opsional untuk event checkout
	var prodOK, prodFail *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prodOK = kafkax.NewProducer(cfg.KafkaBrokers, events.TopicCheckoutSucceeded, 1024)
		prodOK.Start(ctx)
		prodFail = kafkax.NewProducer(cfg.KafkaBrokers, events.TopicCheckoutFailed, 1024)
		prodFail.Start(ctx)
	}

	orch := checkout.NewOrchestrator(client, cache, carts, cfg.WhatsAppNumber, cfg.CheckoutWriteDelay)

	router := httpx.NewRouter()
	sh := &httpx.StorefrontHandler{
		Catalog:      cache,
		Store:        client,
		Carts:        carts,
		Checkout:     orch,
		ProducerOK:   prodOK,
		ProducerFail: prodFail,
		Service:      cfg.ServiceName,
	}
	sh.Register(router)
	ah := &httpx.AdminHandler{
		Auth:    auth.NewService(rdb, cfg.AdminEmail, cfg.AdminPassword),
		Store:   client,
		Catalog: cache,
	}
	ah.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("storefront listening at %s (store=%s)", cfg.HTTPAddr, cfg.StoreBaseURL)
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
	cancel() // stop producer loop, flush sisa event
	prodOK.WaitClosed()
	prodFail.WaitClosed()
}
