// Notifier back office: konsumsi event checkout dan catat handoff order
// untuk operator toko. Murni observasi — hasil checkout tidak pernah
// bergantung pada proses ini.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/arigading/go-catalog-checkout/internal/config"
	"github.com/arigading/go-catalog-checkout/internal/events"
	kafkax "github.com/arigading/go-catalog-checkout/internal/kafka"
	"github.com/arigading/go-catalog-checkout/internal/redisx"
	"github.com/arigading/go-catalog-checkout/internal/whatsapp"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required for the notifier")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	group := getenv("NOTIFIER_GROUP", "checkout-notifier")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group,
		[]string{events.TopicCheckoutSucceeded, events.TopicCheckoutFailed})

	go func() {
		log.Printf("notifier started: group=%s", group)
		if err := cons.Start(ctx, handler(rdb)); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down notifier...")
	cancel()
}

func handler(rdb *redis.Client) kafkax.Handler {
	return func(ctx context.Context, m kafkago.Message) error {
		var env events.Envelope
		if err := json.Unmarshal(m.Value, &env); err != nil {
			return err
		}

		// dedup per event id; consumer group bisa redeliver
		dkey := fmt.Sprintf(redisx.KeyNotifierDedup, env.EventID)
		if ok, _ := rdb.SetNX(ctx, dkey, "1", redisx.TTLNotifierDedup).Result(); !ok {
			return nil
		}

		switch env.EventType {
		case events.TypeCheckoutSucceeded:
			var p events.CheckoutSucceededPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				return err
			}
			log.Printf("ORDER %s: %d item, total %s (cart %s)",
				p.OrderID, len(p.Items), whatsapp.FormatRupiah(p.Total), p.CartID)
		case events.TypeCheckoutPartialFailure:
			var p events.CheckoutPartialFailurePayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				return err
			}
			log.Printf("REKONSILIASI MANUAL DIBUTUHKAN (cart %s): gagal di produk %s setelah %d item terpotong: %s",
				p.CartID, p.FailedID, len(p.Committed), p.Error)
		default:
			// event lain diabaikan
		}
		return nil
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
