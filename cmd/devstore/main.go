// Pengganti lokal untuk koleksi produk hosted, supaya storefront bisa jalan
// dan diuji tanpa endpoint pihak ketiga. Jalankan dengan -seed untuk mengisi
// katalog contoh.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arigading/go-catalog-checkout/internal/config"
	"github.com/arigading/go-catalog-checkout/internal/devstore"
	"github.com/arigading/go-catalog-checkout/internal/httpx"
)

func main() {
	seed := flag.Bool("seed", false, "isi katalog contoh bila tabel kosong")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	addr := getenv("DEVSTORE_ADDR", ":9090")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := devstore.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if err := devstore.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	repo := &devstore.Repo{DB: db}
	if *seed {
		n, err := repo.Seed(ctx)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Printf("seeded %d products", n)
	}

	router := httpx.NewRouter()
	h := &devstore.Handler{Repo: repo}
	h.Register(router)

	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		log.Printf("devstore listening at %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down devstore...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
