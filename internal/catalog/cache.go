package catalog

import (
	"context"
	"fmt"
	"sync"
)

// Lister adalah sisi remote store yang dibutuhkan cache.
type Lister interface {
	List(ctx context.Context) ([]Product, error)
}

// Cache memegang mirror daftar produk dari remote store. Refresh mengganti
// snapshot secara atomik; reader tidak pernah melihat daftar setengah jadi.
// Kalau refresh gagal, snapshot lama dipertahankan (stale tapi tetap bisa
// dipakai) dan error dikembalikan ke pemanggil.
type Cache struct {
	store Lister

	mu       sync.RWMutex
	products []Product
	byID     map[string]Product
}

func NewCache(store Lister) *Cache {
	return &Cache{store: store, byID: map[string]Product{}}
}

func (c *Cache) Refresh(ctx context.Context) error {
	list, err := c.store.List(ctx)
	if err != nil {
		return fmt.Errorf("catalog refresh: %w", err)
	}

	byID := make(map[string]Product, len(list))
	for _, p := range list {
		byID[p.ID] = p
	}

	c.mu.Lock()
	c.products = list
	c.byID = byID
	c.mu.Unlock()
	return nil
}

// Current mengembalikan salinan snapshot saat ini.
func (c *Cache) Current() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Cache) Get(id string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// StockOf mengembalikan stok live sebuah produk, 0 jika tidak dikenal.
func (c *Cache) StockOf(id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID[id].Stock
}
