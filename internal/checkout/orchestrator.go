package checkout

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arigading/go-catalog-checkout/internal/cart"
	"github.com/arigading/go-catalog-checkout/internal/catalog"
	"github.com/arigading/go-catalog-checkout/internal/whatsapp"
)

// RemoteStore adalah operasi remote yang dibutuhkan loop pengurangan stok.
type RemoteStore interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
	Update(ctx context.Context, id string, p catalog.Product) (catalog.Product, error)
}

// Catalog adalah sisi catalog cache yang dibutuhkan validasi & rekonsiliasi.
type Catalog interface {
	Get(id string) (catalog.Product, bool)
	Refresh(ctx context.Context) error
}

// Item adalah satu baris dalam set checkout yang sudah tervalidasi.
type Item struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Session adalah state transien satu attempt checkout; dibuat saat Begin,
// dihancurkan saat confirm/cancel/gagal.
type Session struct {
	ID        string
	CartID    string
	Items     []Item
	Total     int64
	Phase     Phase
	CreatedAt time.Time
}

// BeginResult dikembalikan ke client supaya bisa membuka link WhatsApp.
type BeginResult struct {
	CheckoutID string
	Message    string
	Link       string
	Items      []Item
	Total      int64
}

// Result adalah hasil checkout yang sukses penuh.
type Result struct {
	OrderID string
	CartID  string
	Items   []Item
	Total   int64
}

// sessionTTL adalah katup pengaman untuk sesi yang ditinggalkan user tanpa
// confirm/cancel; bukan bagian dari protokol.
const sessionTTL = 30 * time.Minute

// Orchestrator menjalankan protokol checkout: validasi semua-atau-tidak,
// handoff WhatsApp, konfirmasi dua fase, lalu pengurangan stok berurutan
// lewat remote store — tanpa rollback saat gagal sebagian.
type Orchestrator struct {
	store   RemoteStore
	catalog Catalog
	carts   cart.Store

	waNumber   string
	writeDelay time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewOrchestrator(store RemoteStore, cat Catalog, carts cart.Store, waNumber string, writeDelay time.Duration) *Orchestrator {
	return &Orchestrator{
		store:      store,
		catalog:    cat,
		carts:      carts,
		waNumber:   waNumber,
		writeDelay: writeDelay,
		sessions:   map[string]*Session{},
	}
}

// Begin memvalidasi subset keranjang yang dipilih lalu menyiapkan handoff
// WhatsApp. Ditolak utuh — tanpa efek samping — bila ada satu saja item yang
// stok live-nya kosong atau kurang dari jumlah diminta: pesan WhatsApp
// disusun untuk satu batch, jadi validitas parsial tidak bisa direpresentasi.
func (o *Orchestrator) Begin(ctx context.Context, cartID string, productIDs []string) (*BeginResult, error) {
	if len(productIDs) == 0 {
		return nil, ErrEmptySelection
	}

	c, err := o.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	var (
		items      []Item
		lines      []whatsapp.OrderLine
		shortfalls []StockShortfall
		total      int64
	)
	// id ganda dalam request dianggap satu pilihan: keranjang hanya punya satu
	// line per produk, dan tanpa dedup satu line akan divalidasi dan dipotong
	// berkali-kali.
	seen := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		line, ok := c.Find(id)
		if !ok {
			return nil, fmt.Errorf("checkout: product %s is not in the cart", id)
		}

		// stok di-resolve ulang dari catalog cache, bukan dari snapshot
		// keranjang yang mungkin basi
		available := 0
		if live, ok := o.catalog.Get(id); ok {
			available = live.Stock
		}
		if available <= 0 || line.Quantity > available {
			shortfalls = append(shortfalls, StockShortfall{
				ProductID: id,
				Name:      line.Name,
				Requested: line.Quantity,
				Available: available,
			})
			continue
		}

		items = append(items, Item{
			ProductID: id,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
		lines = append(lines, whatsapp.OrderLine{Name: line.Name, Price: line.Price, Quantity: line.Quantity})
		total += line.Price * int64(line.Quantity)
	}
	if len(shortfalls) > 0 {
		return nil, &ValidationError{Shortfalls: shortfalls}
	}

	msg := whatsapp.ComposeOrder(lines, total)
	s := &Session{
		ID:        uuid.NewString(),
		CartID:    cartID,
		Items:     items,
		Total:     total,
		Phase:     PhaseAwaiting,
		CreatedAt: time.Now(),
	}

	o.mu.Lock()
	o.pruneLocked()
	o.sessions[s.ID] = s
	o.mu.Unlock()

	return &BeginResult{
		CheckoutID: s.ID,
		Message:    msg,
		Link:       whatsapp.Link(o.waNumber, msg),
		Items:      items,
		Total:      total,
	}, nil
}

// Confirm dijalankan setelah user mengaku sudah mengirim pesan WhatsApp.
// Pengurangan stok berjalan per item secara berurutan: baca record remote
// terbaru, clamp di nol, tulis balik record penuh, jeda singkat antar write.
// Kegagalan di tengah menghentikan loop tanpa kompensasi — item yang sudah
// terpotong tetap terpotong.
func (o *Orchestrator) Confirm(ctx context.Context, checkoutID string) (*Result, error) {
	o.mu.Lock()
	s, ok := o.sessions[checkoutID]
	if !ok {
		o.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if s.Phase == PhaseConfirming {
		o.mu.Unlock()
		return nil, ErrProcessing
	}
	if !CanTransition(s.Phase, PhaseConfirming) {
		o.mu.Unlock()
		return nil, fmt.Errorf("checkout: cannot confirm from phase %s", s.Phase)
	}
	s.Phase = PhaseConfirming
	o.mu.Unlock()

	// Begitu loop dimulai tidak ada token pembatalan; putus koneksi client
	// tidak boleh menghentikan write di tengah jalan.
	dctx := context.WithoutCancel(ctx)

	for i, it := range s.Items {
		if err := o.decrement(dctx, it); err != nil {
			o.finish(s, PhasePartialFail)
			o.refreshBestEffort(dctx) // tampilkan state parsial apa adanya
			return nil, &PartialFailure{
				CartID:    s.CartID,
				Committed: append([]Item(nil), s.Items[:i]...),
				FailedID:  it.ProductID,
				Err:       err,
			}
		}
		if i < len(s.Items)-1 && o.writeDelay > 0 {
			time.Sleep(o.writeDelay)
		}
	}

	// Rekonsiliasi: buang line yang sudah di-checkout dari keranjang.
	// Kegagalan di sini tidak menggagalkan checkout — mutasi remote sudah
	// sukses.
	ids := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		ids = append(ids, it.ProductID)
	}
	if c, err := o.carts.Load(dctx, s.CartID); err != nil {
		log.Printf("checkout %s: cart reload failed: %v", s.ID, err)
	} else {
		c.RemoveAll(ids)
		if err := o.carts.Save(dctx, s.CartID, c); err != nil {
			log.Printf("checkout %s: cart save failed: %v", s.ID, err)
		}
	}
	o.refreshBestEffort(dctx)

	o.finish(s, PhaseSucceeded)
	return &Result{
		OrderID: GenerateOrderID(),
		CartID:  s.CartID,
		Items:   s.Items,
		Total:   s.Total,
	}, nil
}

// Cancel hanya valid selama menunggu konfirmasi: sesi dibuang, tidak ada
// write ke remote store. Pesan WhatsApp yang sudah terbuka di luar kendali
// sistem — cancel artinya user menyatakan order tidak jadi dihitung.
func (o *Orchestrator) Cancel(checkoutID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sessions[checkoutID]
	if !ok {
		return ErrSessionNotFound
	}
	if s.Phase == PhaseConfirming {
		return ErrProcessing
	}
	if !CanTransition(s.Phase, PhaseCancelled) {
		return fmt.Errorf("checkout: cannot cancel from phase %s", s.Phase)
	}
	delete(o.sessions, checkoutID)
	return nil
}

// Session mengembalikan snapshot sesi (untuk handler/status endpoint).
func (o *Orchestrator) Session(checkoutID string) (Session, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[checkoutID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// decrement: read-modify-write satu item. Remote store tidak punya operasi
// atomik, jadi race antar checkout bersamaan cuma dipersempit (baca ulang
// sesaat sebelum tulis), tidak dihilangkan.
func (o *Orchestrator) decrement(ctx context.Context, it Item) error {
	remote, err := o.store.Get(ctx, it.ProductID)
	if err != nil {
		return fmt.Errorf("read %s: %w", it.ProductID, err)
	}

	newStock := remote.Stock - it.Quantity
	if newStock < 0 {
		newStock = 0
	}
	remote.Stock = newStock
	remote.Sold += it.Quantity

	if _, err := o.store.Update(ctx, it.ProductID, remote); err != nil {
		return fmt.Errorf("write %s: %w", it.ProductID, err)
	}
	return nil
}

func (o *Orchestrator) refreshBestEffort(ctx context.Context) {
	if err := o.catalog.Refresh(ctx); err != nil {
		log.Printf("checkout: catalog refresh failed (stale data retained): %v", err)
	}
}

func (o *Orchestrator) finish(s *Session, to Phase) {
	o.mu.Lock()
	s.Phase = to
	delete(o.sessions, s.ID)
	o.mu.Unlock()
}

// pruneLocked membuang sesi menunggu-konfirmasi yang sudah kedaluwarsa dan
// sesi fase terminal yang tertinggal. Caller harus memegang o.mu.
func (o *Orchestrator) pruneLocked() {
	cutoff := time.Now().Add(-sessionTTL)
	for id, s := range o.sessions {
		if s.Phase.IsTerminal() || (s.Phase == PhaseAwaiting && s.CreatedAt.Before(cutoff)) {
			delete(o.sessions, id)
		}
	}
}
