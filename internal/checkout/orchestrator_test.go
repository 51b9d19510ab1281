package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arigading/go-catalog-checkout/internal/cart"
	"github.com/arigading/go-catalog-checkout/internal/catalog"
)

// fakeRemote mencatat urutan operasi supaya urutan read-modify-write bisa
// diverifikasi.
type fakeRemote struct {
	mu       sync.Mutex
	products map[string]catalog.Product
	ops      []string // "get:<id>" / "update:<id>"

	failUpdateOn string     // product id yang update-nya dibuat gagal
	blockGet     chan struct{} // kalau non-nil, Get pertama menunggu channel ini
	getEntered   chan struct{}
	blockOnce    sync.Once
}

func newFakeRemote(products ...catalog.Product) *fakeRemote {
	m := map[string]catalog.Product{}
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeRemote{products: m}
}

func (f *fakeRemote) Get(ctx context.Context, id string) (catalog.Product, error) {
	if f.blockGet != nil {
		f.blockOnce.Do(func() {
			close(f.getEntered)
			<-f.blockGet
		})
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "get:"+id)
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, fmt.Errorf("not found: %s", id)
	}
	return p, nil
}

func (f *fakeRemote) Update(ctx context.Context, id string, p catalog.Product) (catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "update:"+id)
	if id == f.failUpdateOn {
		return catalog.Product{}, errors.New("boom")
	}
	f.products[id] = p
	return p, nil
}

func (f *fakeRemote) opLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func (f *fakeRemote) product(id string) catalog.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id]
}

// fakeCatalog memberi stok live untuk validasi dan menghitung refresh.
type fakeCatalog struct {
	mu       sync.Mutex
	stock    map[string]catalog.Product
	refreshN int
}

func (f *fakeCatalog) Get(id string) (catalog.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.stock[id]
	return p, ok
}

func (f *fakeCatalog) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshN++
	return nil
}

func (f *fakeCatalog) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshN
}

func seedCart(t *testing.T, carts cart.Store, cartID string, items ...cart.LineItem) {
	t.Helper()
	var c cart.Cart
	for _, it := range items {
		c.Add(it)
	}
	if err := carts.Save(context.Background(), cartID, c); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
}

func line(id, name string, price int64, qty, stock int) cart.LineItem {
	return cart.LineItem{ProductID: id, Name: name, Price: price, Quantity: qty, Stock: stock}
}

func TestBegin_EmptySelection(t *testing.T) {
	carts := cart.NewMemStore()
	o := NewOrchestrator(newFakeRemote(), &fakeCatalog{stock: map[string]catalog.Product{}}, carts, "628000", 0)

	_, err := o.Begin(context.Background(), "c1", nil)
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
}

func TestBegin_RejectsZeroStock(t *testing.T) {
	remote := newFakeRemote()
	cat := &fakeCatalog{stock: map[string]catalog.Product{
		"1": {ID: "1", Stock: 5},
		"2": {ID: "2", Stock: 0},
	}}
	carts := cart.NewMemStore()
	seedCart(t, carts, "c1",
		line("1", "Macbook", 21499000, 1, 5),
		line("2", "AirPods", 9499000, 1, 3), // snapshot bilang 3, live 0
	)
	o := NewOrchestrator(remote, cat, carts, "628000", 0)

	_, err := o.Begin(context.Background(), "c1", []string{"1", "2"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Shortfalls) != 1 || ve.Shortfalls[0].ProductID != "2" || ve.Shortfalls[0].Available != 0 {
		t.Fatalf("unexpected shortfalls: %+v", ve.Shortfalls)
	}

	// seluruh batch ditolak: nol operasi remote, keranjang utuh
	if got := remote.opLog(); len(got) != 0 {
		t.Fatalf("expected zero remote ops, got %v", got)
	}
	c, _ := carts.Load(context.Background(), "c1")
	if len(c.Items) != 2 {
		t.Fatalf("cart changed: %+v", c.Items)
	}
}

func TestBegin_RejectsOverQuantity(t *testing.T) {
	remote := newFakeRemote()
	cat := &fakeCatalog{stock: map[string]catalog.Product{
		"2": {ID: "2", Stock: 3},
	}}
	carts := cart.NewMemStore()
	seedCart(t, carts, "c1", line("2", "AirPods", 9499000, 10, 10))
	o := NewOrchestrator(remote, cat, carts, "628000", 0)

	_, err := o.Begin(context.Background(), "c1", []string{"2"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	s := ve.Shortfalls[0]
	if s.Requested != 10 || s.Available != 3 {
		t.Fatalf("expected requested=10 available=3, got %+v", s)
	}
	if got := remote.opLog(); len(got) != 0 {
		t.Fatalf("expected zero remote ops on rejection, got %v", got)
	}
	c, _ := carts.Load(context.Background(), "c1")
	if it, ok := c.Find("2"); !ok || it.Quantity != 10 {
		t.Fatalf("cart should still hold the line: %+v", c.Items)
	}
}

func TestBegin_DeduplicatesSelection(t *testing.T) {
	remote := newFakeRemote(catalog.Product{ID: "1", Name: "X", Price: 100, Stock: 5})
	cat := &fakeCatalog{stock: map[string]catalog.Product{"1": {ID: "1", Stock: 5}}}
	carts := cart.NewMemStore()
	seedCart(t, carts, "c1", line("1", "X", 100, 3, 5))
	o := NewOrchestrator(remote, cat, carts, "628000", 0)

	// id yang sama dikirim dua kali tetap satu pilihan
	begin, err := o.Begin(context.Background(), "c1", []string{"1", "1"})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if len(begin.Items) != 1 {
		t.Fatalf("expected single item, got %+v", begin.Items)
	}
	if begin.Total != 300 {
		t.Errorf("total = %d, want 300", begin.Total)
	}

	if _, err := o.Confirm(context.Background(), begin.CheckoutID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	p := remote.product("1")
	if p.Stock != 2 || p.Sold != 3 {
		t.Errorf("expected stock 2 sold 3, got stock %d sold %d", p.Stock, p.Sold)
	}
	if got := remote.opLog(); len(got) != 2 {
		t.Errorf("expected one get+update pair, got %v", got)
	}
}

func TestConfirm_Success(t *testing.T) {
	remote := newFakeRemote(catalog.Product{ID: "1", Name: "Macbook", Price: 21499000, Stock: 5, Sold: 7})
	cat := &fakeCatalog{stock: map[string]catalog.Product{
		"1": {ID: "1", Stock: 5},
	}}
	carts := cart.NewMemStore()
	seedCart(t, carts, "c1",
		line("1", "Macbook", 21499000, 2, 5),
		line("9", "Lainnya", 100, 1, 9),
	)
	o := NewOrchestrator(remote, cat, carts, "628000", 0)

	begin, err := o.Begin(context.Background(), "c1", []string{"1"})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if !strings.Contains(begin.Link, "wa.me/628000") {
		t.Errorf("unexpected link: %s", begin.Link)
	}
	if begin.Total != 2*21499000 {
		t.Errorf("unexpected total: %d", begin.Total)
	}

	res, err := o.Confirm(context.Background(), begin.CheckoutID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if res.OrderID == "" || !strings.HasPrefix(res.OrderID, "ORD-") {
		t.Errorf("unexpected order id: %q", res.OrderID)
	}

	p := remote.product("1")
	if p.Stock != 3 {
		t.Errorf("expected stock 3, got %d", p.Stock)
	}
	if p.Sold != 9 {
		t.Errorf("expected sold 9, got %d", p.Sold)
	}

	// rekonsiliasi: line yang di-checkout hilang, line lain tetap
	c, _ := carts.Load(context.Background(), "c1")
	if _, ok := c.Find("1"); ok {
		t.Errorf("checked-out line should be removed")
	}
	if _, ok := c.Find("9"); !ok {
		t.Errorf("unrelated line should remain")
	}
	if cat.refreshCount() == 0 {
		t.Errorf("expected a best-effort catalog refresh")
	}

	// sesi dihancurkan setelah confirm
	if _, err := o.Confirm(context.Background(), begin.CheckoutID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on re-confirm, got %v", err)
	}
}

func TestConfirm_SequentialWrites(t *testing.T) {
	remote := newFakeRemote(
		catalog.Product{ID: "a", Name: "A", Stock: 5},
		catalog.Product{ID: "b", Name: "B", Stock: 5},
		catalog.Product{ID: "c", Name: "C", Stock: 5},
	)
	cat := &fakeCatalog{stock: map[string]catalog.Product{
		"a": {ID: "a", Stock: 5}, "b": {ID: "b", Stock: 5}, "c": {ID: "c", Stock: 5},
	}}
	carts := cart.NewMemStore()
	seedCart(t, carts, "c1", line("a", "A", 10, 1, 5), line("b", "B", 10, 1, 5), line("c", "C", 10, 1, 5))
	o := NewOrchestrator(remote, cat, carts, "628000", 0)

	begin, err := o.Begin(context.Background(), "c1", []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := o.Confirm(context.Background(), begin.CheckoutID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	want := []string{"get:a", "update:a", "get:b", "update:b", "get:c", "update:c"}
	got := remote.opLog()
	if len(got) != len(want) {
		t.Fatalf("op log %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("op %d = %s, want %s (full log %v)", i, got[i], want[i], got)
		}
	}
}

func TestConfirm_PartialFailure(t *testing.T) {
	remote := newFakeRemote(
		catalog.Product{ID: "a", Name: "A", Stock: 5},
		catalog.Product{ID: "b", Name: "B", Stock: 5},
	)
	remote.failUpdateOn = "b"
	cat := &fakeCatalog{stock: map[string]catalog.Product{
		"a": {ID: "a", Stock: 5}, "b": {ID: "b", Stock: 5},
	}}
	carts := cart.NewMemStore()
	seedCart(t, carts, "c1", line("a", "A", 10, 2, 5), line("b", "B", 10, 1, 5))
	o := NewOrchestrator(remote, cat, carts, "628000", 0)

	begin, err := o.Begin(context.Background(), "c1", []string{"a", "b"})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	_, err = o.Confirm(context.Background(), begin.CheckoutID)
	var pf *PartialFailure
	if !errors.As(err, &pf) {
		t.Fatalf("expected PartialFailure, got %v", err)
	}
	if pf.FailedID != "b" || len(pf.Committed) != 1 || pf.Committed[0].ProductID != "a" {
		t.Fatalf("unexpected partial failure: %+v", pf)
	}

	// item pertama tetap terpotong — tidak ada rollback
	if got := remote.product("a").Stock; got != 3 {
		t.Errorf("expected committed decrement to stand (stock 3), got %d", got)
	}
	// keranjang tidak disentuh supaya user bisa retry
	c, _ := carts.Load(context.Background(), "c1")
	if len(c.Items) != 2 {
		t.Errorf("cart must stay untouched on failure: %+v", c.Items)
	}
	// state parsial tetap di-refresh supaya terlihat
	if cat.refreshCount() == 0 {
		t.Errorf("expected catalog refresh after partial failure")
	}
}

func TestCancel_NoWrites(t *testing.T) {
	remote := newFakeRemote(catalog.Product{ID: "1", Name: "X", Stock: 5})
	cat := &fakeCatalog{stock: map[string]catalog.Product{"1": {ID: "1", Stock: 5}}}
	carts := cart.NewMemStore()
	seedCart(t, carts, "c1", line("1", "X", 100, 3, 5))
	o := NewOrchestrator(remote, cat, carts, "628000", 0)

	begin, err := o.Begin(context.Background(), "c1", []string{"1"})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := o.Cancel(begin.CheckoutID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if got := remote.opLog(); len(got) != 0 {
		t.Fatalf("cancel must not touch the remote store, got %v", got)
	}
	c, _ := carts.Load(context.Background(), "c1")
	if it, ok := c.Find("1"); !ok || it.Quantity != 3 {
		t.Fatalf("cart changed by cancel: %+v", c.Items)
	}
	if err := o.Cancel(begin.CheckoutID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("session should be gone after cancel, got %v", err)
	}
}

func TestConfirm_DoubleConfirmGuarded(t *testing.T) {
	remote := newFakeRemote(catalog.Product{ID: "1", Name: "X", Stock: 5})
	remote.blockGet = make(chan struct{})
	remote.getEntered = make(chan struct{})
	cat := &fakeCatalog{stock: map[string]catalog.Product{"1": {ID: "1", Stock: 5}}}
	carts := cart.NewMemStore()
	seedCart(t, carts, "c1", line("1", "X", 100, 1, 5))
	o := NewOrchestrator(remote, cat, carts, "628000", 0)

	begin, err := o.Begin(context.Background(), "c1", []string{"1"})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := o.Confirm(context.Background(), begin.CheckoutID)
		done <- err
	}()

	select {
	case <-remote.getEntered:
	case <-time.After(2 * time.Second):
		t.Fatal("first confirm never reached the remote store")
	}

	// selama processing, confirm/cancel ulang ditolak
	if _, err := o.Confirm(context.Background(), begin.CheckoutID); !errors.Is(err, ErrProcessing) {
		t.Errorf("expected ErrProcessing on double confirm, got %v", err)
	}
	if err := o.Cancel(begin.CheckoutID); !errors.Is(err, ErrProcessing) {
		t.Errorf("expected ErrProcessing on cancel while confirming, got %v", err)
	}

	close(remote.blockGet)
	if err := <-done; err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	if got := remote.product("1").Stock; got != 4 {
		t.Errorf("expected exactly one decrement (stock 4), got %d", got)
	}
}

func TestConfirm_ClampsStockAtZero(t *testing.T) {
	// catalog cache bilang 5, tapi checkout lain sudah memotong stok remote
	// jadi 1 sebelum confirm — hasilnya clamp di 0, bukan negatif
	remote := newFakeRemote(catalog.Product{ID: "1", Name: "X", Stock: 1, Sold: 0})
	cat := &fakeCatalog{stock: map[string]catalog.Product{"1": {ID: "1", Stock: 5}}}
	carts := cart.NewMemStore()
	seedCart(t, carts, "c1", line("1", "X", 100, 3, 5))
	o := NewOrchestrator(remote, cat, carts, "628000", 0)

	begin, err := o.Begin(context.Background(), "c1", []string{"1"})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := o.Confirm(context.Background(), begin.CheckoutID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	p := remote.product("1")
	if p.Stock != 0 {
		t.Errorf("expected stock clamped at 0, got %d", p.Stock)
	}
	if p.Sold != 3 {
		t.Errorf("expected sold 3, got %d", p.Sold)
	}
}

func TestPhaseTransitions(t *testing.T) {
	cases := []struct {
		from, to Phase
		ok       bool
	}{
		{PhaseAwaiting, PhaseConfirming, true},
		{PhaseAwaiting, PhaseCancelled, true},
		{PhaseConfirming, PhaseSucceeded, true},
		{PhaseConfirming, PhasePartialFail, true},
		{PhaseConfirming, PhaseCancelled, false},
		{PhaseCancelled, PhaseConfirming, false},
		{PhaseSucceeded, PhaseAwaiting, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}

	terminal := map[Phase]bool{
		PhaseIdle: false, PhaseAwaiting: false, PhaseConfirming: false,
		PhaseSucceeded: true, PhasePartialFail: true, PhaseCancelled: true,
	}
	for p, want := range terminal {
		if got := p.IsTerminal(); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", p, got, want)
		}
	}
}

func TestGenerateOrderID(t *testing.T) {
	a := GenerateOrderID()
	b := GenerateOrderID()
	if a == "" || !strings.HasPrefix(a, "ORD-") {
		t.Errorf("unexpected order id: %q", a)
	}
	if a == b {
		t.Errorf("order ids should differ: %q", a)
	}
}
