package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeLister struct {
	mu   sync.Mutex
	list []Product
	err  error
}

func (f *fakeLister) List(ctx context.Context) ([]Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]Product(nil), f.list...), nil
}

func (f *fakeLister) set(list []Product, err error) {
	f.mu.Lock()
	f.list, f.err = list, err
	f.mu.Unlock()
}

func TestCache_RefreshAndLookup(t *testing.T) {
	src := &fakeLister{list: []Product{
		{ID: "1", Name: "Macbook", Stock: 15},
		{ID: "2", Name: "AirPods", Stock: 30},
	}}
	c := NewCache(src)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := len(c.Current()); got != 2 {
		t.Fatalf("expected 2 products, got %d", got)
	}
	if p, ok := c.Get("2"); !ok || p.Name != "AirPods" {
		t.Errorf("Get(2) = %+v, %v", p, ok)
	}
	if got := c.StockOf("1"); got != 15 {
		t.Errorf("StockOf(1) = %d", got)
	}
	if got := c.StockOf("ghost"); got != 0 {
		t.Errorf("StockOf(ghost) = %d, want 0", got)
	}
}

func TestCache_FailedRefreshRetainsSnapshot(t *testing.T) {
	src := &fakeLister{list: []Product{{ID: "1", Name: "Macbook", Stock: 15}}}
	c := NewCache(src)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	src.set(nil, errors.New("upstream down"))
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}

	// snapshot lama tetap terbaca
	if p, ok := c.Get("1"); !ok || p.Stock != 15 {
		t.Errorf("stale snapshot lost: %+v, %v", p, ok)
	}
	if got := len(c.Current()); got != 1 {
		t.Errorf("expected 1 product retained, got %d", got)
	}
}

func TestCache_CurrentReturnsCopy(t *testing.T) {
	src := &fakeLister{list: []Product{{ID: "1", Name: "Macbook", Stock: 15}}}
	c := NewCache(src)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	snap := c.Current()
	snap[0].Stock = 0
	if got := c.StockOf("1"); got != 15 {
		t.Errorf("caller mutation leaked into cache: %d", got)
	}
}

func TestSummarize(t *testing.T) {
	products := []Product{
		{ID: "1", Price: 100, Stock: 2, Sold: 1},
		{ID: "2", Price: 50, Stock: 4, Sold: 3},
	}
	s := Summarize(products)
	if s.TotalProducts != 2 {
		t.Errorf("TotalProducts = %d", s.TotalProducts)
	}
	if s.TotalStock != 6 {
		t.Errorf("TotalStock = %d", s.TotalStock)
	}
	if s.InventoryValue != 100*2+50*4 {
		t.Errorf("InventoryValue = %d", s.InventoryValue)
	}
	if s.TotalSold != 4 {
		t.Errorf("TotalSold = %d", s.TotalSold)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalProducts != 0 || s.TotalStock != 0 || s.InventoryValue != 0 || s.TotalSold != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestFilter(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "Macbook Air M4", Category: "Electronics", Price: 21499000},
		{ID: "2", Name: "AirPods Max", Category: "Audio", Price: 9499000},
		{ID: "3", Name: "Power Adapter 20W", Category: "Accessories", Price: 399000},
	}

	cases := []struct {
		name string
		f    FilterParams
		want []string
	}{
		{"no filter", FilterParams{}, []string{"1", "2", "3"}},
		{"query matches name", FilterParams{Query: "macbook"}, []string{"1"}},
		{"query matches category", FilterParams{Query: "audio"}, []string{"2"}},
		{"category all", FilterParams{Category: "all"}, []string{"1", "2", "3"}},
		{"category exact", FilterParams{Category: "Accessories"}, []string{"3"}},
		{"min price", FilterParams{MinPrice: 10000000}, []string{"1"}},
		{"max price", FilterParams{MaxPrice: 10000000}, []string{"2", "3"}},
		{"price band", FilterParams{MinPrice: 400000, MaxPrice: 10000000}, []string{"2"}},
		{"combined", FilterParams{Query: "a", Category: "Audio"}, []string{"2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(products, tc.f)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d products, want ids %v", len(got), tc.want)
			}
			for i, p := range got {
				if p.ID != tc.want[i] {
					t.Errorf("result[%d] = %s, want %s", i, p.ID, tc.want[i])
				}
			}
		})
	}
}

func TestCategories(t *testing.T) {
	products := []Product{
		{ID: "1", Category: "Electronics"},
		{ID: "2", Category: "Audio"},
		{ID: "3", Category: "Electronics"},
		{ID: "4", Category: ""},
	}
	got := Categories(products)
	want := []string{"Audio", "Electronics"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestProductValidate(t *testing.T) {
	ok := Product{ID: "1", Name: "X", Price: 100, Stock: 1}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid product rejected: %v", err)
	}

	cases := []Product{
		{ID: "", Name: "X"},
		{ID: "1", Name: ""},
		{ID: "1", Name: "X", Price: -1},
		{ID: "1", Name: "X", Stock: -1},
		{ID: "1", Name: "X", Sold: -1},
	}
	for i, p := range cases {
		if err := p.Validate(); err == nil {
			t.Errorf("case %d: expected validation error for %+v", i, p)
		}
	}
}
