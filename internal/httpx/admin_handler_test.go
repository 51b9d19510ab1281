package httpx

import "testing"

func TestProductReq_UnavailableForcesZeroStock(t *testing.T) {
	req := productReq{
		Name: "Macbook Air M4", Category: "Electronics", Price: 21499000,
		IsAvailable: false, Stock: 7, Sold: 2,
	}
	p := req.toProduct("1")
	if p.Stock != 0 {
		t.Errorf("stock = %d, want 0 for unavailable product", p.Stock)
	}
	// field lain tidak ikut diubah
	if p.Sold != 2 || p.Price != 21499000 || p.ID != "1" {
		t.Errorf("unexpected product: %+v", p)
	}
}

func TestProductReq_AvailableKeepsStock(t *testing.T) {
	req := productReq{Name: "Macbook Air M4", Price: 21499000, IsAvailable: true, Stock: 7}
	if p := req.toProduct("1"); p.Stock != 7 {
		t.Errorf("stock = %d, want 7", p.Stock)
	}
}
