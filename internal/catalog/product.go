package catalog

import "fmt"

// Product adalah representasi ter-tipe dari record di remote store.
// Harga dalam Rupiah utuh (tanpa desimal).
type Product struct {
	ID          string
	Name        string
	Category    string
	Price       int64
	Description string
	Image       string
	IsAvailable bool
	Stock       int
	Sold        int
}

// Validate menegakkan invariant dasar record produk. Record dari remote
// store wajib lolos validasi ini sebelum dipakai komponen lain.
func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product: missing id")
	}
	if p.Name == "" {
		return fmt.Errorf("product %s: missing name", p.ID)
	}
	if p.Price < 0 {
		return fmt.Errorf("product %s: negative price %d", p.ID, p.Price)
	}
	if p.Stock < 0 {
		return fmt.Errorf("product %s: negative stock %d", p.ID, p.Stock)
	}
	if p.Sold < 0 {
		return fmt.Errorf("product %s: negative sold %d", p.ID, p.Sold)
	}
	return nil
}
