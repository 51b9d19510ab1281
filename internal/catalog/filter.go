package catalog

import (
	"sort"
	"strings"
)

// FilterParams meniru filter di halaman katalog: pencarian nama/kategori,
// kategori eksak ("all" atau kosong = semua), dan rentang harga.
type FilterParams struct {
	Query    string
	Category string
	MinPrice int64
	MaxPrice int64 // 0 = tanpa batas atas
}

func Filter(products []Product, f FilterParams) []Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			continue
		}
		if f.Category != "" && f.Category != "all" && p.Category != f.Category {
			continue
		}
		if p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories mengembalikan daftar kategori unik, terurut.
func Categories(products []Product) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}
