package catalog

// InventorySummary adalah metrik agregat untuk dashboard admin.
type InventorySummary struct {
	TotalProducts  int   `json:"total_products"`
	TotalStock     int   `json:"total_stock"`
	InventoryValue int64 `json:"inventory_value"`
	TotalSold      int   `json:"total_sold"`
}

// Summarize murni dan dihitung ulang dari snapshot terbaru setiap dipanggil.
func Summarize(products []Product) InventorySummary {
	var s InventorySummary
	s.TotalProducts = len(products)
	for _, p := range products {
		s.TotalStock += p.Stock
		s.InventoryValue += p.Price * int64(p.Stock)
		s.TotalSold += p.Sold
	}
	return s
}
