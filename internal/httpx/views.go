package httpx

import (
	"github.com/arigading/go-catalog-checkout/internal/cart"
	"github.com/arigading/go-catalog-checkout/internal/catalog"
	"github.com/arigading/go-catalog-checkout/internal/whatsapp"
)

type productView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	PriceLabel  string `json:"price_label"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsAvailable bool   `json:"isAvailable"`
	Stock       int    `json:"stock"`
	Sold        int    `json:"sold"`
}

func toProductView(p catalog.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		PriceLabel:  whatsapp.FormatRupiah(p.Price),
		Description: p.Description,
		Image:       p.Image,
		IsAvailable: p.IsAvailable,
		Stock:       p.Stock,
		Sold:        p.Sold,
	}
}

func toProductViews(ps []catalog.Product) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductView(p))
	}
	return out
}

func cartView(c cart.Cart) map[string]any {
	var total int64
	for _, it := range c.Items {
		total += it.Price * int64(it.Quantity)
	}
	items := c.Items
	if items == nil {
		items = []cart.LineItem{}
	}
	return map[string]any{
		"items":          items,
		"total_quantity": c.TotalQuantity(),
		"total":          total,
	}
}
