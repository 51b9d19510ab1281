package cart

import "errors"

var ErrItemNotFound = errors.New("cart: item not found")

// LineItem menyimpan snapshot produk saat dimasukkan keranjang. Field Stock
// hanyalah snapshot — sebelum dipakai checkout WAJIB di-refresh dari catalog
// cache karena bisa basi.
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
	Stock     int    `json:"stock"`
}

// Cart dimiliki sepenuhnya oleh client. Invariant: maksimal satu line per
// product id.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Add menggabungkan ke line yang sudah ada (menambah quantity), bukan membuat
// duplikat.
func (c *Cart) Add(item LineItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			// snapshot stok/harga diperbarui ke yang terbaru
			c.Items[i].Price = item.Price
			c.Items[i].Stock = item.Stock
			return
		}
	}
	c.Items = append(c.Items, item)
}

// SetQuantity mengubah jumlah sebuah line; qty <= 0 menghapus line tersebut.
func (c *Cart) SetQuantity(productID string, qty int) error {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if qty <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = qty
		}
		return nil
	}
	return ErrItemNotFound
}

func (c *Cart) Remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Find(productID string) (LineItem, bool) {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return LineItem{}, false
}

// RemoveAll menghapus sekumpulan line sekaligus (dipakai rekonsiliasi setelah
// checkout sukses).
func (c *Cart) RemoveAll(productIDs []string) {
	drop := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}
	kept := c.Items[:0]
	for _, it := range c.Items {
		if !drop[it.ProductID] {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

func (c *Cart) TotalQuantity() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
