package devstore

import "context"

// Katalog contoh untuk development.
var seedProducts = []Product{
	{Name: "Macbook Air M4", Category: "Electronics", Price: 21499000, Image: "/images/macbook-airm4.jpg", IsAvailable: true, Stock: 15},
	{Name: "iPhone 15 Pro Max", Category: "Electronics", Price: 24000000, Image: "/images/iphone15pm.jpg", IsAvailable: true, Stock: 20},
	{Name: "AirPods Max", Category: "Audio", Price: 9499000, Image: "/images/airpods-max.jpg", IsAvailable: true, Stock: 30},
	{Name: "11-inch iPad Pro M5", Category: "Electronics", Price: 20499000, Image: "/images/ipadpro-11inci.jpg", IsAvailable: true, Stock: 12},
	{Name: "Apple Watch SE 3", Category: "Wearable", Price: 4299000, Image: "/images/apple-watch-se3.jpg", IsAvailable: true, Stock: 25},
	{Name: "Power Adapter 20W", Category: "Accessories", Price: 399000, Image: "/images/power-adapter.jpg", IsAvailable: true, Stock: 50},
}

// Seed mengisi katalog contoh; hanya saat tabel masih kosong supaya
// pemanggilan ulang tidak menduplikasi produk.
func (r *Repo) Seed(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, p := range seedProducts {
		if _, err := r.Create(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(seedProducts), nil
}
