package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/arigading/go-catalog-checkout/internal/catalog"
)

// Remote store (koleksi MockAPI generik) tidak menjamin tipe field: id dan
// angka bisa datang sebagai string. Decode ke bentuk longgar dulu, baru
// dinormalisasi + divalidasi menjadi catalog.Product.

type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

type flexInt64 int64

func (i *flexInt64) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		if v == "" {
			*i = 0
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*i = flexInt64(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*i = flexInt64(n)
	return nil
}

type productJSON struct {
	ID          flexString `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Price       flexInt64  `json:"price"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	IsAvailable bool       `json:"isAvailable"`
	Stock       flexInt64  `json:"stock"`
	Sold        flexInt64  `json:"sold"`
}

func (p productJSON) toProduct() (catalog.Product, error) {
	out := catalog.Product{
		ID:          string(p.ID),
		Name:        p.Name,
		Category:    p.Category,
		Price:       int64(p.Price),
		Description: p.Description,
		Image:       p.Image,
		IsAvailable: p.IsAvailable,
		Stock:       int(p.Stock),
		Sold:        int(p.Sold),
	}
	if err := out.Validate(); err != nil {
		return catalog.Product{}, fmt.Errorf("parse product: %w", err)
	}
	return out, nil
}

// productBody adalah bentuk yang dikirim balik ke remote store. Record penuh,
// tanpa id (id ada di path).
type productBody struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsAvailable bool   `json:"isAvailable"`
	Stock       int    `json:"stock"`
	Sold        int    `json:"sold"`
}

func toBody(p catalog.Product) productBody {
	return productBody{
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		IsAvailable: p.IsAvailable,
		Stock:       p.Stock,
		Sold:        p.Sold,
	}
}
