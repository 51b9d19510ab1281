package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/arigading/go-catalog-checkout/internal/catalog"
)

// List mengambil seluruh koleksi produk.
func (c *Client) List(ctx context.Context) ([]catalog.Product, error) {
	data, err := c.do(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	var raw []productJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	out := make([]catalog.Product, 0, len(raw))
	for _, r := range raw {
		p, err := r.toProduct()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (catalog.Product, error) {
	data, err := c.do(ctx, http.MethodGet, c.itemURL(id), nil)
	if err != nil {
		return catalog.Product{}, err
	}
	return decodeOne(data)
}

func (c *Client) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	data, err := c.do(ctx, http.MethodPost, c.baseURL, toBody(p))
	if err != nil {
		return catalog.Product{}, err
	}
	return decodeOne(data)
}

// Update menulis record penuh (bukan patch parsial) — remote store tidak
// punya operasi increment/decrement atomik.
func (c *Client) Update(ctx context.Context, id string, p catalog.Product) (catalog.Product, error) {
	data, err := c.do(ctx, http.MethodPut, c.itemURL(id), toBody(p))
	if err != nil {
		return catalog.Product{}, err
	}
	return decodeOne(data)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil)
	return err
}

func (c *Client) itemURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

func decodeOne(data []byte) (catalog.Product, error) {
	var raw productJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return catalog.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return raw.toProduct()
}
