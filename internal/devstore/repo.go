// Package devstore adalah pengganti lokal untuk koleksi produk hosted
// (MockAPI). Kontraknya sama persis dengan yang diasumsikan storefront:
// CRUD polos tanpa locking, versioning, atau conditional update — jadi
// perilaku race-nya pun representatif untuk pengujian.
package devstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("devstore: product not found")

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsAvailable bool   `json:"isAvailable"`
	Stock       int    `json:"stock"`
	Sold        int    `json:"sold"`
}

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, name, category, price, description, image, is_available, stock, sold`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var id int64
	err := row.Scan(&id, &p.Name, &p.Category, &p.Price, &p.Description, &p.Image, &p.IsAvailable, &p.Stock, &p.Sold)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	p.ID = strconv.FormatInt(id, 10)
	return p, nil
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	n, err := parseID(id)
	if err != nil {
		return Product{}, ErrNotFound
	}
	row := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, n)
	return scanProduct(row)
}

func (r *Repo) Create(ctx context.Context, p Product) (Product, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products(name, category, price, description, image, is_available, stock, sold)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+productCols,
		p.Name, p.Category, p.Price, p.Description, p.Image, p.IsAvailable, p.Stock, p.Sold,
	)
	return scanProduct(row)
}

// Update menimpa record penuh — sengaja read-modify-write polos, tanpa
// proteksi lost update, meniru endpoint hosted.
func (r *Repo) Update(ctx context.Context, id string, p Product) (Product, error) {
	n, err := parseID(id)
	if err != nil {
		return Product{}, ErrNotFound
	}
	row := r.DB.QueryRow(ctx, `
		UPDATE products
		SET name=$2, category=$3, price=$4, description=$5, image=$6,
		    is_available=$7, stock=$8, sold=$9, updated_at=now()
		WHERE id=$1
		RETURNING `+productCols,
		n, p.Name, p.Category, p.Price, p.Description, p.Image, p.IsAvailable, p.Stock, p.Sold,
	)
	return scanProduct(row)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return ErrNotFound
	}
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, n)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", id)
	}
	return n, nil
}
