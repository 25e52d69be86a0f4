package market

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

type CatalogRepo struct{ DB *pgxpool.Pool }

type ProductInput struct {
	Name        string          `json:"product_name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock_quantity"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

func (r *CatalogRepo) CreateProduct(ctx context.Context, artisanID int64, in ProductInput) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products (artisan_id, product_name, description, price, stock_quantity, category, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING product_id, artisan_id, product_name, description, price, stock_quantity,
		          category, COALESCE(image_url, ''), created_at, updated_at`,
		artisanID, in.Name, in.Description, in.Price, in.Stock, in.Category, nilIfEmpty(in.ImageURL),
	).Scan(&p.ID, &p.ArtisanID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepo) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT product_id, artisan_id, product_name, description, price, stock_quantity,
		       category, COALESCE(image_url, ''), created_at, updated_at
		FROM products WHERE product_id = $1`, productID,
	).Scan(&p.ID, &p.ArtisanID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepo) ListProducts(ctx context.Context, availableOnly bool) ([]Product, error) {
	q := `SELECT product_id, artisan_id, product_name, description, price, stock_quantity,
	             category, COALESCE(image_url, ''), created_at, updated_at
	      FROM products ORDER BY created_at DESC`
	if availableOnly {
		q = `SELECT product_id, artisan_id, product_name, description, price, stock_quantity,
		            category, COALESCE(image_url, ''), created_at, updated_at
		     FROM products WHERE stock_quantity > 0 ORDER BY created_at DESC`
	}
	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.ArtisanID, &p.Name, &p.Description, &p.Price, &p.Stock,
			&p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) ListProductsByArtisan(ctx context.Context, artisanID int64) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, artisan_id, product_name, description, price, stock_quantity,
		       category, COALESCE(image_url, ''), created_at, updated_at
		FROM products WHERE artisan_id = $1 ORDER BY created_at DESC`, artisanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.ArtisanID, &p.Name, &p.Description, &p.Price, &p.Stock,
			&p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Restock adds quantity on top of the current stock. The addition happens in
// SQL so a restock racing a purchase cannot lose either update; the purchase
// path holds the row lock while it decrements.
func (r *CatalogRepo) Restock(ctx context.Context, productID, artisanID int64, quantity int) (int, error) {
	var newStock int
	err := r.DB.QueryRow(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $3, updated_at = now()
		WHERE product_id = $1 AND artisan_id = $2
		RETURNING stock_quantity`, productID, artisanID, quantity).Scan(&newStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, err
	}
	return newStock, nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
