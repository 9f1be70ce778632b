package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-service/internal/models"
)

// ErrProductNotFound is returned when no product has the requested id
var ErrProductNotFound = errors.New("product not found")

const productColumns = "id, name, price, category, description, image, updated_at"

// GetProducts retrieves the whole catalog in catalog order
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		"SELECT "+productColumns+" FROM products ORDER BY id")
	return products, err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CountProducts returns the catalog size
func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products")
	return count, err
}

// UpsertProduct inserts a product or replaces its fields
func (s *Store) UpsertProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, price, category, description, image)
		VALUES (:id, :name, :price, :category, :description, :image)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			image = EXCLUDED.image,
			updated_at = NOW()`

	_, err := s.db.NamedExecContext(ctx, query, product)
	return err
}

// SeedProducts writes products in one transaction
func (s *Store) SeedProducts(ctx context.Context, products []models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range products {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO products (id, name, price, category, description, image)
			VALUES (:id, :name, :price, :category, :description, :image)
			ON CONFLICT (id) DO NOTHING`, &products[i])
		if err != nil {
			return fmt.Errorf("failed to seed product %d: %w", products[i].ID, err)
		}
	}

	return tx.Commit()
}
