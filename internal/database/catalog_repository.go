package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/storelens/matcher/internal/domain"
)

// CatalogRepository loads and refreshes catalog snapshots per store.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// LoadSnapshot returns all catalog entries for a store in insertion order.
// The order matters: it is the documented tie-break order for matching.
func (r *CatalogRepository) LoadSnapshot(ctx context.Context, store string) ([]domain.CatalogEntry, error) {
	query := r.db.Rebind(`
		SELECT code, name, price, category, image_url, product_url,
		       popularity, is_featured, rating, review_count
		FROM catalog_products
		WHERE store = ?
		ORDER BY position
	`)

	var entries []domain.CatalogEntry
	if err := r.db.SelectContext(ctx, &entries, query, store); err != nil {
		return nil, fmt.Errorf("load catalog snapshot for %s: %w", store, err)
	}
	return entries, nil
}

// ReplaceSnapshot swaps the store's rows for a fresh crawl in one
// transaction, so readers never observe a half-written catalog.
func (r *CatalogRepository) ReplaceSnapshot(ctx context.Context, store string, entries []domain.CatalogEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM catalog_products WHERE store = ?`), store); err != nil {
		return fmt.Errorf("clear catalog for %s: %w", store, err)
	}

	insert := r.db.Rebind(`
		INSERT INTO catalog_products
			(store, position, code, name, price, category, image_url, product_url,
			 popularity, is_featured, rating, review_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	for i := range entries {
		e := &entries[i]
		if _, err := tx.ExecContext(ctx, insert,
			store, i, e.Code, e.Name, e.Price, e.Category, e.ImageURL, e.ProductURL,
			e.Popularity, e.IsFeatured, e.Rating, e.ReviewCount,
		); err != nil {
			return fmt.Errorf("insert catalog entry %s: %w", e.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot replace: %w", err)
	}
	return nil
}

// Count returns the number of catalog rows for a store.
func (r *CatalogRepository) Count(ctx context.Context, store string) (int, error) {
	var n int
	query := r.db.Rebind(`SELECT COUNT(*) FROM catalog_products WHERE store = ?`)
	if err := r.db.GetContext(ctx, &n, query, store); err != nil {
		return 0, fmt.Errorf("count catalog for %s: %w", store, err)
	}
	return n, nil
}
