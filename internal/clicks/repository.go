package clicks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
)

// Repository provides the append-only click ledger.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Append records one redirect event. Click rows are never updated afterwards.
func (r *Repository) Append(ctx context.Context, click *models.Click) error {
	return r.db.WithContext(ctx).Create(click).Error
}

// IncrementProductClicks bumps the product's click_count in a single
// statement so concurrent redirects never lose an update.
func (r *Repository) IncrementProductClicks(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("click_count", gorm.Expr("click_count + 1")).
		Error
}

// ListRecent returns the newest clicks with their products preloaded.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.Click, error) {
	var rows []models.Click
	err := r.db.WithContext(ctx).
		Preload("Product").
		Order("created_at DESC, id ASC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// ListByProduct returns the newest clicks for one product.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]models.Click, error) {
	var rows []models.Click
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// ListAll returns the full ledger, newest first. Used by the CSV export.
func (r *Repository) ListAll(ctx context.Context) ([]models.Click, error) {
	var rows []models.Click
	err := r.db.WithContext(ctx).
		Preload("Product").
		Order("created_at DESC, id ASC").
		Find(&rows).
		Error
	return rows, err
}

// CountSince counts clicks recorded at or after the cutoff.
func (r *Repository) CountSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Click{}).
		Where("created_at >= ?", cutoff).
		Count(&count).
		Error
	return count, err
}

// Count returns the total ledger size.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Click{}).Count(&count).Error
	return count, err
}

// PurgeOlderThan deletes clicks recorded before the cutoff and reports how
// many rows went away. Product click counters are historical tallies and stay
// untouched.
func (r *Repository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.Click{})
	return result.RowsAffected, result.Error
}
