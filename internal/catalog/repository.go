package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
	"github.com/techdealshub/techdealshub-backend/pkg/pagination"
)

// Sort values accepted by the category listing. Anything else falls back to
// newest-first.
const (
	SortPriceAsc   = "price"
	SortPriceDesc  = "-price"
	SortRatingAsc  = "rating"
	SortRatingDesc = "-rating"
	SortNewest     = "-created_at"
)

var sortClauses = map[string]string{
	SortPriceAsc:   "price ASC, id ASC",
	SortPriceDesc:  "price DESC, id ASC",
	SortRatingAsc:  "rating ASC, id ASC",
	SortRatingDesc: "rating DESC, id ASC",
	SortNewest:     "created_at DESC, id ASC",
}

// NormalizeSort maps a requested sort value onto the whitelist.
func NormalizeSort(sort string) string {
	if _, ok := sortClauses[sort]; ok {
		return sort
	}
	return SortNewest
}

// ListFilters describe the optional filter knobs for the category listing.
type ListFilters struct {
	MinRating *decimal.Decimal
	Sort      string
}

// CategorySummary is a category row annotated with its product count.
type CategorySummary struct {
	models.Category
	ProductCount int64 `json:"product_count"`
}

// ProductPage is one resolved page of product rows.
type ProductPage struct {
	Products []models.Product
	Page     pagination.Result
}

// Repository provides the catalog read and write paths.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListCategories returns all categories with their product counts, ordered by
// name.
func (r *Repository) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	var rows []CategorySummary
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.*, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id").
		Order("categories.name ASC").
		Find(&rows).
		Error
	return rows, err
}

// GetCategoryBySlug loads a single category.
func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a new category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// ListFeatured returns promoted products, newest first.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_featured = ?", true).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// ListTopRated returns the highest-rated products.
func (r *Repository) ListTopRated(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("rating DESC, created_at DESC, id ASC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// ListByCategory filters, sorts, and paginates products within a category.
func (r *Repository) ListByCategory(ctx context.Context, categoryID uuid.UUID, filters ListFilters, params pagination.Params) (*ProductPage, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID)

	if filters.MinRating != nil {
		qb = qb.Where("rating >= ?", *filters.MinRating)
	}

	return r.paginate(ctx, qb, NormalizeSort(filters.Sort), params)
}

// Search matches products by case-insensitive substring on name or
// description. An empty query returns the unfiltered catalog.
func (r *Repository) Search(ctx context.Context, query string, params pagination.Params) (*ProductPage, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if query != "" {
		pattern := "%" + query + "%"
		qb = qb.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}
	return r.paginate(ctx, qb, SortNewest, params)
}

func (r *Repository) paginate(ctx context.Context, qb *gorm.DB, sort string, params pagination.Params) (*ProductPage, error) {
	var total int64
	if err := qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	page, offset := pagination.Resolve(params, pagination.DefaultProductPageSize, total)

	var rows []models.Product
	err := qb.Session(&gorm.Session{}).
		Preload("Category").
		Order(sortClauses[sort]).
		Offset(offset).
		Limit(page.PageSize).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	return &ProductPage{Products: rows, Page: page}, nil
}

// GetBySlug loads a product with its category.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "slug = ?", slug).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByID loads a product without associations.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetRelated returns up to limit products sharing the category, excluding the
// product itself.
func (r *Repository) GetRelated(ctx context.Context, product *models.Product, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ?", product.CategoryID, product.ID).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// IncrementViews bumps views_count with a single-statement increment so
// concurrent detail reads never lose an update, and never touches any other
// column.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).
		Error
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct persists the provided column values for an existing product.
func (r *Repository) UpdateProduct(ctx context.Context, id uuid.UUID, values map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(values).
		Error
}

// DeleteProduct removes a product; its clicks cascade at the store.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// UpdateCategory persists the provided column values for a category.
func (r *Repository) UpdateCategory(ctx context.Context, id uuid.UUID, values map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(values).
		Error
}

// DeleteCategory removes a category; its products cascade at the store.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

// ListAll returns every product with its category, newest first. Used by the
// sitemap and CSV export.
func (r *Repository) ListAll(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC, id ASC").
		Find(&rows).
		Error
	return rows, err
}
