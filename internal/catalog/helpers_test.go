package catalog

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
)

type testProductOpts struct {
	name       string
	price      string
	original   string
	rating     string
	featured   bool
	pros       string
	desc       string
	categoryID uuid.UUID
}

func mustCreateTestCategory(t *testing.T, tx *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func mustBuildProduct(categoryID uuid.UUID, name string) *models.Product {
	return &models.Product{
		CategoryID:   categoryID,
		Name:         name,
		Description:  "A solid pick for most buyers.",
		Price:        decimal.RequireFromString("99.99"),
		Rating:       decimal.RequireFromString("4.5"),
		AffiliateURL: "https://merchant.example.com/buy/" + uuid.NewString(),
	}
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, opts testProductOpts) *models.Product {
	t.Helper()

	if opts.name == "" {
		opts.name = fmt.Sprintf("Product %s", uuid.NewString())
	}
	if opts.price == "" {
		opts.price = "99.99"
	}
	if opts.rating == "" {
		opts.rating = "4.5"
	}
	if opts.desc == "" {
		opts.desc = "A solid pick for most buyers."
	}

	product := &models.Product{
		CategoryID:   opts.categoryID,
		Name:         opts.name,
		Description:  opts.desc,
		Price:        decimal.RequireFromString(opts.price),
		Rating:       decimal.RequireFromString(opts.rating),
		AffiliateURL: "https://merchant.example.com/buy/" + uuid.NewString(),
		IsFeatured:   opts.featured,
	}
	if opts.original != "" {
		original := decimal.RequireFromString(opts.original)
		product.OriginalPrice = &original
	}
	if opts.pros != "" {
		product.Pros = &opts.pros
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
