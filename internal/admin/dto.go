package admin

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techdealshub/techdealshub-backend/internal/clicks"
)

// CategoryInput is the admin create/update payload for a category.
type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty" validate:"omitempty,max=100"`
}

// ProductInput is the admin create/update payload for a product. Pros and
// cons arrive as comma-separated lists, matching how they are stored.
type ProductInput struct {
	CategoryID    uuid.UUID        `json:"category_id" validate:"required"`
	Name          string           `json:"name" validate:"required,max=255"`
	Description   string           `json:"description" validate:"required"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Rating        *decimal.Decimal `json:"rating,omitempty"`
	Image         string           `json:"image,omitempty" validate:"omitempty,max=500"`
	AffiliateURL  string           `json:"affiliate_url" validate:"required,url,max=1000"`
	Pros          *string          `json:"pros,omitempty"`
	Cons          *string          `json:"cons,omitempty"`
	IsFeatured    bool             `json:"is_featured"`
}

// PostInput is the admin create/update payload for a blog post. Naming an
// author creates the author row on first use.
type PostInput struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Content         string  `json:"content" validate:"required"`
	Excerpt         *string `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	MetaDescription *string `json:"meta_description,omitempty" validate:"omitempty,max=160"`
	FeaturedImage   string  `json:"featured_image,omitempty" validate:"omitempty,max=500"`
	AuthorName      string  `json:"author_name,omitempty" validate:"omitempty,max=150"`
	AuthorEmail     string  `json:"author_email,omitempty" validate:"omitempty,email"`
	IsPublished     bool    `json:"is_published"`
}

// PurgeInput bounds the click ledger purge.
type PurgeInput struct {
	RetentionDays int `json:"retention_days" validate:"min=0,max=3650"`
}

// Dashboard summarizes the site for the admin landing page.
type Dashboard struct {
	TotalProducts   int64        `json:"total_products"`
	TotalCategories int64        `json:"total_categories"`
	TotalPosts      int64        `json:"total_posts"`
	PublishedPosts  int64        `json:"published_posts"`
	ClickStats      clicks.Stats `json:"click_stats"`
}
