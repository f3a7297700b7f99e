package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
	"github.com/techdealshub/techdealshub-backend/pkg/pagination"
)

// ProductDTO is the page-ready product shape, with the derived fields the
// templates consume already computed.
type ProductDTO struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Slug               string           `json:"slug"`
	Description        string           `json:"description"`
	Price              decimal.Decimal  `json:"price"`
	OriginalPrice      *decimal.Decimal `json:"original_price,omitempty"`
	DiscountPercentage int              `json:"discount_percentage"`
	Rating             decimal.Decimal  `json:"rating"`
	Image              string           `json:"image"`
	AffiliateURL       string           `json:"affiliate_url"`
	Pros               []string         `json:"pros"`
	Cons               []string         `json:"cons"`
	CategoryName       string           `json:"category_name,omitempty"`
	CategorySlug       string           `json:"category_slug,omitempty"`
	IsFeatured         bool             `json:"is_featured"`
	ClickCount         int              `json:"click_count"`
	ViewsCount         int              `json:"views_count"`
	CreatedAt          time.Time        `json:"created_at"`
}

func toProductDTO(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:                 p.ID,
		Name:               p.Name,
		Slug:               p.Slug,
		Description:        p.Description,
		Price:              p.Price,
		OriginalPrice:      p.OriginalPrice,
		DiscountPercentage: p.DiscountPercentage(),
		Rating:             p.Rating,
		Image:              p.Image,
		AffiliateURL:       p.AffiliateURL,
		Pros:               p.ProsList(),
		Cons:               p.ConsList(),
		IsFeatured:         p.IsFeatured,
		ClickCount:         p.ClickCount,
		ViewsCount:         p.ViewsCount,
		CreatedAt:          p.CreatedAt,
	}
	if p.Category != nil {
		dto.CategoryName = p.Category.Name
		dto.CategorySlug = p.Category.Slug
	}
	return dto
}

func toProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toProductDTO(&rows[i]))
	}
	return out
}

// HomeData feeds the homepage: promoted picks, highest-rated picks, and the
// category navigation.
type HomeData struct {
	Featured   []ProductDTO      `json:"featured_products"`
	TopRated   []ProductDTO      `json:"top_rated_products"`
	Categories []CategorySummary `json:"categories"`
}

// CategoryListing is one page of a category browse.
type CategoryListing struct {
	Category models.Category   `json:"category"`
	Products []ProductDTO      `json:"products"`
	Sort     string            `json:"sort"`
	Page     pagination.Result `json:"pagination"`
}

// SearchListing is one page of search results.
type SearchListing struct {
	Query    string            `json:"query"`
	Products []ProductDTO      `json:"products"`
	Page     pagination.Result `json:"pagination"`
}

// ProductDetail pairs a product with its related picks.
type ProductDetail struct {
	Product ProductDTO   `json:"product"`
	Related []ProductDTO `json:"related_products"`
}
