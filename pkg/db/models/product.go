package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is an affiliate listing. The affiliate URL points at the external
// merchant; ClickCount and ViewsCount are denormalized counters bumped with
// single-statement increments.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CategoryID    uuid.UUID        `gorm:"column:category_id;type:uuid;not null;index:idx_products_category_created,priority:1" json:"category_id"`
	Category      *Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Name          string           `gorm:"column:name;size:255;not null" json:"name"`
	Slug          string           `gorm:"column:slug;not null;uniqueIndex:idx_products_slug" json:"slug"`
	Description   string           `gorm:"column:description;not null" json:"description"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	OriginalPrice *decimal.Decimal `gorm:"column:original_price;type:numeric(10,2)" json:"original_price,omitempty"`
	Rating        decimal.Decimal  `gorm:"column:rating;type:numeric(3,1);not null;default:4.5" json:"rating"`
	Image         string           `gorm:"column:image;size:500" json:"image"`
	AffiliateURL  string           `gorm:"column:affiliate_url;size:500;not null" json:"affiliate_url"`
	Pros          *string          `gorm:"column:pros" json:"pros,omitempty"`
	Cons          *string          `gorm:"column:cons" json:"cons,omitempty"`
	IsFeatured    bool             `gorm:"column:is_featured;not null;default:false;index:idx_products_featured" json:"is_featured"`
	ClickCount    int              `gorm:"column:click_count;not null;default:0" json:"click_count"`
	ViewsCount    int              `gorm:"column:views_count;not null;default:0" json:"views_count"`
	Clicks        []Click          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime;index:idx_products_category_created,priority:2;index:idx_products_created" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the ID and derives the slug from the name when absent.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
	}
	return nil
}

// DiscountPercentage derives the rounded percentage saved off the original
// price. Zero when no original price is set or the product is not discounted.
func (p *Product) DiscountPercentage() int {
	if p.OriginalPrice == nil || !p.Price.LessThan(*p.OriginalPrice) {
		return 0
	}
	if p.OriginalPrice.IsZero() {
		return 0
	}
	discount := p.OriginalPrice.Sub(p.Price).
		Div(*p.OriginalPrice).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	return int(discount.IntPart())
}

// ProsList splits the stored comma-separated pros into trimmed entries.
func (p *Product) ProsList() []string {
	return splitCommaList(p.Pros)
}

// ConsList splits the stored comma-separated cons into trimmed entries.
func (p *Product) ConsList() []string {
	return splitCommaList(p.Cons)
}

func splitCommaList(value *string) []string {
	if value == nil {
		return []string{}
	}
	parts := strings.Split(*value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
