package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Category groups products for browsing and navigation.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;size:200;not null;uniqueIndex:idx_categories_name" json:"name"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex:idx_categories_slug" json:"slug"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	Icon        *string   `gorm:"column:icon;size:100" json:"icon,omitempty"`
	Products    []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the ID and derives the slug from the name when absent.
// The slug is never regenerated on later saves.
func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}
