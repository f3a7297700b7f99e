package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Click is one logged affiliate redirect. Rows are append-only; nothing
// updates them after insert and only the admin bulk purge deletes them.
type Click struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:idx_clicks_product_created,priority:1" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	IPAddress *string   `gorm:"column:ip_address;size:45" json:"ip_address,omitempty"`
	UserAgent *string   `gorm:"column:user_agent" json:"user_agent,omitempty"`
	Referrer  *string   `gorm:"column:referrer;size:500" json:"referrer,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_clicks_product_created,priority:2;index:idx_clicks_created" json:"created_at"`
}

func (c *Click) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
