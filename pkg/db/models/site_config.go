package models

import "time"

// SiteConfigID is the fixed primary key of the single configuration row.
const SiteConfigID = 1

// SiteConfig is the singleton global site configuration, lazily created with
// defaults on first access.
type SiteConfig struct {
	ID              uint      `gorm:"column:id;primaryKey" json:"id"`
	SiteName        string    `gorm:"column:site_name;size:255;not null" json:"site_name"`
	SiteDescription string    `gorm:"column:site_description;not null" json:"site_description"`
	Logo            *string   `gorm:"column:logo;size:500" json:"logo,omitempty"`
	Favicon         *string   `gorm:"column:favicon;size:500" json:"favicon,omitempty"`
	ContactEmail    string    `gorm:"column:contact_email;size:254" json:"contact_email"`
	Phone           *string   `gorm:"column:phone;size:20" json:"phone,omitempty"`
	Address         *string   `gorm:"column:address" json:"address,omitempty"`
	FacebookURL     *string   `gorm:"column:facebook_url;size:500" json:"facebook_url,omitempty"`
	TwitterURL      *string   `gorm:"column:twitter_url;size:500" json:"twitter_url,omitempty"`
	InstagramURL    *string   `gorm:"column:instagram_url;size:500" json:"instagram_url,omitempty"`
	LinkedinURL     *string   `gorm:"column:linkedin_url;size:500" json:"linkedin_url,omitempty"`
	OGImage         *string   `gorm:"column:og_image;size:500" json:"og_image,omitempty"`
	GoogleAnalytics *string   `gorm:"column:google_analytics_id;size:50" json:"google_analytics_id,omitempty"`
	Keywords        *string   `gorm:"column:keywords;size:255" json:"keywords,omitempty"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// DefaultSiteConfig returns the row inserted on first access.
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		ID:              SiteConfigID,
		SiteName:        "TechDealsHub",
		SiteDescription: "Find the best tech products and affiliate deals",
	}
}
