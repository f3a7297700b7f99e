package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// AuthorFallbackName is shown when a post's author reference has been nulled.
const AuthorFallbackName = "Admin"

// Author is the minimal writer identity attached to blog posts. Deleting an
// author keeps their posts and nulls the reference.
type Author struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:150;not null" json:"name"`
	Email     string    `gorm:"column:email;size:254;not null;uniqueIndex:idx_authors_email" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (a *Author) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// BlogPost is SEO content. Only published posts are served publicly.
type BlogPost struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title           string     `gorm:"column:title;size:255;not null" json:"title"`
	Slug            string     `gorm:"column:slug;not null;uniqueIndex:idx_blog_posts_slug" json:"slug"`
	Content         string     `gorm:"column:content;not null" json:"content"`
	FeaturedImage   string     `gorm:"column:featured_image;size:500" json:"featured_image"`
	Excerpt         *string    `gorm:"column:excerpt;size:500" json:"excerpt,omitempty"`
	MetaDescription *string    `gorm:"column:meta_description;size:160" json:"meta_description,omitempty"`
	AuthorID        *uuid.UUID `gorm:"column:author_id;type:uuid" json:"author_id,omitempty"`
	Author          *Author    `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	IsPublished     bool       `gorm:"column:is_published;not null;default:false;index:idx_blog_posts_published" json:"is_published"`
	ViewsCount      int        `gorm:"column:views_count;not null;default:0" json:"views_count"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime;index:idx_blog_posts_created" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	PublishedAt     *time.Time `gorm:"column:published_at;index:idx_blog_posts_published_at" json:"published_at,omitempty"`
}

func (b *BlogPost) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Slug == "" {
		b.Slug = slug.Make(b.Title)
	}
	return nil
}

// AuthorName resolves the display name, falling back when the author
// reference is absent.
func (b *BlogPost) AuthorName() string {
	if b.Author == nil || b.Author.Name == "" {
		return AuthorFallbackName
	}
	return b.Author.Name
}
