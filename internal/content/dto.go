package content

import (
	"time"

	"github.com/google/uuid"

	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
	"github.com/techdealshub/techdealshub-backend/pkg/pagination"
)

// PostDTO is the page-ready blog post shape.
type PostDTO struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content,omitempty"`
	Excerpt         string     `json:"excerpt,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	FeaturedImage   string     `json:"featured_image,omitempty"`
	AuthorName      string     `json:"author_name"`
	ViewsCount      int        `json:"views_count"`
	CreatedAt       time.Time  `json:"created_at"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

func toPostDTO(p *models.BlogPost, includeContent bool) PostDTO {
	dto := PostDTO{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		FeaturedImage: p.FeaturedImage,
		AuthorName:    p.AuthorName(),
		ViewsCount:    p.ViewsCount,
		CreatedAt:     p.CreatedAt,
		PublishedAt:   p.PublishedAt,
	}
	if p.Excerpt != nil {
		dto.Excerpt = *p.Excerpt
	}
	if p.MetaDescription != nil {
		dto.MetaDescription = *p.MetaDescription
	}
	if includeContent {
		dto.Content = p.Content
	}
	return dto
}

func toPostDTOs(rows []models.BlogPost, includeContent bool) []PostDTO {
	out := make([]PostDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toPostDTO(&rows[i], includeContent))
	}
	return out
}

// PostListing is one page of the blog index.
type PostListing struct {
	Posts []PostDTO         `json:"posts"`
	Page  pagination.Result `json:"pagination"`
}

// PostDetail pairs a full post with further reading.
type PostDetail struct {
	Post    PostDTO   `json:"post"`
	Related []PostDTO `json:"related_posts"`
}
