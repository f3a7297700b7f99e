package content

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
	"github.com/techdealshub/techdealshub-backend/pkg/pagination"
)

// publishedOrder sorts by the publication date first, so a post written
// early but published late still leads every listing. The id tiebreak
// keeps pagination stable.
const publishedOrder = "published_at DESC, created_at DESC, id ASC"

// PostPage is one resolved page of published posts.
type PostPage struct {
	Posts []models.BlogPost
	Page  pagination.Result
}

// Repository provides the blog read and write paths.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListPublished paginates published posts, newest first.
func (r *Repository) ListPublished(ctx context.Context, params pagination.Params) (*PostPage, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("is_published = ?", true)

	var total int64
	if err := qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	page, offset := pagination.Resolve(params, pagination.DefaultPostPageSize, total)

	var rows []models.BlogPost
	err := qb.Session(&gorm.Session{}).
		Preload("Author").
		Order(publishedOrder).
		Offset(offset).
		Limit(page.PageSize).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	return &PostPage{Posts: rows, Page: page}, nil
}

// ListRecent returns the newest published posts for the homepage strip.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.BlogPost, error) {
	var rows []models.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("is_published = ?", true).
		Order(publishedOrder).
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// GetPublishedBySlug loads a single published post with its author. Drafts
// stay invisible on this path.
func (r *Repository) GetPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&post, "slug = ? AND is_published = ?", slug, true).
		Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByID loads a post regardless of publication state.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListRelated returns other published posts, newest first.
func (r *Repository) ListRelated(ctx context.Context, exclude uuid.UUID, limit int) ([]models.BlogPost, error) {
	var rows []models.BlogPost
	err := r.db.WithContext(ctx).
		Where("is_published = ? AND id <> ?", true, exclude).
		Order(publishedOrder).
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// IncrementViews bumps views_count in a single statement.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).
		Error
}

// ListPublishedAll returns every published post, newest first. Used by the
// sitemap.
func (r *Repository) ListPublishedAll(ctx context.Context) ([]models.BlogPost, error) {
	var rows []models.BlogPost
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order(publishedOrder).
		Find(&rows).
		Error
	return rows, err
}

// ListAll returns every post, drafts included, newest first. Used by the
// admin listing and CSV export.
func (r *Repository) ListAll(ctx context.Context) ([]models.BlogPost, error) {
	var rows []models.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC, id ASC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a new post row.
func (r *Repository) Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Update persists the provided column values for an existing post.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, values map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", id).
		Updates(values).
		Error
}

// Delete removes a post.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BlogPost{}).Error
}

// GetOrCreateAuthor finds an author by email, creating the row on first use.
func (r *Repository) GetOrCreateAuthor(ctx context.Context, name, email string) (*models.Author, error) {
	var author models.Author
	err := r.db.WithContext(ctx).First(&author, "email = ?", email).Error
	if err == nil {
		return &author, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	author = models.Author{Name: name, Email: email}
	if err := r.db.WithContext(ctx).Create(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}
