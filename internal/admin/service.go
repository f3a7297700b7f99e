package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/techdealshub/techdealshub-backend/internal/catalog"
	"github.com/techdealshub/techdealshub-backend/internal/clicks"
	"github.com/techdealshub/techdealshub-backend/internal/content"
	"github.com/techdealshub/techdealshub-backend/pkg/db"
	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
)

var (
	defaultRating = decimal.RequireFromString("4.5")
	maxRating     = decimal.NewFromInt(5)
)

// Service is the admin backend: entity CRUD, the dashboard, and ledger
// maintenance. Authentication happens upstream in the router.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)

	ListCategories(ctx context.Context) ([]catalog.CategorySummary, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListPosts(ctx context.Context) ([]models.BlogPost, error)
	CreatePost(ctx context.Context, input PostInput) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, id uuid.UUID, input PostInput) (*models.BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	RecentClicks(ctx context.Context, limit int) ([]models.Click, error)
	PurgeClicks(ctx context.Context, input PurgeInput) (int64, error)
}

type service struct {
	db          *gorm.DB
	catalogRepo *catalog.Repository
	contentRepo *content.Repository
	clicksSvc   clicks.Service
}

// NewService constructs the admin backend service.
func NewService(conn *gorm.DB, catalogRepo *catalog.Repository, contentRepo *content.Repository, clicksSvc clicks.Service) (Service, error) {
	if conn == nil || catalogRepo == nil || contentRepo == nil || clicksSvc == nil {
		return nil, fmt.Errorf("admin service requires db, catalog, content, and clicks dependencies")
	}
	return &service{
		db:          conn,
		catalogRepo: catalogRepo,
		contentRepo: contentRepo,
		clicksSvc:   clicksSvc,
	}, nil
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	dash := &Dashboard{}

	counts := []struct {
		model any
		dest  *int64
		scope func(*gorm.DB) *gorm.DB
	}{
		{model: &models.Product{}, dest: &dash.TotalProducts},
		{model: &models.Category{}, dest: &dash.TotalCategories},
		{model: &models.BlogPost{}, dest: &dash.TotalPosts},
		{model: &models.BlogPost{}, dest: &dash.PublishedPosts, scope: func(qb *gorm.DB) *gorm.DB {
			return qb.Where("is_published = ?", true)
		}},
	}
	for _, c := range counts {
		qb := s.db.WithContext(ctx).Model(c.model)
		if c.scope != nil {
			qb = c.scope(qb)
		}
		if err := qb.Count(c.dest).Error; err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting rows")
		}
	}

	stats, err := s.clicksSvc.Stats(ctx)
	if err != nil {
		return nil, err
	}
	dash.ClickStats = *stats
	return dash, nil
}

func (s *service) ListCategories(ctx context.Context) ([]catalog.CategorySummary, error) {
	rows, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}
	return rows, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
		Icon:        input.Icon,
	}
	created, err := s.catalogRepo.CreateCategory(ctx, category)
	if err != nil {
		return nil, storeError(err, "category")
	}
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	// Renames keep the original slug so published URLs stay alive.
	values := map[string]any{
		"name":        input.Name,
		"description": input.Description,
		"icon":        input.Icon,
	}
	if err := s.catalogRepo.UpdateCategory(ctx, id, values); err != nil {
		return nil, storeError(err, "category")
	}

	category, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getCategory(ctx, id); err != nil {
		return err
	}
	if err := s.catalogRepo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting category")
	}
	return nil
}

func (s *service) getCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	return &category, nil
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.catalogRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return rows, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	if _, err := s.getCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	rating := defaultRating
	if input.Rating != nil {
		rating = *input.Rating
	}

	product := &models.Product{
		CategoryID:    input.CategoryID,
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Rating:        rating,
		Image:         input.Image,
		AffiliateURL:  input.AffiliateURL,
		Pros:          input.Pros,
		Cons:          input.Cons,
		IsFeatured:    input.IsFeatured,
	}
	created, err := s.catalogRepo.CreateProduct(ctx, product)
	if err != nil {
		return nil, storeError(err, "product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	if _, err := s.getCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if _, err := s.catalogRepo.GetByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	values := map[string]any{
		"category_id":    input.CategoryID,
		"name":           input.Name,
		"description":    input.Description,
		"price":          input.Price,
		"original_price": input.OriginalPrice,
		"image":          input.Image,
		"affiliate_url":  input.AffiliateURL,
		"pros":           input.Pros,
		"cons":           input.Cons,
		"is_featured":    input.IsFeatured,
	}
	if input.Rating != nil {
		values["rating"] = *input.Rating
	}

	if err := s.catalogRepo.UpdateProduct(ctx, id, values); err != nil {
		return nil, storeError(err, "product")
	}

	product, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading product")
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.catalogRepo.GetByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if err := s.catalogRepo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

func (s *service) ListPosts(ctx context.Context) ([]models.BlogPost, error) {
	rows, err := s.contentRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing posts")
	}
	return rows, nil
}

func (s *service) CreatePost(ctx context.Context, input PostInput) (*models.BlogPost, error) {
	post := &models.BlogPost{
		Title:           input.Title,
		Content:         input.Content,
		Excerpt:         input.Excerpt,
		MetaDescription: input.MetaDescription,
		FeaturedImage:   input.FeaturedImage,
		IsPublished:     input.IsPublished,
	}
	if input.IsPublished {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := s.attachAuthor(ctx, post, input); err != nil {
		return nil, err
	}

	created, err := s.contentRepo.Create(ctx, post)
	if err != nil {
		return nil, storeError(err, "post")
	}
	return created, nil
}

func (s *service) UpdatePost(ctx context.Context, id uuid.UUID, input PostInput) (*models.BlogPost, error) {
	existing, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading post")
	}

	values := map[string]any{
		"title":            input.Title,
		"content":          input.Content,
		"excerpt":          input.Excerpt,
		"meta_description": input.MetaDescription,
		"featured_image":   input.FeaturedImage,
		"is_published":     input.IsPublished,
	}
	// First publish stamps the date; it survives later unpublish/republish.
	if input.IsPublished && existing.PublishedAt == nil {
		values["published_at"] = time.Now().UTC()
	}

	if input.AuthorEmail != "" {
		author, err := s.contentRepo.GetOrCreateAuthor(ctx, authorName(input), input.AuthorEmail)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving author")
		}
		values["author_id"] = author.ID
	}

	if err := s.contentRepo.Update(ctx, id, values); err != nil {
		return nil, storeError(err, "post")
	}

	post, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading post")
	}
	return post, nil
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if _, err := s.contentRepo.GetByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading post")
	}
	if err := s.contentRepo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting post")
	}
	return nil
}

func (s *service) RecentClicks(ctx context.Context, limit int) ([]models.Click, error) {
	return s.clicksSvc.RecentClicks(ctx, limit)
}

func (s *service) PurgeClicks(ctx context.Context, input PurgeInput) (int64, error) {
	return s.clicksSvc.Purge(ctx, time.Duration(input.RetentionDays)*24*time.Hour)
}

func (s *service) attachAuthor(ctx context.Context, post *models.BlogPost, input PostInput) error {
	if input.AuthorEmail == "" {
		return nil
	}
	author, err := s.contentRepo.GetOrCreateAuthor(ctx, authorName(input), input.AuthorEmail)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving author")
	}
	post.AuthorID = &author.ID
	return nil
}

func authorName(input PostInput) string {
	if input.AuthorName != "" {
		return input.AuthorName
	}
	return models.AuthorFallbackName
}

// validateProductInput enforces the pricing and rating rules before anything
// touches the store.
func validateProductInput(input ProductInput) error {
	details := map[string]string{}

	if input.Price.IsNegative() {
		details["price"] = "must not be negative"
	}
	if input.OriginalPrice != nil && input.OriginalPrice.LessThan(input.Price) {
		details["original_price"] = "must be greater than or equal to price"
	}
	if input.Rating != nil && (input.Rating.IsNegative() || input.Rating.GreaterThan(maxRating)) {
		details["rating"] = "must be between 0 and 5"
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

// storeError translates store failures: slug and name collisions surface as
// conflicts, everything else is internal.
func storeError(err error, entity string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, entity+" with the same name or slug already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving "+entity)
}
