package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/techdealshub/techdealshub-backend/pkg/db"
	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
	"github.com/techdealshub/techdealshub-backend/pkg/pagination"
)

const (
	homeProductLimit    = 6
	relatedProductLimit = 4
)

// Service exposes the catalog browsing operations.
type Service interface {
	Home(ctx context.Context) (*HomeData, error)
	CategoryIndex(ctx context.Context) ([]CategorySummary, error)
	BrowseCategory(ctx context.Context, slug string, input BrowseInput) (*CategoryListing, error)
	Search(ctx context.Context, query string, page int) (*SearchListing, error)
	ProductDetail(ctx context.Context, slug string) (*ProductDetail, error)
}

// BrowseInput carries the category listing query knobs. MinRating is the raw
// query value; an unparsable value is ignored rather than rejected.
type BrowseInput struct {
	MinRating string
	Sort      string
	Page      int
}

type service struct {
	repo *Repository
}

// NewService constructs the browsing service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Home(ctx context.Context) (*HomeData, error) {
	featured, err := s.repo.ListFeatured(ctx, homeProductLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing featured products")
	}

	topRated, err := s.repo.ListTopRated(ctx, homeProductLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing top rated products")
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}

	return &HomeData{
		Featured:   toProductDTOs(featured),
		TopRated:   toProductDTOs(topRated),
		Categories: categories,
	}, nil
}

func (s *service) CategoryIndex(ctx context.Context) ([]CategorySummary, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}
	return categories, nil
}

func (s *service) BrowseCategory(ctx context.Context, slug string, input BrowseInput) (*CategoryListing, error) {
	category, err := s.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}

	filters := ListFilters{Sort: NormalizeSort(input.Sort)}
	if raw := strings.TrimSpace(input.MinRating); raw != "" {
		if minRating, err := decimal.NewFromString(raw); err == nil {
			filters.MinRating = &minRating
		}
	}

	page, err := s.repo.ListByCategory(ctx, category.ID, filters, pagination.Params{Page: input.Page})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing category products")
	}

	return &CategoryListing{
		Category: *category,
		Products: toProductDTOs(page.Products),
		Sort:     filters.Sort,
		Page:     page.Page,
	}, nil
}

func (s *service) Search(ctx context.Context, query string, page int) (*SearchListing, error) {
	trimmed := strings.TrimSpace(query)

	result, err := s.repo.Search(ctx, trimmed, pagination.Params{Page: page})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching products")
	}

	return &SearchListing{
		Query:    trimmed,
		Products: toProductDTOs(result.Products),
		Page:     result.Page,
	}, nil
}

func (s *service) ProductDetail(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if err := s.repo.IncrementViews(ctx, product.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "incrementing product views")
	}
	product.ViewsCount++

	related, err := s.repo.GetRelated(ctx, product, relatedProductLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading related products")
	}

	return &ProductDetail{
		Product: toProductDTO(product),
		Related: toProductDTOs(related),
	}, nil
}
