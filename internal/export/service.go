package export

import (
	"context"
	"fmt"
	"time"

	"github.com/techdealshub/techdealshub-backend/internal/catalog"
	"github.com/techdealshub/techdealshub-backend/internal/clicks"
	"github.com/techdealshub/techdealshub-backend/internal/content"
	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
)

// Column sets for the stock exports. Anything an admin backend shows for the
// entity is exportable here.
var (
	ProductFields = []Field{
		{Header: "Name", Path: "name"},
		{Header: "Slug", Path: "slug"},
		{Header: "Category", Path: "category.name"},
		{Header: "Price", Path: "price"},
		{Header: "Original Price", Path: "original_price"},
		{Header: "Rating", Path: "rating"},
		{Header: "Featured", Path: "is_featured"},
		{Header: "Clicks", Path: "click_count"},
		{Header: "Views", Path: "views_count"},
		{Header: "Affiliate URL", Path: "affiliate_url"},
		{Header: "Created", Path: "created_at"},
	}

	ClickFields = []Field{
		{Header: "Product", Path: "product.name"},
		{Header: "Product Slug", Path: "product.slug"},
		{Header: "IP Address", Path: "ip_address"},
		{Header: "User Agent", Path: "user_agent"},
		{Header: "Referrer", Path: "referrer"},
		{Header: "Clicked At", Path: "created_at"},
	}

	PostFields = []Field{
		{Header: "Title", Path: "title"},
		{Header: "Slug", Path: "slug"},
		{Header: "Author", Path: "author.name"},
		{Header: "Published", Path: "is_published"},
		{Header: "Published At", Path: "published_at"},
		{Header: "Views", Path: "views_count"},
		{Header: "Created", Path: "created_at"},
	}
)

// Document is a rendered export ready to stream to the client.
type Document struct {
	Filename string
	Data     []byte
}

// Service renders CSV exports of the admin-visible entities.
type Service interface {
	Products(ctx context.Context) (*Document, error)
	Clicks(ctx context.Context) (*Document, error)
	Posts(ctx context.Context) (*Document, error)
}

type service struct {
	catalogRepo *catalog.Repository
	clicksRepo  *clicks.Repository
	contentRepo *content.Repository
	now         func() time.Time
}

// NewService constructs the export service.
func NewService(catalogRepo *catalog.Repository, clicksRepo *clicks.Repository, contentRepo *content.Repository) (Service, error) {
	if catalogRepo == nil || clicksRepo == nil || contentRepo == nil {
		return nil, fmt.Errorf("export service requires catalog, clicks, and content repositories")
	}
	return &service{
		catalogRepo: catalogRepo,
		clicksRepo:  clicksRepo,
		contentRepo: contentRepo,
		now:         time.Now,
	}, nil
}

func (s *service) Products(ctx context.Context) (*Document, error) {
	rows, err := s.catalogRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading products for export")
	}
	return s.render("products", ProductFields, rows)
}

func (s *service) Clicks(ctx context.Context) (*Document, error) {
	rows, err := s.clicksRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading clicks for export")
	}
	return s.render("clicks", ClickFields, rows)
}

func (s *service) Posts(ctx context.Context) (*Document, error) {
	rows, err := s.contentRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading posts for export")
	}
	return s.render("blog_posts", PostFields, rows)
}

func (s *service) render(entity string, fields []Field, rows any) (*Document, error) {
	data, err := MarshalCSV(fields, rows)
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename: Filename(entity, s.now().UTC()),
		Data:     data,
	}, nil
}
