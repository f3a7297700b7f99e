package clicks

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/techdealshub/techdealshub-backend/internal/catalog"
	"github.com/techdealshub/techdealshub-backend/pkg/db"
	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
	"github.com/techdealshub/techdealshub-backend/pkg/metrics"
)

// RequestMeta carries the visitor attributes logged with each click.
type RequestMeta struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

// MetaFromRequest extracts the visitor attributes from an incoming request.
// Behind a proxy the client address is the first X-Forwarded-For entry;
// otherwise it is the peer address with the port stripped.
func MetaFromRequest(r *http.Request) RequestMeta {
	meta := RequestMeta{
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		meta.IPAddress = strings.TrimSpace(strings.Split(forwarded, ",")[0])
		return meta
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		meta.IPAddress = r.RemoteAddr
		return meta
	}
	meta.IPAddress = host
	return meta
}

// Service resolves affiliate redirects and records them in the ledger.
type Service interface {
	Redirect(ctx context.Context, productID uuid.UUID, meta RequestMeta) (string, error)
	RecentClicks(ctx context.Context, limit int) ([]models.Click, error)
	Stats(ctx context.Context) (*Stats, error)
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Stats summarizes ledger activity for the admin dashboard.
type Stats struct {
	TotalClicks  int64 `json:"total_clicks"`
	ClicksToday  int64 `json:"clicks_today"`
	ClicksWeekly int64 `json:"clicks_weekly"`
}

type service struct {
	repo        *Repository
	catalogRepo *catalog.Repository
	log         *logger.Logger
	httpMetrics *metrics.HTTPMetrics
}

// NewService constructs the redirect service. httpMetrics may be nil.
func NewService(repo *Repository, catalogRepo *catalog.Repository, log *logger.Logger, httpMetrics *metrics.HTTPMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("clicks repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, catalogRepo: catalogRepo, log: log, httpMetrics: httpMetrics}, nil
}

// Redirect resolves the product, appends a click row, bumps the product's
// counter, and returns the affiliate URL to send the visitor to. The ledger
// append is the source of truth; the counter is a denormalized tally bumped
// right after it.
func (s *service) Redirect(ctx context.Context, productID uuid.UUID, meta RequestMeta) (string, error) {
	product, err := s.catalogRepo.GetByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	click := &models.Click{ProductID: product.ID}
	if meta.IPAddress != "" {
		click.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		click.UserAgent = &meta.UserAgent
	}
	if meta.Referrer != "" {
		click.Referrer = &meta.Referrer
	}

	if err := s.repo.Append(ctx, click); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording click")
	}
	if err := s.repo.IncrementProductClicks(ctx, product.ID); err != nil {
		// The ledger row already landed, so flag the half-recorded click
		// before failing the redirect.
		s.log.Error(s.log.WithProductID(ctx, product.ID.String()), "click counter increment failed", err)
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "incrementing click counter")
	}

	if s.httpMetrics != nil {
		s.httpMetrics.IncRedirect(product.Slug)
	}

	return product.AffiliateURL, nil
}

func (s *service) RecentClicks(ctx context.Context, limit int) ([]models.Click, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing clicks")
	}
	return rows, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting clicks")
	}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	today, err := s.repo.CountSince(ctx, startOfDay)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting today's clicks")
	}

	weekly, err := s.repo.CountSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting weekly clicks")
	}

	return &Stats{TotalClicks: total, ClicksToday: today, ClicksWeekly: weekly}, nil
}

// Purge removes ledger rows older than the retention window.
func (s *service) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "retention window must not be negative")
	}
	removed, err := s.repo.PurgeOlderThan(ctx, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "purging clicks")
	}
	return removed, nil
}
