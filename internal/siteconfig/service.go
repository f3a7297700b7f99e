package siteconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
	"github.com/techdealshub/techdealshub-backend/pkg/redis"
)

// Service serves the singleton site configuration. Reads go through the cache
// when one is wired; writes invalidate it.
type Service interface {
	Get(ctx context.Context) (*models.SiteConfig, error)
	Update(ctx context.Context, values map[string]any) (*models.SiteConfig, error)
}

type service struct {
	db       *gorm.DB
	cache    *redis.Client
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewService constructs the configuration service. cache may be nil, in which
// case every read hits the store.
func NewService(db *gorm.DB, cache *redis.Client, cacheTTL time.Duration, log *logger.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &service{db: db, cache: cache, cacheTTL: cacheTTL, log: log}, nil
}

// Get returns the configuration row, creating it with defaults the first time
// anything asks for it.
func (s *service) Get(ctx context.Context) (*models.SiteConfig, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	cfg, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading site configuration")
	}

	s.toCache(ctx, cfg)
	return cfg, nil
}

// updatableColumns is the writable surface of the configuration row.
var updatableColumns = map[string]bool{
	"site_name":           true,
	"site_description":    true,
	"logo":                true,
	"favicon":             true,
	"contact_email":       true,
	"phone":               true,
	"address":             true,
	"facebook_url":        true,
	"twitter_url":         true,
	"instagram_url":       true,
	"linkedin_url":        true,
	"og_image":            true,
	"google_analytics_id": true,
	"keywords":            true,
}

// Update applies the provided column values to the singleton row and drops
// the cached copy so the next read observes the change.
func (s *service) Update(ctx context.Context, values map[string]any) (*models.SiteConfig, error) {
	if len(values) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no configuration fields provided")
	}
	for key := range values {
		if !updatableColumns[key] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown configuration field").
				WithDetails(map[string]any{"field": key})
		}
	}

	if _, err := s.getOrCreate(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading site configuration")
	}

	err := s.db.WithContext(ctx).
		Model(&models.SiteConfig{}).
		Where("id = ?", models.SiteConfigID).
		Updates(values).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating site configuration")
	}

	s.invalidate(ctx)

	var cfg models.SiteConfig
	if err := s.db.WithContext(ctx).First(&cfg, "id = ?", models.SiteConfigID).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading site configuration")
	}
	return &cfg, nil
}

func (s *service) getOrCreate(ctx context.Context) (*models.SiteConfig, error) {
	var cfg models.SiteConfig
	err := s.db.WithContext(ctx).First(&cfg, "id = ?", models.SiteConfigID).Error
	if err == nil {
		return &cfg, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	// Two concurrent first reads can race the insert; DoNothing makes the
	// loser fall through to the row the winner created.
	defaults := models.DefaultSiteConfig()
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(defaults).
		Error
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).First(&cfg, "id = ?", models.SiteConfigID).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *service) fromCache(ctx context.Context) *models.SiteConfig {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.SiteConfigKey())
	if err != nil {
		if !redis.IsMiss(err) {
			s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "site config cache read failed")
		}
		return nil
	}
	var cfg models.SiteConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		s.invalidate(ctx)
		return nil
	}
	return &cfg
}

func (s *service) toCache(ctx context.Context, cfg *models.SiteConfig) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.SiteConfigKey(), payload, s.cacheTTL); err != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "site config cache write failed")
	}
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.SiteConfigKey()); err != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "site config cache invalidation failed")
	}
}
