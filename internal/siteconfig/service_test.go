package siteconfig

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.SiteConfig{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	svc, err := NewService(conn, nil, time.Minute, logger.New(logger.Options{ServiceName: "siteconfig-test"}))
	require.NoError(t, err)
	return svc, conn
}

func TestGetCreatesDefaultsOnFirstAccess(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	cfg, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, models.SiteConfigID, cfg.ID)
	assert.Equal(t, "TechDealsHub", cfg.SiteName)
	assert.NotEmpty(t, cfg.SiteDescription)

	// A second read reuses the row instead of inserting again.
	again, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, again.ID)

	var count int64
	require.NoError(t, conn.Model(&models.SiteConfig{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdatePersistsValues(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, map[string]any{
		"site_name":     "TechDealsHub Pro",
		"contact_email": "hello@techdealshub.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "TechDealsHub Pro", updated.SiteName)
	assert.Equal(t, "hello@techdealshub.example", updated.ContactEmail)

	reloaded, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TechDealsHub Pro", reloaded.SiteName)
}

func TestUpdateRejectsEmptyPayload(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), map[string]any{})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestUpdateRejectsUnknownField(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), map[string]any{"id": 2})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
