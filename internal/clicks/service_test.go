package clicks

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/techdealshub/techdealshub-backend/internal/catalog"
	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Click{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	repo := NewRepository(conn)
	log := logger.New(logger.Options{ServiceName: "clicks-test"})
	svc, err := NewService(repo, catalog.NewRepository(conn), log, nil)
	require.NoError(t, err)
	return svc, repo, conn
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, name string) *models.Product {
	t.Helper()
	category := &models.Category{Name: "Clicks " + name}
	require.NoError(t, conn.Create(category).Error)
	product := &models.Product{
		CategoryID:   category.ID,
		Name:         name,
		Description:  "A solid pick.",
		Price:        decimal.RequireFromString("49.99"),
		Rating:       decimal.RequireFromString("4.5"),
		AffiliateURL: "https://merchant.example.com/buy/" + uuid.NewString(),
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestRedirectLogsClickAndBumpsCounter(t *testing.T) {
	svc, _, conn := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, conn, "Smart Plug")

	meta := RequestMeta{IPAddress: "203.0.113.7", UserAgent: "test-agent", Referrer: "https://example.com/deals"}
	url, err := svc.Redirect(ctx, product.ID, meta)
	require.NoError(t, err)
	assert.Equal(t, product.AffiliateURL, url)

	_, err = svc.Redirect(ctx, product.ID, RequestMeta{})
	require.NoError(t, err)

	var rows []models.Click
	require.NoError(t, conn.Where("product_id = ?", product.ID).Order("created_at ASC").Find(&rows).Error)
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].IPAddress)
	assert.Equal(t, "203.0.113.7", *rows[0].IPAddress)
	require.NotNil(t, rows[0].UserAgent)
	assert.Equal(t, "test-agent", *rows[0].UserAgent)

	// Absent attributes stay NULL instead of empty strings.
	assert.Nil(t, rows[1].IPAddress)
	assert.Nil(t, rows[1].UserAgent)
	assert.Nil(t, rows[1].Referrer)

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 2, reloaded.ClickCount)
}

func TestConcurrentRedirectsCountEveryClick(t *testing.T) {
	svc, repo, conn := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, conn, "Mesh Router")

	// Pin the pool to one connection so every goroutine shares the same
	// in-memory database.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	const redirects = 10
	var wg sync.WaitGroup
	errs := make(chan error, redirects)
	for i := 0; i < redirects; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Redirect(ctx, product.ID, RequestMeta{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, redirects, total)

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, redirects, reloaded.ClickCount)
}

func TestRedirectFailsWhenCounterUpdateFails(t *testing.T) {
	svc, repo, conn := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, conn, "Dash Cam")

	// Break the counter column so the increment statement errors.
	require.NoError(t, conn.Exec("ALTER TABLE products RENAME COLUMN click_count TO click_count_retired").Error)

	_, err := svc.Redirect(ctx, product.ID, RequestMeta{})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInternal, appErr.Code())

	// The ledger append precedes the counter bump and stays recorded.
	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestRedirectUnknownProduct(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Redirect(context.Background(), uuid.New(), RequestMeta{})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestMetaFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/go/abc", nil)
	r.RemoteAddr = "198.51.100.9:54321"
	r.Header.Set("User-Agent", "agent-x")
	r.Header.Set("Referer", "https://blog.example.com")

	meta := MetaFromRequest(r)
	assert.Equal(t, "198.51.100.9", meta.IPAddress)
	assert.Equal(t, "agent-x", meta.UserAgent)
	assert.Equal(t, "https://blog.example.com", meta.Referrer)

	r.Header.Set("X-Forwarded-For", " 203.0.113.4 , 10.0.0.1")
	meta = MetaFromRequest(r)
	assert.Equal(t, "203.0.113.4", meta.IPAddress)
}

func TestStatsWindows(t *testing.T) {
	svc, repo, conn := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, conn, "Webcam")

	require.NoError(t, repo.Append(ctx, &models.Click{ProductID: product.ID}))

	old := &models.Click{ProductID: product.ID}
	require.NoError(t, repo.Append(ctx, old))
	stale := time.Now().UTC().AddDate(0, 0, -30)
	require.NoError(t, conn.Model(&models.Click{}).Where("id = ?", old.ID).UpdateColumn("created_at", stale).Error)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalClicks)
	assert.EqualValues(t, 1, stats.ClicksToday)
	assert.EqualValues(t, 1, stats.ClicksWeekly)
}

func TestPurgeKeepsRecentRowsAndCounters(t *testing.T) {
	svc, repo, conn := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, conn, "SSD")

	_, err := svc.Redirect(ctx, product.ID, RequestMeta{})
	require.NoError(t, err)

	old := &models.Click{ProductID: product.ID}
	require.NoError(t, repo.Append(ctx, old))
	stale := time.Now().UTC().AddDate(0, 0, -90)
	require.NoError(t, conn.Model(&models.Click{}).Where("id = ?", old.ID).UpdateColumn("created_at", stale).Error)

	removed, err := svc.Purge(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// The denormalized counter is a historical tally; purging the ledger
	// does not rewind it.
	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 1, reloaded.ClickCount)

	_, err = svc.Purge(ctx, -time.Hour)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
