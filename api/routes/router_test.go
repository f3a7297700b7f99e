package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/techdealshub/techdealshub-backend/internal/admin"
	"github.com/techdealshub/techdealshub-backend/internal/catalog"
	"github.com/techdealshub/techdealshub-backend/internal/clicks"
	"github.com/techdealshub/techdealshub-backend/internal/content"
	"github.com/techdealshub/techdealshub-backend/internal/export"
	"github.com/techdealshub/techdealshub-backend/internal/siteconfig"
	pkgAuth "github.com/techdealshub/techdealshub-backend/pkg/auth"
	"github.com/techdealshub/techdealshub-backend/pkg/config"
	"github.com/techdealshub/techdealshub-backend/pkg/db"
	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
	"github.com/techdealshub/techdealshub-backend/pkg/metrics"
)

type routerHarness struct {
	handler http.Handler
	conn    *gorm.DB
	cfg     *config.Config
}

func newRouterHarness(t *testing.T) *routerHarness {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Click{},
		&models.Author{},
		&models.BlogPost{},
		&models.SiteConfig{},
	))

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		AdminJWT: config.AdminJWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "techdealshub-test",
			ExpirationMinutes: 30,
		},
		Site: config.SiteConfig{BaseURL: "https://techdealshub.example"},
	}

	logg := logger.New(logger.Options{ServiceName: "router-test"})
	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	catalogRepo := catalog.NewRepository(conn)
	contentRepo := content.NewRepository(conn)
	clicksRepo := clicks.NewRepository(conn)

	catalogSvc, err := catalog.NewService(catalogRepo)
	require.NoError(t, err)
	contentSvc, err := content.NewService(contentRepo)
	require.NoError(t, err)
	clicksSvc, err := clicks.NewService(clicksRepo, catalogRepo, logg, httpMetrics)
	require.NoError(t, err)
	siteSvc, err := siteconfig.NewService(conn, nil, time.Minute, logg)
	require.NoError(t, err)
	adminSvc, err := admin.NewService(conn, catalogRepo, contentRepo, clicksSvc)
	require.NoError(t, err)
	exportSvc, err := export.NewService(catalogRepo, clicksRepo, contentRepo)
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		DBPinger:       db.NewWithConn(conn),
		Metrics:        httpMetrics,
		Registry:       registry,
		CatalogRepo:    catalogRepo,
		ContentRepo:    contentRepo,
		CatalogService: catalogSvc,
		ContentService: contentSvc,
		ClicksService:  clicksSvc,
		SiteService:    siteSvc,
		AdminService:   adminSvc,
		ExportService:  exportSvc,
	})

	return &routerHarness{handler: handler, conn: conn, cfg: cfg}
}

func (h *routerHarness) seedProduct(t *testing.T) *models.Product {
	t.Helper()
	category := &models.Category{Name: "Routers " + uuid.NewString()[:8]}
	require.NoError(t, h.conn.Create(category).Error)
	product := &models.Product{
		CategoryID:   category.ID,
		Name:         "Product " + uuid.NewString()[:8],
		Description:  "A solid pick.",
		Price:        decimal.RequireFromString("79.99"),
		Rating:       decimal.RequireFromString("4.4"),
		AffiliateURL: "https://merchant.example.com/buy/" + uuid.NewString(),
	}
	require.NoError(t, h.conn.Create(product).Error)
	return product
}

func (h *routerHarness) adminToken(t *testing.T) string {
	t.Helper()
	token, err := pkgAuth.MintAdminToken(h.cfg.AdminJWT, time.Now(), "ops@techdealshub.example")
	require.NoError(t, err)
	return token
}

func (h *routerHarness) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterPublicSurface(t *testing.T) {
	h := newRouterHarness(t)
	product := h.seedProduct(t)

	rec := h.do(httptest.NewRequest("GET", "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(httptest.NewRequest("GET", "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(httptest.NewRequest("GET", "/api/v1/home", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "featured_products")

	rec = h.do(httptest.NewRequest("GET", "/api/v1/products/"+product.Slug, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), product.Name)

	rec = h.do(httptest.NewRequest("GET", "/api/v1/products/not-a-product", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(httptest.NewRequest("GET", "/api/v1/blog", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(httptest.NewRequest("GET", "/no/such/route", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRouterRedirectLogsClick(t *testing.T) {
	h := newRouterHarness(t)
	product := h.seedProduct(t)

	req := httptest.NewRequest("GET", "/go/"+product.ID.String(), nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.10, 10.0.0.1")
	rec := h.do(req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, product.AffiliateURL, rec.Header().Get("Location"))

	var count int64
	require.NoError(t, h.conn.Model(&models.Click{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	rec = h.do(httptest.NewRequest("GET", "/go/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(httptest.NewRequest("GET", "/go/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterSitemapAndRobots(t *testing.T) {
	h := newRouterHarness(t)
	product := h.seedProduct(t)

	rec := h.do(httptest.NewRequest("GET", "/sitemap.xml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, rec.Body.String(), "https://techdealshub.example/products/"+product.Slug)

	rec = h.do(httptest.NewRequest("GET", "/robots.txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Disallow: /go/")
	assert.Contains(t, rec.Body.String(), "Sitemap: https://techdealshub.example/sitemap.xml")
}

func TestRouterAdminAuthGuard(t *testing.T) {
	h := newRouterHarness(t)

	rec := h.do(httptest.NewRequest("GET", "/api/admin/v1/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest("GET", "/api/admin/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = h.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("GET", "/api/admin/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+h.adminToken(t))
	rec = h.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "total_products")
}

func TestRouterAdminTokenEndpoint(t *testing.T) {
	h := newRouterHarness(t)

	body := bytes.NewBufferString(`{"subject":"ops@techdealshub.example","secret":"router-test-secret"}`)
	req := httptest.NewRequest("POST", "/api/admin/v1/auth/token", body)
	req.Header.Set("Content-Type", "application/json")
	rec := h.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.Token)

	body = bytes.NewBufferString(`{"subject":"ops@techdealshub.example","secret":"wrong"}`)
	req = httptest.NewRequest("POST", "/api/admin/v1/auth/token", body)
	req.Header.Set("Content-Type", "application/json")
	rec = h.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterAdminProductLifecycle(t *testing.T) {
	h := newRouterHarness(t)
	token := h.adminToken(t)

	authed := func(method, target string, body string) *http.Request {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}

	rec := h.do(authed("POST", "/api/admin/v1/categories", `{"name":"Smart Home"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var categoryEnvelope struct {
		Data models.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categoryEnvelope))
	categoryID := categoryEnvelope.Data.ID

	productBody := fmt.Sprintf(
		`{"category_id":%q,"name":"Smart Bulb","description":"Dimmable.","price":"19.99","affiliate_url":"https://merchant.example.com/bulb"}`,
		categoryID,
	)
	rec = h.do(authed("POST", "/api/admin/v1/products", productBody))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var productEnvelope struct {
		Data models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &productEnvelope))
	assert.Equal(t, "smart-bulb", productEnvelope.Data.Slug)

	// Invalid pricing rejects with field details.
	badBody := fmt.Sprintf(
		`{"category_id":%q,"name":"Bad Bulb","description":"x","price":"20.00","original_price":"10.00","affiliate_url":"https://merchant.example.com/bad"}`,
		categoryID,
	)
	rec = h.do(authed("POST", "/api/admin/v1/products", badBody))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "original_price")

	rec = h.do(authed("GET", "/api/admin/v1/export?entity=products", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "products_")
	assert.Contains(t, rec.Body.String(), "Smart Bulb")

	rec = h.do(authed("DELETE", "/api/admin/v1/products/"+productEnvelope.Data.ID.String(), ""))
	assert.Equal(t, http.StatusOK, rec.Code)
}
