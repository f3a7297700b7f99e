package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/techdealshub/techdealshub-backend/api/controllers"
	"github.com/techdealshub/techdealshub-backend/api/middleware"
	"github.com/techdealshub/techdealshub-backend/api/responses"
	"github.com/techdealshub/techdealshub-backend/internal/admin"
	"github.com/techdealshub/techdealshub-backend/internal/catalog"
	"github.com/techdealshub/techdealshub-backend/internal/clicks"
	"github.com/techdealshub/techdealshub-backend/internal/content"
	"github.com/techdealshub/techdealshub-backend/internal/export"
	"github.com/techdealshub/techdealshub-backend/internal/siteconfig"
	"github.com/techdealshub/techdealshub-backend/pkg/config"
	"github.com/techdealshub/techdealshub-backend/pkg/db"
	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
	"github.com/techdealshub/techdealshub-backend/pkg/metrics"
	"github.com/techdealshub/techdealshub-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger db.Pinger
	Cache    *redis.Client

	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry

	CatalogRepo *catalog.Repository
	ContentRepo *content.Repository

	CatalogService catalog.Service
	ContentService content.Service
	ClicksService  clicks.Service
	SiteService    siteconfig.Service
	AdminService   admin.Service
	ExportService  export.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(cfg.Site.BaseURL),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DBPinger, d.Cache))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/sitemap.xml", controllers.Sitemap(cfg.Site.BaseURL, d.CatalogRepo, d.ContentRepo, logg))
	r.Get("/robots.txt", controllers.Robots(cfg.Site.BaseURL))

	r.Get("/go/{productID}", controllers.Redirect(d.ClicksService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/home", controllers.Home(d.CatalogService, d.ContentService, d.SiteService, logg))
		r.Get("/site-config", controllers.SiteConfig(d.SiteService, logg))
		r.Get("/categories", controllers.CategoryIndex(d.CatalogService, logg))
		r.Get("/categories/{slug}", controllers.CategoryDetail(d.CatalogService, logg))
		r.Get("/products/{slug}", controllers.ProductDetail(d.CatalogService, logg))
		r.Get("/search", controllers.Search(d.CatalogService, logg))
		r.Get("/blog", controllers.BlogIndex(d.ContentService, logg))
		r.Get("/blog/{slug}", controllers.BlogDetail(d.ContentService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/token", controllers.AdminToken(cfg.AdminJWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.AdminJWT, logg))

			r.Get("/dashboard", controllers.AdminDashboard(d.AdminService, logg))
			r.Get("/field-config", controllers.AdminFieldConfig(logg))

			r.Get("/categories", controllers.AdminListCategories(d.AdminService, logg))
			r.Post("/categories", controllers.AdminCreateCategory(d.AdminService, logg))
			r.Put("/categories/{id}", controllers.AdminUpdateCategory(d.AdminService, logg))
			r.Delete("/categories/{id}", controllers.AdminDeleteCategory(d.AdminService, logg))

			r.Get("/products", controllers.AdminListProducts(d.AdminService, logg))
			r.Post("/products", controllers.AdminCreateProduct(d.AdminService, logg))
			r.Put("/products/{id}", controllers.AdminUpdateProduct(d.AdminService, logg))
			r.Delete("/products/{id}", controllers.AdminDeleteProduct(d.AdminService, logg))

			r.Get("/posts", controllers.AdminListPosts(d.AdminService, logg))
			r.Post("/posts", controllers.AdminCreatePost(d.AdminService, logg))
			r.Put("/posts/{id}", controllers.AdminUpdatePost(d.AdminService, logg))
			r.Delete("/posts/{id}", controllers.AdminDeletePost(d.AdminService, logg))

			r.Get("/clicks", controllers.AdminRecentClicks(d.AdminService, logg))
			r.Post("/clicks/purge", controllers.AdminPurgeClicks(d.AdminService, logg))

			r.Put("/site-config", controllers.AdminUpdateSiteConfig(d.SiteService, logg))
			r.Get("/export", controllers.AdminExport(d.ExportService, logg))
		})
	})

	return r
}
