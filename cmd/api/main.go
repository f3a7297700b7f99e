package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/techdealshub/techdealshub-backend/api/routes"
	"github.com/techdealshub/techdealshub-backend/internal/admin"
	"github.com/techdealshub/techdealshub-backend/internal/catalog"
	"github.com/techdealshub/techdealshub-backend/internal/clicks"
	"github.com/techdealshub/techdealshub-backend/internal/content"
	"github.com/techdealshub/techdealshub-backend/internal/export"
	"github.com/techdealshub/techdealshub-backend/internal/siteconfig"
	"github.com/techdealshub/techdealshub-backend/pkg/config"
	"github.com/techdealshub/techdealshub-backend/pkg/db"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
	"github.com/techdealshub/techdealshub-backend/pkg/metrics"
	"github.com/techdealshub/techdealshub-backend/pkg/migrate"
	"github.com/techdealshub/techdealshub-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	conn := dbClient.DB()
	catalogRepo := catalog.NewRepository(conn)
	contentRepo := content.NewRepository(conn)
	clicksRepo := clicks.NewRepository(conn)

	catalogService, err := catalog.NewService(catalogRepo)
	exitOn(logg, "catalog service", err)

	contentService, err := content.NewService(contentRepo)
	exitOn(logg, "content service", err)

	clicksService, err := clicks.NewService(clicksRepo, catalogRepo, logg, httpMetrics)
	exitOn(logg, "clicks service", err)

	siteService, err := siteconfig.NewService(conn, redisClient, cfg.Site.ConfigCacheTTL, logg)
	exitOn(logg, "site config service", err)

	adminService, err := admin.NewService(conn, catalogRepo, contentRepo, clicksService)
	exitOn(logg, "admin service", err)

	exportService, err := export.NewService(catalogRepo, clicksRepo, contentRepo)
	exitOn(logg, "export service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DBPinger:       dbClient,
			Cache:          redisClient,
			Metrics:        httpMetrics,
			Registry:       registry,
			CatalogRepo:    catalogRepo,
			ContentRepo:    contentRepo,
			CatalogService: catalogService,
			ContentService: contentService,
			ClicksService:  clicksService,
			SiteService:    siteService,
			AdminService:   adminService,
			ExportService:  exportService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOn(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
