package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/techdealshub/techdealshub-backend/internal/catalog"
	"github.com/techdealshub/techdealshub-backend/internal/content"
	"github.com/techdealshub/techdealshub-backend/pkg/config"
	"github.com/techdealshub/techdealshub-backend/pkg/db"
	"github.com/techdealshub/techdealshub-backend/pkg/db/models"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
	"github.com/techdealshub/techdealshub-backend/pkg/migrate"
)

type seedProduct struct {
	name        string
	description string
	price       string
	original    string
	rating      string
	featured    bool
	pros        string
	cons        string
	affiliate   string
}

var seedCatalog = map[string][]seedProduct{
	"Laptops": {
		{
			name:        "AeroBook 14",
			description: "Thin-and-light workhorse with all-day battery.",
			price:       "899.00",
			original:    "1099.00",
			rating:      "4.6",
			featured:    true,
			pros:        "Light, Great battery, Quiet fans",
			cons:        "Limited ports",
			affiliate:   "https://merchant.example.com/aerobook-14",
		},
		{
			name:        "Forge 17 Gaming",
			description: "Desktop-class GPU in a portable chassis.",
			price:       "1799.00",
			rating:      "4.4",
			pros:        "Fast GPU, Bright display",
			cons:        "Heavy, Loud under load",
			affiliate:   "https://merchant.example.com/forge-17",
		},
	},
	"Audio": {
		{
			name:        "HushBuds Pro",
			description: "Noise-cancelling earbuds with wireless charging.",
			price:       "149.00",
			original:    "199.00",
			rating:      "4.7",
			featured:    true,
			pros:        "Great ANC, Compact case",
			cons:        "Average call quality",
			affiliate:   "https://merchant.example.com/hushbuds-pro",
		},
	},
	"Smart Home": {
		{
			name:        "GlowHub Starter Kit",
			description: "Hub plus four color bulbs, works with every assistant.",
			price:       "119.00",
			rating:      "4.3",
			pros:        "Easy setup, Good app",
			affiliate:   "https://merchant.example.com/glowhub-kit",
		},
	},
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	runMigrations := flag.Bool("migrate", true, "run pending migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	exitOn(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed a production environment", nil)
		os.Exit(1)
	}

	dbClient, err := openDatabase(ctx, cfg, logg)
	exitOn(ctx, logg, "database", err)
	defer dbClient.Close()

	if *runMigrations {
		exitOn(ctx, logg, "migrations", prepareSchema(ctx, cfg, dbClient))
	}

	conn := dbClient.DB()
	catalogRepo := catalog.NewRepository(conn)
	contentRepo := content.NewRepository(conn)

	for categoryName, products := range seedCatalog {
		created, err := catalogRepo.CreateCategory(ctx, &models.Category{Name: categoryName})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				logg.Info(logg.WithField(ctx, "category", categoryName), "category already seeded, skipping")
				continue
			}
			exitOn(ctx, logg, "category "+categoryName, err)
		}

		for _, p := range products {
			product := &models.Product{
				CategoryID:   created.ID,
				Name:         p.name,
				Description:  p.description,
				Price:        decimal.RequireFromString(p.price),
				Rating:       decimal.RequireFromString(p.rating),
				AffiliateURL: p.affiliate,
				IsFeatured:   p.featured,
			}
			if p.original != "" {
				original := decimal.RequireFromString(p.original)
				product.OriginalPrice = &original
			}
			if p.pros != "" {
				pros := p.pros
				product.Pros = &pros
			}
			if p.cons != "" {
				cons := p.cons
				product.Cons = &cons
			}
			if _, err := catalogRepo.CreateProduct(ctx, product); err != nil && !db.IsUniqueViolation(err, "") {
				exitOn(ctx, logg, "product "+p.name, err)
			}
		}
	}

	author, err := contentRepo.GetOrCreateAuthor(ctx, "TechDealsHub Staff", "editors@techdealshub.example")
	exitOn(ctx, logg, "author", err)

	now := time.Now().UTC()
	excerpt := "Our current picks across every category we cover."
	post := &models.BlogPost{
		Title:       "Best Tech Deals This Month",
		Content:     "A running list of the products our editors actually recommend right now.",
		Excerpt:     &excerpt,
		AuthorID:    &author.ID,
		IsPublished: true,
		PublishedAt: &now,
	}
	if _, err := contentRepo.Create(ctx, post); err != nil && !db.IsUniqueViolation(err, "") {
		exitOn(ctx, logg, "blog post", err)
	}

	logg.Info(ctx, "seed complete")
}

// openDatabase honors the sqlite feature flag so local seeding works
// without a Postgres instance.
func openDatabase(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*db.Client, error) {
	if !cfg.FeatureFlags.UseSQLite {
		return db.New(ctx, cfg.DB, logg)
	}
	conn, err := gorm.Open(sqlite.Open(cfg.FeatureFlags.SQLitePath), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	logg.Info(logg.WithField(ctx, "path", cfg.FeatureFlags.SQLitePath), "seeding into sqlite")
	return db.NewWithConn(conn), nil
}

// prepareSchema runs goose on Postgres; the sqlite path has no goose
// history so the schema comes from the model definitions instead.
func prepareSchema(ctx context.Context, cfg *config.Config, client *db.Client) error {
	if cfg.FeatureFlags.UseSQLite {
		return client.DB().AutoMigrate(
			&models.Category{},
			&models.Product{},
			&models.Click{},
			&models.Author{},
			&models.BlogPost{},
			&models.SiteConfig{},
		)
	}
	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}
	return migrate.Run(ctx, sqlDB, migrate.DefaultDir, "up")
}

func exitOn(ctx context.Context, logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "seeding failed at "+what, err)
	os.Exit(1)
}
