package controllers

import (
	"net/http"

	"github.com/techdealshub/techdealshub-backend/api/responses"
	"github.com/techdealshub/techdealshub-backend/internal/catalog"
	"github.com/techdealshub/techdealshub-backend/internal/content"
	"github.com/techdealshub/techdealshub-backend/internal/siteconfig"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
)

// Home serves the landing page payload: featured picks, top-rated picks,
// category navigation, the latest posts, and the site chrome.
func Home(catalogSvc catalog.Service, contentSvc content.Service, siteSvc siteconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		home, err := catalogSvc.Home(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		posts, err := contentSvc.RecentPosts(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		site, err := siteSvc.Get(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"featured_products":  home.Featured,
			"top_rated_products": home.TopRated,
			"categories":         home.Categories,
			"recent_posts":       posts,
			"site":               site,
		})
	}
}

// SiteConfig serves the global site chrome on its own, for clients that cache
// the home payload separately.
func SiteConfig(siteSvc siteconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		site, err := siteSvc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, site)
	}
}
