package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/techdealshub/techdealshub-backend/api/responses"
	"github.com/techdealshub/techdealshub-backend/api/validators"
	"github.com/techdealshub/techdealshub-backend/internal/catalog"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
)

// CategoryIndex lists all categories with product counts.
func CategoryIndex(catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := catalogSvc.CategoryIndex(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

// CategoryDetail serves one page of a category browse with the filter and
// sort knobs applied.
func CategoryDetail(catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := catalog.BrowseInput{
			MinRating: r.URL.Query().Get("min_rating"),
			Sort:      r.URL.Query().Get("sort"),
			Page:      validators.ParsePage(r),
		}

		listing, err := catalogSvc.BrowseCategory(r.Context(), chi.URLParam(r, "slug"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}
