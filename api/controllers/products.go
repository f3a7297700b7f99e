package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/techdealshub/techdealshub-backend/api/responses"
	"github.com/techdealshub/techdealshub-backend/api/validators"
	"github.com/techdealshub/techdealshub-backend/internal/catalog"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
)

// ProductDetail serves one product with its related picks. Every hit counts
// as a view.
func ProductDetail(catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := catalogSvc.ProductDetail(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// Search serves one page of catalog search results. An empty query browses
// the whole catalog.
func Search(catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listing, err := catalogSvc.Search(r.Context(), r.URL.Query().Get("q"), validators.ParsePage(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}
