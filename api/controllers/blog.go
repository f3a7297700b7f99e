package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/techdealshub/techdealshub-backend/api/responses"
	"github.com/techdealshub/techdealshub-backend/api/validators"
	"github.com/techdealshub/techdealshub-backend/internal/content"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
)

// BlogIndex serves one page of published posts.
func BlogIndex(contentSvc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listing, err := contentSvc.ListPosts(r.Context(), validators.ParsePage(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// BlogDetail serves one published post with further reading. Drafts 404.
func BlogDetail(contentSvc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := contentSvc.PostDetail(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
