package controllers

import (
	"net/http"

	"github.com/techdealshub/techdealshub-backend/api/responses"
	"github.com/techdealshub/techdealshub-backend/api/validators"
	"github.com/techdealshub/techdealshub-backend/internal/clicks"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
)

// Redirect logs the click and sends the visitor to the merchant. 302 rather
// than 301 so every hit comes back through the ledger.
func Redirect(clicksSvc clicks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := clicksSvc.Redirect(r.Context(), productID, clicks.MetaFromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.Redirect(w, r, target, http.StatusFound)
	}
}
