package controllers

import (
	"net/http"

	"github.com/techdealshub/techdealshub-backend/api/responses"
	"github.com/techdealshub/techdealshub-backend/pkg/config"
	"github.com/techdealshub/techdealshub-backend/pkg/db"
	pkgerrors "github.com/techdealshub/techdealshub-backend/pkg/errors"
	"github.com/techdealshub/techdealshub-backend/pkg/logger"
	"github.com/techdealshub/techdealshub-backend/pkg/redis"
)

const envHeader = "X-TechDealsHub-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the backing stores. The cache is optional: a missing
// Redis degrades config reads but does not fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{"database": "ok"}

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable").
				WithDetails(map[string]string{"database": "unavailable"}))
			return
		}

		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				checks["cache"] = "degraded"
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "cache unavailable")
				}
			} else {
				checks["cache"] = "ok"
			}
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
