package controllers

import (
	"context"
	"net/http"

	"github.com/suryakv/ecommerce-backend/api/responses"
	"github.com/suryakv/ecommerce-backend/pkg/config"
	pkgerrors "github.com/suryakv/ecommerce-backend/pkg/errors"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
	"go.uber.org/multierr"
)

// Pinger is the connectivity probe shared by readiness dependencies.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ecom-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every dependency answers a ping.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ecom-Env", cfg.App.Env)

		var combined error
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				combined = multierr.Append(combined, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
			}
		}
		if combined != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
