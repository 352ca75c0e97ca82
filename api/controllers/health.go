package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gentlecorp/inventory-service/api/responses"
	"github.com/gentlecorp/inventory-service/pkg/config"
	"github.com/gentlecorp/inventory-service/pkg/db"
	pkgerrors "github.com/gentlecorp/inventory-service/pkg/errors"
	"github.com/gentlecorp/inventory-service/pkg/logger"
	"github.com/gentlecorp/inventory-service/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Inventory-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the datasources the service cannot run without.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Inventory-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["database"] = pingStatus(ctx, dbP)
		if checks["database"] != "ok" {
			healthy = false
		}
		checks["redis"] = pingStatus(ctx, redisP)
		if checks["redis"] != "ok" {
			healthy = false
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").
				WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func pingStatus(ctx context.Context, p pinger) string {
	if p == nil {
		return "skipped"
	}
	if err := p.Ping(ctx); err != nil {
		return "unreachable"
	}
	return "ok"
}
