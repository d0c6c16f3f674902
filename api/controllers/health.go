package controllers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/catalog-pricing/api/responses"
	"github.com/angelmondragon/catalog-pricing/pkg/config"
	"github.com/angelmondragon/catalog-pricing/pkg/db"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
	pkgredis "github.com/angelmondragon/catalog-pricing/pkg/redis"
)

const readinessTimeout = 2 * time.Second

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Up is a bare liveness probe for load balancers.
func Up() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)
		responses.WriteOK(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, redis in parallel.
// A nil redis pinger is reported as disabled and does not fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var dbErr, redisErr error
		var g errgroup.Group
		g.Go(func() error {
			dbErr = ping(ctx, dbP)
			return dbErr
		})
		if redisP != nil {
			g.Go(func() error {
				redisErr = ping(ctx, redisP)
				return redisErr
			})
		}
		failed := g.Wait() != nil

		body := readiness{
			Status: "ready",
			Checks: map[string]string{
				"db":    checkStatus(dbErr),
				"redis": "disabled",
			},
		}
		if redisP != nil {
			body.Checks["redis"] = checkStatus(redisErr)
		}

		if failed {
			body.Status = "unavailable"
			if logg != nil {
				logg.Warn(logg.WithFields(r.Context(), map[string]any{
					"db":    errString(dbErr),
					"redis": errString(redisErr),
				}), "health.not_ready")
			}
			responses.WriteJSON(w, http.StatusServiceUnavailable, body)
			return
		}
		responses.WriteOK(w, body)
	}
}

func ping(ctx context.Context, p db.Pinger) error {
	if p == nil {
		return errNotConfigured
	}
	return p.Ping(ctx)
}

func checkStatus(err error) string {
	if err != nil {
		return "unavailable"
	}
	return "ok"
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
