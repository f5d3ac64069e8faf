package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/canvasshub/canvasshub-backend/api/responses"
	"github.com/canvasshub/canvasshub-backend/pkg/config"
	"github.com/canvasshub/canvasshub-backend/pkg/db"
	pkgerrors "github.com/canvasshub/canvasshub-backend/pkg/errors"
	"github.com/canvasshub/canvasshub-backend/pkg/logger"
	"github.com/canvasshub/canvasshub-backend/pkg/redis"
)

const readyTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CanvassHub-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database and Redis both answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbPinger db.Pinger, redisPinger redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CanvassHub-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := map[string]string{"database": "ok", "redis": "ok"}
		var failed error
		if dbPinger == nil {
			checks["database"] = "unconfigured"
			failed = pkgerrors.New(pkgerrors.CodeDependency, "database unavailable")
		} else if err := dbPinger.Ping(ctx); err != nil {
			checks["database"] = "error"
			failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable")
		}
		if redisPinger == nil {
			checks["redis"] = "unconfigured"
			failed = pkgerrors.New(pkgerrors.CodeDependency, "redis unavailable")
		} else if err := redisPinger.Ping(ctx); err != nil {
			checks["redis"] = "error"
			failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable")
		}

		if failed != nil {
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "checks", checks), "health.not_ready")
			}
			responses.WriteError(r.Context(), nil, w, failed)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
