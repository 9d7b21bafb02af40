package controllers

import (
	"net/http"

	"github.com/ticketfolio/ticketfolio-backend/api/responses"
	"github.com/ticketfolio/ticketfolio-backend/pkg/config"
	"github.com/ticketfolio/ticketfolio-backend/pkg/logger"
	"github.com/ticketfolio/ticketfolio-backend/pkg/redis"
	"github.com/ticketfolio/ticketfolio-backend/pkg/stellar"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ticketfolio-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes both collaborators. Horizon being down is reported but
// not fatal: the collection degrades to cache-only, so readiness only hinges
// on the key-value store.
func HealthReady(cfg *config.Config, logg *logger.Logger, kv redis.Pinger, ledger stellar.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-Ticketfolio-Env", cfg.App.Env)

		status := map[string]string{"status": "ready", "redis": "ok", "horizon": "ok"}

		if kv != nil {
			if err := kv.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(ctx, "readiness.redis_failed", err)
				}
				status["status"] = "degraded"
				status["redis"] = "unreachable"
				responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
				return
			}
		}
		if ledger != nil {
			if err := ledger.Ping(ctx); err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "readiness.horizon_failed")
				}
				status["horizon"] = "unreachable"
			}
		}

		responses.WriteSuccess(w, status)
	}
}
