package controllers

import (
	"context"
	"net/http"

	"github.com/memberhub/memberhub-backend/api/responses"
	"github.com/memberhub/memberhub-backend/pkg/config"
	pkgerrors "github.com/memberhub/memberhub-backend/pkg/errors"
	"github.com/memberhub/memberhub-backend/pkg/logger"
)

const envHeader = "X-MemberHub-Env"

type storePinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, responses.Fields{"status": "live"})
	}
}

// HealthReady reports readiness only when the key-value store answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, store storePinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "kv store unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, responses.Fields{"status": "ready"})
	}
}
