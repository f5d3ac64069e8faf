package controllers

import (
	"net/http"

	"github.com/canvasshub/canvasshub-backend/api/responses"
	"github.com/canvasshub/canvasshub-backend/internal/admin"
	pkgerrors "github.com/canvasshub/canvasshub-backend/pkg/errors"
	"github.com/canvasshub/canvasshub-backend/pkg/logger"
)

func AdminStats(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
