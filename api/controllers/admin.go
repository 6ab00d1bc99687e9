package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/memberhub/memberhub-backend/api/responses"
	"github.com/memberhub/memberhub-backend/api/validators"
	"github.com/memberhub/memberhub-backend/internal/users"
	pkgerrors "github.com/memberhub/memberhub-backend/pkg/errors"
	"github.com/memberhub/memberhub-backend/pkg/logger"
)

// AdminListUsers returns every user record plus provider stats.
func AdminListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		records, stats, err := svc.ListWithStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Fields{
			"users": records,
			"stats": stats,
		})
	}
}

// AdminUpdateUser merges supplied fields onto an arbitrary target record.
func AdminUpdateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		targetID := chi.URLParam(r, "id")
		if targetID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id required"))
			return
		}

		var body users.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.AdminUpdate(r.Context(), targetID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Fields{"user": user})
	}
}

// AdminDeleteUser removes the record, the provider identity for email
// users, and lowers the member counter.
func AdminDeleteUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		targetID := chi.URLParam(r, "id")
		if targetID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id required"))
			return
		}

		if err := svc.AdminDelete(r.Context(), targetID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}
