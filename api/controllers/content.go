package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/memberhub/memberhub-backend/api/responses"
	"github.com/memberhub/memberhub-backend/api/validators"
	"github.com/memberhub/memberhub-backend/internal/content"
	pkgerrors "github.com/memberhub/memberhub-backend/pkg/errors"
	"github.com/memberhub/memberhub-backend/pkg/logger"
)

// ListContent returns the published library.
func ListContent(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Fields{"content": items})
	}
}

// AdminPublishContent stores a new entry and returns its assigned id.
func AdminPublishContent(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		var body content.PublishRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Publish(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, responses.Fields{"contentId": item.ID})
	}
}

// AdminDeleteContent removes an entry by id.
func AdminDeleteContent(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}

		contentID := chi.URLParam(r, "id")
		if contentID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "content id required"))
			return
		}

		if err := svc.Delete(r.Context(), contentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}
