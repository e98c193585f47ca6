package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/api/responses"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/api/validators"
	feedbacksvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/feedback"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/logger"
)

// FeedbackCreate records a customer review.
func FeedbackCreate(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		var payload feedbacksvc.Input
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, created)
	}
}

// FeedbackList lists every review, newest first.
func FeedbackList(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		out, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// FeedbackByUser lists one user's reviews.
func FeedbackByUser(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		out, err := svc.ListByUser(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// FeedbackDelete removes a review, scoped to its author.
func FeedbackDelete(svc feedbacksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "feedbackId"), "feedbackId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), r.URL.Query().Get("userId"), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "feedback deleted")
	}
}
