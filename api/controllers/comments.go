package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ticketfolio/ticketfolio-backend/api/responses"
	"github.com/ticketfolio/ticketfolio-backend/api/validators"
	"github.com/ticketfolio/ticketfolio-backend/internal/comments"
	pkgerrors "github.com/ticketfolio/ticketfolio-backend/pkg/errors"
	"github.com/ticketfolio/ticketfolio-backend/pkg/logger"
)

type appendCommentPayload struct {
	Author string `json:"author" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

// CommentsList returns a ticket's comment log, oldest first.
func CommentsList(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "comments service unavailable"))
			return
		}

		ticketID := strings.TrimSpace(chi.URLParam(r, "ticketId"))
		log, err := svc.List(ctx, ticketID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"comments": log,
			"count":    len(log),
		})
	}
}

// CommentsAppend adds a comment to a ticket's log.
func CommentsAppend(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "comments service unavailable"))
			return
		}

		ticketID := strings.TrimSpace(chi.URLParam(r, "ticketId"))

		var payload appendCommentPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		comment, err := svc.Append(ctx, ticketID, payload.Author, payload.Text)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, comment)
	}
}

// CommentsCount reports the log length without materializing the entries
// for the caller.
func CommentsCount(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "comments service unavailable"))
			return
		}

		ticketID := strings.TrimSpace(chi.URLParam(r, "ticketId"))
		count, err := svc.Count(ctx, ticketID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"count": count})
	}
}
