package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ticketfolio/ticketfolio-backend/api/responses"
	"github.com/ticketfolio/ticketfolio-backend/api/validators"
	"github.com/ticketfolio/ticketfolio-backend/internal/tickets"
	pkgerrors "github.com/ticketfolio/ticketfolio-backend/pkg/errors"
	"github.com/ticketfolio/ticketfolio-backend/pkg/logger"
)

type deleteTicketPayload struct {
	AssetCode string `json:"asset_code" validate:"required"`
	TicketID  string `json:"ticket_id" validate:"required"`
	Issuer    string `json:"issuer" validate:"required"`
}

// TicketsList returns the holder's reconciled collection, optionally
// filtered by ticket type via the `type` query parameter.
func TicketsList(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		holder := strings.TrimSpace(chi.URLParam(r, "account"))
		if holder == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "account is required"))
			return
		}

		collection, err := svc.FetchCollection(ctx, holder)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		selected := strings.TrimSpace(r.URL.Query().Get("type"))
		if selected != "" {
			collection = svc.Filter(collection, selected)
		}

		responses.WriteSuccess(w, map[string]any{
			"tickets": collection,
			"count":   len(collection),
		})
	}
}

// TicketsMint mints a new ticket issued by the holder in the path.
func TicketsMint(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		issuer := strings.TrimSpace(chi.URLParam(r, "account"))
		if issuer == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "account is required"))
			return
		}

		var input tickets.MintTicketInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		minted, err := svc.Mint(ctx, issuer, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, minted)
	}
}

// TicketsDelete removes a local ticket from the holder's cache. The payload
// names the exact (assetCode, ticketID, issuer) triple; the service enforces
// that only tickets issued by the holder can go. Confirmation is the
// caller's responsibility.
func TicketsDelete(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tickets service unavailable"))
			return
		}

		holder := strings.TrimSpace(chi.URLParam(r, "account"))
		if holder == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "account is required"))
			return
		}

		var payload deleteTicketPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		target := tickets.Ticket{
			AssetCode: payload.AssetCode,
			Issuer:    payload.Issuer,
			Metadata:  tickets.TicketMetadata{TicketID: payload.TicketID},
		}
		if err := svc.Delete(ctx, holder, target); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

type explorerLinker interface {
	ExplorerLink(hash, kind string) string
}

// ExplorerLink resolves a display URL for a ledger object. Pass-through only.
func ExplorerLink(ledger explorerLinker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ledger == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger client unavailable"))
			return
		}

		kind := strings.TrimSpace(chi.URLParam(r, "kind"))
		hash := strings.TrimSpace(chi.URLParam(r, "hash"))
		if hash == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "hash is required"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"url": ledger.ExplorerLink(hash, kind)})
	}
}
