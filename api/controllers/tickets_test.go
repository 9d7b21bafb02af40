package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ticketfolio/ticketfolio-backend/internal/tickets"
	pkgerrors "github.com/ticketfolio/ticketfolio-backend/pkg/errors"
	"github.com/ticketfolio/ticketfolio-backend/pkg/logger"
)

type testTicketsService struct {
	fetchFn  func(ctx context.Context, holder string) ([]tickets.Ticket, error)
	filterFn func(collection []tickets.Ticket, typeOrAll string) []tickets.Ticket
	mintFn   func(ctx context.Context, issuer string, input tickets.MintTicketInput) (tickets.MintedTicket, error)
	deleteFn func(ctx context.Context, holder string, ticket tickets.Ticket) error
}

func (s *testTicketsService) FetchCollection(ctx context.Context, holder string) ([]tickets.Ticket, error) {
	if s.fetchFn != nil {
		return s.fetchFn(ctx, holder)
	}
	return []tickets.Ticket{}, nil
}

func (s *testTicketsService) Filter(collection []tickets.Ticket, typeOrAll string) []tickets.Ticket {
	if s.filterFn != nil {
		return s.filterFn(collection, typeOrAll)
	}
	return collection
}

func (s *testTicketsService) Mint(ctx context.Context, issuer string, input tickets.MintTicketInput) (tickets.MintedTicket, error) {
	if s.mintFn != nil {
		return s.mintFn(ctx, issuer, input)
	}
	return tickets.MintedTicket{}, nil
}

func (s *testTicketsService) Delete(ctx context.Context, holder string, ticket tickets.Ticket) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, holder, ticket)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestTicketsListSuccess(t *testing.T) {
	svc := &testTicketsService{
		fetchFn: func(ctx context.Context, holder string) ([]tickets.Ticket, error) {
			if holder != "GHOLDER" {
				t.Fatalf("unexpected holder %q", holder)
			}
			return []tickets.Ticket{
				{AssetCode: "CONROCKACONC", Provenance: tickets.ProvenanceLedger},
				{AssetCode: "FOOGALATABCD", Provenance: tickets.ProvenanceLocal},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/holders/GHOLDER/tickets", nil)
	req = addRouteParam(req, "account", "GHOLDER")
	resp := httptest.NewRecorder()
	TicketsList(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Tickets []tickets.Ticket `json:"tickets"`
			Count   int              `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Count != 2 {
		t.Fatalf("expected count 2 got %d", envelope.Data.Count)
	}
}

func TestTicketsListAppliesTypeFilter(t *testing.T) {
	var gotFilter string
	svc := &testTicketsService{
		filterFn: func(collection []tickets.Ticket, typeOrAll string) []tickets.Ticket {
			gotFilter = typeOrAll
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/holders/GHOLDER/tickets?type=museum", nil)
	req = addRouteParam(req, "account", "GHOLDER")
	resp := httptest.NewRecorder()
	TicketsList(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if gotFilter != "museum" {
		t.Fatalf("expected filter museum got %q", gotFilter)
	}
}

func TestTicketsListMissingAccount(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/holders//tickets", nil)
	req = addRouteParam(req, "account", "")
	resp := httptest.NewRecorder()
	TicketsList(&testTicketsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestTicketsListDependencyFailure(t *testing.T) {
	svc := &testTicketsService{
		fetchFn: func(ctx context.Context, holder string) ([]tickets.Ticket, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "both sources failed")
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/holders/GHOLDER/tickets", nil)
	req = addRouteParam(req, "account", "GHOLDER")
	resp := httptest.NewRecorder()
	TicketsList(svc, testLogger())(resp, req)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", resp.Code)
	}
}

func TestTicketsMintSuccess(t *testing.T) {
	svc := &testTicketsService{
		mintFn: func(ctx context.Context, issuer string, input tickets.MintTicketInput) (tickets.MintedTicket, error) {
			if issuer != "GHOLDER" {
				t.Fatalf("unexpected issuer %q", issuer)
			}
			return tickets.MintedTicket{
				Ticket: tickets.Ticket{AssetCode: "CONROCKACONC", Issuer: issuer},
			}, nil
		},
	}

	body := `{"type":"concert","event_name":"Rock Anthem","event_date":"2026-04-05"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/holders/GHOLDER/tickets", strings.NewReader(body))
	req = addRouteParam(req, "account", "GHOLDER")
	resp := httptest.NewRecorder()
	TicketsMint(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data tickets.MintedTicket `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Ticket.AssetCode != "CONROCKACONC" {
		t.Fatalf("unexpected asset code %q", envelope.Data.Ticket.AssetCode)
	}
}

func TestTicketsMintUnknownField(t *testing.T) {
	body := `{"event_name":"Rock","event_date":"2026-04-05","surprise":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/holders/GHOLDER/tickets", strings.NewReader(body))
	req = addRouteParam(req, "account", "GHOLDER")
	resp := httptest.NewRecorder()
	TicketsMint(&testTicketsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field got %d", resp.Code)
	}
}

func TestTicketsMintValidationDetails(t *testing.T) {
	body := `{"type":"concert"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/holders/GHOLDER/tickets", strings.NewReader(body))
	req = addRouteParam(req, "account", "GHOLDER")
	resp := httptest.NewRecorder()
	TicketsMint(&testTicketsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
	if envelope.Error.Details["event_name"] == "" || envelope.Error.Details["event_date"] == "" {
		t.Fatalf("expected details for missing fields got %v", envelope.Error.Details)
	}
}

func TestTicketsDeleteSuccess(t *testing.T) {
	var got tickets.Ticket
	svc := &testTicketsService{
		deleteFn: func(ctx context.Context, holder string, ticket tickets.Ticket) error {
			got = ticket
			return nil
		},
	}

	body := `{"asset_code":"CONROCKACONC","ticket_id":"concert-1-ab","issuer":"GHOLDER"}`
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/holders/GHOLDER/tickets", strings.NewReader(body))
	req = addRouteParam(req, "account", "GHOLDER")
	resp := httptest.NewRecorder()
	TicketsDelete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
	if got.AssetCode != "CONROCKACONC" || got.Metadata.TicketID != "concert-1-ab" {
		t.Fatalf("unexpected delete target %+v", got)
	}
}

func TestTicketsDeleteForbiddenPassesThrough(t *testing.T) {
	svc := &testTicketsService{
		deleteFn: func(ctx context.Context, holder string, ticket tickets.Ticket) error {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only locally issued tickets can be deleted")
		},
	}

	body := `{"asset_code":"CONROCKACONC","ticket_id":"concert-1-ab","issuer":"GOTHER"}`
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/holders/GHOLDER/tickets", strings.NewReader(body))
	req = addRouteParam(req, "account", "GHOLDER")
	resp := httptest.NewRecorder()
	TicketsDelete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Message != "only locally issued tickets can be deleted" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestExplorerLinkBuildsURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/explorer/tx/deadbeef", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("kind", "tx")
	routeCtx.URLParams.Add("hash", "deadbeef")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	ExplorerLink(stubLinker{}, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["url"] != "https://stellar.expert/explorer/testnet/tx/deadbeef" {
		t.Fatalf("unexpected url %q", envelope.Data["url"])
	}
}

type stubLinker struct{}

func (stubLinker) ExplorerLink(hash, kind string) string {
	return "https://stellar.expert/explorer/testnet/" + kind + "/" + hash
}
