package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ticketfolio/ticketfolio-backend/internal/comments"
	pkgerrors "github.com/ticketfolio/ticketfolio-backend/pkg/errors"
)

type testCommentsService struct {
	appendFn func(ctx context.Context, ticketID, author, text string) (comments.Comment, error)
	listFn   func(ctx context.Context, ticketID string) ([]comments.Comment, error)
	countFn  func(ctx context.Context, ticketID string) (int, error)
}

func (s *testCommentsService) Append(ctx context.Context, ticketID, author, text string) (comments.Comment, error) {
	if s.appendFn != nil {
		return s.appendFn(ctx, ticketID, author, text)
	}
	return comments.Comment{}, nil
}

func (s *testCommentsService) List(ctx context.Context, ticketID string) ([]comments.Comment, error) {
	if s.listFn != nil {
		return s.listFn(ctx, ticketID)
	}
	return []comments.Comment{}, nil
}

func (s *testCommentsService) Count(ctx context.Context, ticketID string) (int, error) {
	if s.countFn != nil {
		return s.countFn(ctx, ticketID)
	}
	return 0, nil
}

func TestCommentsListSuccess(t *testing.T) {
	created := time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC)
	svc := &testCommentsService{
		listFn: func(ctx context.Context, ticketID string) ([]comments.Comment, error) {
			if ticketID != "concert-1-ab" {
				t.Fatalf("unexpected ticket id %q", ticketID)
			}
			return []comments.Comment{
				{ID: "comment-1", Author: "GAUT…WXYZ", Text: "great seats", CreatedAt: created},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/concert-1-ab/comments", nil)
	req = addRouteParam(req, "ticketId", "concert-1-ab")
	resp := httptest.NewRecorder()
	CommentsList(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Comments []comments.Comment `json:"comments"`
			Count    int                `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Count != 1 || len(envelope.Data.Comments) != 1 {
		t.Fatalf("expected one comment got %+v", envelope.Data)
	}
	if envelope.Data.Comments[0].Author != "GAUT…WXYZ" {
		t.Fatalf("unexpected author %q", envelope.Data.Comments[0].Author)
	}
}

func TestCommentsAppendSuccess(t *testing.T) {
	svc := &testCommentsService{
		appendFn: func(ctx context.Context, ticketID, author, text string) (comments.Comment, error) {
			if ticketID != "concert-1-ab" || author != "GAUTHOR" || text != "great seats" {
				t.Fatalf("unexpected args %q %q %q", ticketID, author, text)
			}
			return comments.Comment{ID: "comment-1", Author: author, Text: text}, nil
		},
	}

	body := `{"author":"GAUTHOR","text":"great seats"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/concert-1-ab/comments", strings.NewReader(body))
	req = addRouteParam(req, "ticketId", "concert-1-ab")
	resp := httptest.NewRecorder()
	CommentsAppend(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
}

func TestCommentsAppendRejectsMissingText(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/concert-1-ab/comments", strings.NewReader(`{"author":"GAUTHOR"}`))
	req = addRouteParam(req, "ticketId", "concert-1-ab")
	resp := httptest.NewRecorder()
	CommentsAppend(&testCommentsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCommentsAppendServiceValidationPassesThrough(t *testing.T) {
	svc := &testCommentsService{
		appendFn: func(ctx context.Context, ticketID, author, text string) (comments.Comment, error) {
			return comments.Comment{}, pkgerrors.New(pkgerrors.CodeValidation, "comment text is required")
		},
	}

	body := `{"author":"GAUTHOR","text":"   "}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/concert-1-ab/comments", strings.NewReader(body))
	req = addRouteParam(req, "ticketId", "concert-1-ab")
	resp := httptest.NewRecorder()
	CommentsAppend(svc, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCommentsCountSuccess(t *testing.T) {
	svc := &testCommentsService{
		countFn: func(ctx context.Context, ticketID string) (int, error) {
			return 3, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/concert-1-ab/comments/count", nil)
	req = addRouteParam(req, "ticketId", "concert-1-ab")
	resp := httptest.NewRecorder()
	CommentsCount(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data map[string]int `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["count"] != 3 {
		t.Fatalf("expected count 3 got %d", envelope.Data["count"])
	}
}

func TestCommentsListStoreFailure(t *testing.T) {
	svc := &testCommentsService{
		listFn: func(ctx context.Context, ticketID string) ([]comments.Comment, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "loading comment log")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/concert-1-ab/comments", nil)
	req = addRouteParam(req, "ticketId", "concert-1-ab")
	resp := httptest.NewRecorder()
	CommentsList(svc, testLogger())(resp, req)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", resp.Code)
	}
}
