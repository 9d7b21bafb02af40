package comments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/ticketfolio/ticketfolio-backend/pkg/errors"
	"github.com/ticketfolio/ticketfolio-backend/pkg/logger"
	"github.com/ticketfolio/ticketfolio-backend/pkg/stellar"
)

// ServiceParams groups dependencies for the comment service.
type ServiceParams struct {
	Repo   *Repository
	Logger *logger.Logger

	// Now and NewID are injectable for tests; defaults cover production.
	Now   func() time.Time
	NewID func() string
}

// Service exposes the per-ticket comment log. Comments are append-only:
// there is no edit or delete surface.
type Service interface {
	Append(ctx context.Context, ticketID, author, text string) (Comment, error)
	List(ctx context.Context, ticketID string) ([]Comment, error)
	Count(ctx context.Context, ticketID string) (int, error)
}

type service struct {
	repo  *Repository
	logg  *logger.Logger
	now   func() time.Time
	newID func() string
}

// NewService builds a comment service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	newID := params.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &service{
		repo:  params.Repo,
		logg:  params.Logger,
		now:   now,
		newID: newID,
	}, nil
}

// Append validates and stores a new comment, assigning id and timestamp.
// The author is stored display-formatted so the log never carries a full
// account id.
func (s *service) Append(ctx context.Context, ticketID, author, text string) (Comment, error) {
	if strings.TrimSpace(ticketID) == "" {
		return Comment{}, pkgerrors.New(pkgerrors.CodeValidation, "ticket id is required")
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Comment{}, pkgerrors.New(pkgerrors.CodeValidation, "comment text is required").
			WithDetails(map[string]string{"text": "is required"})
	}

	comment := Comment{
		ID:        s.newID(),
		Author:    stellar.FormatAddress(author),
		Text:      trimmed,
		CreatedAt: s.now(),
	}
	if err := s.repo.Append(ctx, ticketID, comment); err != nil {
		return Comment{}, err
	}

	if s.logg != nil {
		lctx := s.logg.WithTicketID(ctx, ticketID)
		s.logg.Info(lctx, "comment.appended")
	}
	return comment, nil
}

// List returns the ticket's comments oldest first.
func (s *service) List(ctx context.Context, ticketID string) ([]Comment, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket id is required")
	}
	return s.repo.List(ctx, ticketID)
}

// Count reports the log length without handing the entries to the caller.
func (s *service) Count(ctx context.Context, ticketID string) (int, error) {
	log, err := s.List(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	return len(log), nil
}
