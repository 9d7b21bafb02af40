package tickets

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/ticketfolio/ticketfolio-backend/pkg/assetcode"
	"github.com/ticketfolio/ticketfolio-backend/pkg/config"
	"github.com/ticketfolio/ticketfolio-backend/pkg/enums"
	pkgerrors "github.com/ticketfolio/ticketfolio-backend/pkg/errors"
	"github.com/ticketfolio/ticketfolio-backend/pkg/logger"
	"github.com/ticketfolio/ticketfolio-backend/pkg/metrics"
	"github.com/ticketfolio/ticketfolio-backend/pkg/stellar"
)

// LedgerGateway is the read/write ledger surface the service depends on.
type LedgerGateway interface {
	Holdings(ctx context.Context, account string) ([]stellar.Holding, error)
	SubmitAssetTransfer(ctx context.Context, issuerSeed, recipient, assetCode, amount string) (stellar.TransferResult, error)
}

// ServiceParams groups dependencies for the tickets service.
type ServiceParams struct {
	CacheRepo *Repository
	Gateway   LedgerGateway
	Logger    *logger.Logger
	Metrics   *metrics.CollectionMetrics
	Mint      config.MintConfig

	// Now and RandomSuffix are injectable for tests; defaults cover production.
	Now          func() time.Time
	RandomSuffix func() string
}

// Service merges ledger and local tickets into one collection and owns the
// mint and delete workflows.
type Service interface {
	FetchCollection(ctx context.Context, holder string) ([]Ticket, error)
	Filter(collection []Ticket, typeOrAll string) []Ticket
	Mint(ctx context.Context, issuer string, input MintTicketInput) (MintedTicket, error)
	Delete(ctx context.Context, holder string, ticket Ticket) error
}

type service struct {
	cacheRepo *Repository
	gateway   LedgerGateway
	logg      *logger.Logger
	collected *metrics.CollectionMetrics
	mintCfg   config.MintConfig

	now          func() time.Time
	randomSuffix func() string
	validate     *validator.Validate
}

// NewService builds a tickets service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CacheRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket cache repo is required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ledger gateway is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	randomSuffix := params.RandomSuffix
	if randomSuffix == nil {
		randomSuffix = func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		}
	}
	return &service{
		cacheRepo:    params.CacheRepo,
		gateway:      params.Gateway,
		logg:         params.Logger,
		collected:    params.Metrics,
		mintCfg:      params.Mint,
		now:          now,
		randomSuffix: randomSuffix,
		validate:     newValidator(),
	}, nil
}

// FetchCollection returns ledger-sourced tickets followed by the holder's
// local cache, preserving each source's internal order. The two sources are
// not cross-validated, so an identifier minted locally and later observed on
// the ledger appears twice.
func (s *service) FetchCollection(ctx context.Context, holder string) ([]Ticket, error) {
	if strings.TrimSpace(holder) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "holder is required")
	}

	start := s.now()
	holdings, ledgerErr := s.gateway.Holdings(ctx, holder)
	if ledgerErr != nil {
		s.collected.ObserveLedgerRead("error", s.now().Sub(start))
		s.collected.IncDegradedFetch()
		if s.logg != nil {
			lctx := s.logg.WithHolder(ctx, holder)
			s.logg.Warn(lctx, "ledger read failed, serving cache only")
		}
	} else {
		s.collected.ObserveLedgerRead("ok", s.now().Sub(start))
	}

	collection := make([]Ticket, 0, len(holdings))
	for _, holding := range holdings {
		if !holdsPositiveBalance(holding.Balance) {
			continue
		}
		if !assetcode.IsLikelyTicket(holding.AssetCode) {
			continue
		}
		collection = append(collection, ledgerTicket(holding))
	}

	local, cacheErr := s.cacheRepo.List(ctx, holder)
	if cacheErr != nil {
		if ledgerErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency,
				multierr.Combine(ledgerErr, cacheErr), "collection unavailable from both sources")
		}
		return nil, cacheErr
	}

	return append(collection, local...), nil
}

// Filter returns the order-preserving subsequence matching typeOrAll.
func (s *service) Filter(collection []Ticket, typeOrAll string) []Ticket {
	selected := strings.TrimSpace(strings.ToLower(typeOrAll))
	if selected == "" || selected == FilterAll {
		out := make([]Ticket, len(collection))
		copy(out, collection)
		return out
	}

	out := make([]Ticket, 0, len(collection))
	for _, ticket := range collection {
		if string(ticket.Metadata.Type) == selected {
			out = append(out, ticket)
		}
	}
	return out
}

// Mint validates the input, derives the identifiers and persists the ticket:
// into the local cache in local mode, through the ledger gateway otherwise.
func (s *service) Mint(ctx context.Context, issuer string, input MintTicketInput) (MintedTicket, error) {
	if strings.TrimSpace(issuer) == "" {
		return MintedTicket{}, pkgerrors.New(pkgerrors.CodeValidation, "issuer is required")
	}
	if err := s.validateMintInput(input); err != nil {
		s.collected.IncMint("invalid")
		return MintedTicket{}, err
	}

	kind := enums.TicketType(input.Type)
	if input.Type == "" {
		kind = enums.TicketTypeEvent
	}

	mintedAt := s.now()
	ticketID := fmt.Sprintf("%s-%d-%s", kind, mintedAt.UnixNano(), s.randomSuffix())
	code := assetcode.Encode(kind, input.EventName, ticketID)

	ticket := Ticket{
		AssetCode:      code,
		Issuer:         issuer,
		Balance:        "1",
		Provenance:     ProvenanceLocal,
		MetadataSource: MetadataAuthoritative,
		Metadata: TicketMetadata{
			TicketID:    ticketID,
			Type:        kind,
			EventName:   input.EventName,
			EventDate:   input.EventDate,
			Location:    input.Location,
			Organizer:   input.Organizer,
			Description: input.Description,
			MintedAt:    mintedAt,
		},
	}

	if s.mintCfg.LocalMode {
		if err := s.cacheRepo.Append(ctx, issuer, ticket); err != nil {
			s.collected.IncMint("error")
			return MintedTicket{}, err
		}
		s.collected.IncMint("ok")
		s.logMint(ctx, ticket)
		return MintedTicket{Ticket: ticket}, nil
	}

	recipient := strings.TrimSpace(input.Recipient)
	if recipient == "" {
		s.collected.IncMint("invalid")
		return MintedTicket{}, pkgerrors.New(pkgerrors.CodeValidation, "recipient is required in ledger mode")
	}
	amount := s.mintCfg.DefaultAmount
	if amount == "" {
		amount = "1"
	}
	result, err := s.gateway.SubmitAssetTransfer(ctx, s.mintCfg.IssuerSeed, recipient, code, amount)
	if err != nil {
		s.collected.IncMint("error")
		return MintedTicket{}, err
	}
	s.collected.IncMint("ok")
	s.logMint(ctx, ticket)
	return MintedTicket{Ticket: ticket, TransactionHash: result.TransactionHash}, nil
}

// Delete removes a local ticket from the holder's cache. Ledger-sourced
// tickets are never targeted; attempting it is a policy violation, not a
// retryable failure.
func (s *service) Delete(ctx context.Context, holder string, ticket Ticket) error {
	if strings.TrimSpace(holder) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "holder is required")
	}
	if ticket.Issuer != holder {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only local tickets can be deleted").
			WithDetails(map[string]string{
				"asset_code": ticket.AssetCode,
				"issuer":     ticket.Issuer,
			})
	}

	found, err := s.cacheRepo.Remove(ctx, holder, ticket.AssetCode, ticket.Metadata.TicketID)
	if err != nil {
		return err
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found in local cache")
	}
	if s.logg != nil {
		lctx := s.logg.WithHolder(ctx, holder)
		lctx = s.logg.WithAssetCode(lctx, ticket.AssetCode)
		s.logg.Info(lctx, "ticket.deleted")
	}
	return nil
}

func (s *service) logMint(ctx context.Context, ticket Ticket) {
	if s.logg == nil {
		return
	}
	lctx := s.logg.WithHolder(ctx, ticket.Issuer)
	lctx = s.logg.WithTicketID(lctx, ticket.Metadata.TicketID)
	lctx = s.logg.WithAssetCode(lctx, ticket.AssetCode)
	s.logg.Info(lctx, "ticket.minted")
}

func (s *service) validateMintInput(input MintTicketInput) error {
	if err := s.validate.Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			details := map[string]string{}
			for _, fieldErr := range errs {
				details[fieldErr.Field()] = validationMessage(fieldErr)
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be an ISO 8601 date"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return "is invalid"
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// ledgerTicket synthesizes a ticket from a bare holding. The ticket id is a
// surrogate (the asset code): the ledger alone cannot recover the original,
// and the comment log still needs a stable key.
func ledgerTicket(holding stellar.Holding) Ticket {
	return Ticket{
		AssetCode:      holding.AssetCode,
		Issuer:         holding.Issuer,
		Balance:        holding.Balance,
		Provenance:     ProvenanceLedger,
		MetadataSource: MetadataInferred,
		Metadata: TicketMetadata{
			TicketID:  holding.AssetCode,
			Type:      assetcode.InferTicketType(holding.AssetCode),
			EventName: assetcode.ParseEventName(holding.AssetCode),
		},
	}
}

func holdsPositiveBalance(raw string) bool {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return false
	}
	return amount.IsPositive()
}
