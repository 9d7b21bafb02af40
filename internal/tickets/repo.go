package tickets

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ticketfolio/ticketfolio-backend/pkg/redis"

	pkgerrors "github.com/ticketfolio/ticketfolio-backend/pkg/errors"
)

// storedTicket is the JSON shape persisted under tickets:{holder}.
// Provenance is not stored: everything in the cache is local by definition.
type storedTicket struct {
	AssetCode string         `json:"asset_code"`
	Issuer    string         `json:"issuer"`
	Balance   string         `json:"balance"`
	Metadata  TicketMetadata `json:"metadata"`
}

// Repository is the TicketCache: the holder-keyed local store of
// self-issued tickets. Writes are read-modify-write over one KV document;
// callers serialize concurrent writers per holder.
type Repository struct {
	kv redis.KV
}

// NewRepository returns a ticket cache bound to the provided key-value store.
func NewRepository(kv redis.KV) *Repository {
	return &Repository{kv: kv}
}

// List returns the holder's cached tickets, oldest first, tagged local.
func (r *Repository) List(ctx context.Context, holder string) ([]Ticket, error) {
	stored, err := r.load(ctx, holder)
	if err != nil {
		return nil, err
	}
	tickets := make([]Ticket, 0, len(stored))
	for _, entry := range stored {
		tickets = append(tickets, Ticket{
			AssetCode:      entry.AssetCode,
			Issuer:         entry.Issuer,
			Balance:        entry.Balance,
			Provenance:     ProvenanceLocal,
			MetadataSource: MetadataAuthoritative,
			Metadata:       entry.Metadata,
		})
	}
	return tickets, nil
}

// Append persists one more ticket at the end of the holder's cache.
func (r *Repository) Append(ctx context.Context, holder string, ticket Ticket) error {
	stored, err := r.load(ctx, holder)
	if err != nil {
		return err
	}
	stored = append(stored, storedTicket{
		AssetCode: ticket.AssetCode,
		Issuer:    ticket.Issuer,
		Balance:   ticket.Balance,
		Metadata:  ticket.Metadata,
	})
	return r.save(ctx, holder, stored)
}

// Remove deletes the unique (assetCode, ticketID) entry from the holder's
// cache. It reports whether an entry was found; nothing else is touched.
func (r *Repository) Remove(ctx context.Context, holder, assetCode, ticketID string) (bool, error) {
	stored, err := r.load(ctx, holder)
	if err != nil {
		return false, err
	}

	kept := make([]storedTicket, 0, len(stored))
	found := false
	for _, entry := range stored {
		if !found && entry.AssetCode == assetCode && entry.Metadata.TicketID == ticketID {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return false, nil
	}
	if err := r.save(ctx, holder, kept); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) load(ctx context.Context, holder string) ([]storedTicket, error) {
	raw, err := r.kv.Get(ctx, r.kv.TicketsKey(holder))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read ticket cache")
	}
	var stored []storedTicket
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode ticket cache")
	}
	return stored, nil
}

func (r *Repository) save(ctx context.Context, holder string, stored []storedTicket) error {
	payload, err := json.Marshal(stored)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode ticket cache")
	}
	if err := r.kv.Set(ctx, r.kv.TicketsKey(holder), string(payload), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write ticket cache")
	}
	return nil
}
