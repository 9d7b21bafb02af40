package comments

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ticketfolio/ticketfolio-backend/pkg/redis"

	pkgerrors "github.com/ticketfolio/ticketfolio-backend/pkg/errors"
)

// Repository persists per-ticket comment logs in the key-value store.
// Append is read-modify-write over one document; concurrent appends to the
// same ticket id are the caller's to serialize.
type Repository struct {
	kv redis.KV
}

// NewRepository returns a comment store bound to the provided key-value store.
func NewRepository(kv redis.KV) *Repository {
	return &Repository{kv: kv}
}

// List returns the ticket's comments in insertion order, oldest first.
// A ticket without comments yields an empty slice, never an error.
func (r *Repository) List(ctx context.Context, ticketID string) ([]Comment, error) {
	return r.load(ctx, ticketID)
}

// Append adds the comment to the end of the ticket's log.
func (r *Repository) Append(ctx context.Context, ticketID string, comment Comment) error {
	log, err := r.load(ctx, ticketID)
	if err != nil {
		return err
	}
	log = append(log, comment)

	payload, err := json.Marshal(log)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode comment log")
	}
	if err := r.kv.Set(ctx, r.kv.CommentsKey(ticketID), string(payload), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write comment log")
	}
	return nil
}

func (r *Repository) load(ctx context.Context, ticketID string) ([]Comment, error) {
	raw, err := r.kv.Get(ctx, r.kv.CommentsKey(ticketID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Comment{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read comment log")
	}
	var log []Comment
	if err := json.Unmarshal([]byte(raw), &log); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode comment log")
	}
	return log, nil
}
