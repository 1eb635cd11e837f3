package sync

import (
	"context"

	"github.com/dmitrijs2005/cartsync/internal/client/cart"
	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/client/storage"
	"github.com/dmitrijs2005/cartsync/internal/logging"
)

// mergeBackend is the slice of the api client the resolver needs.
type mergeBackend interface {
	MergeCart(ctx context.Context, items models.Cart) (models.Cart, error)
	FetchCart(ctx context.Context) (models.Cart, error)
}

// Resolver folds the locally accumulated guest cart into the server cart
// once per login transition and establishes the post-login baseline.
type Resolver struct {
	client mergeBackend
	mirror *storage.Mirror
	store  *cart.Store
	engine *Engine
	log    logging.Logger
}

func NewResolver(client mergeBackend, mirror *storage.Mirror, store *cart.Store, engine *Engine, log logging.Logger) *Resolver {
	return &Resolver{client: client, mirror: mirror, store: store, engine: engine, log: log}
}

// Resolve runs the merge-on-login protocol. The push is gated by the durable
// merge-completed flag (cleared on logout), making the merge idempotent per
// login lifetime: the flag commits right after the push succeeds, so a later
// canonical-fetch failure leads to a retried fetch, never a duplicate push.
//
// On any failure the pre-merge local cart stays in place as both store
// content and baseline, so an in-progress cart is never silently lost.
func (r *Resolver) Resolve(ctx context.Context) {
	local := r.mirror.Load(ctx)

	if !local.IsEmpty() && !r.mirror.MergeCompleted(ctx) {
		if _, err := r.client.MergeCart(ctx, local); err != nil {
			r.log.Warn(ctx, "guest cart merge failed, keeping local cart", "error", err)
			r.adopt(local)
			return
		}
		if err := r.mirror.SetMergeCompleted(ctx, true); err != nil {
			r.log.Warn(ctx, "failed to persist merge flag", "error", err)
		}
		r.log.Info(ctx, "guest cart merged", "items", len(local))
	}

	server, err := r.client.FetchCart(ctx)
	if err != nil {
		r.log.Warn(ctx, "cart fetch failed, keeping local cart", "error", err)
		r.adopt(local)
		return
	}

	// The merge push result, not the pre-merge local cart, becomes truth.
	if err := r.mirror.DropSnapshot(ctx); err != nil {
		r.log.Warn(ctx, "failed to drop local snapshot", "error", err)
	}
	r.adopt(server)
}

// adopt installs items as both the store content and the sync baseline. The
// baseline is set first so the engine suppresses the trigger caused by the
// store materialization.
func (r *Resolver) adopt(items models.Cart) {
	r.engine.SetBaseline(items)
	r.store.Replace(items)
}
