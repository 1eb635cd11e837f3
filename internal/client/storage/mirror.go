package storage

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/logging"
)

// Record keys. These are the only durable records the client keeps.
const (
	keyCartSnapshot      = "cart-snapshot"
	keyMergeCompleted    = "merge-completed"
	keyCheckoutCompleted = "checkout-just-completed"
	keyCredentials       = "session-credentials"
	keyUser              = "session-user"
)

// Mirror reads and writes the durable client state. It never interprets the
// cart beyond (de)serialization; malformed records are discarded and treated
// as absent rather than surfaced.
type Mirror struct {
	kv  *KVRepository
	log logging.Logger
}

func NewMirror(kv *KVRepository, log logging.Logger) *Mirror {
	return &Mirror{kv: kv, log: log}
}

// Load restores the cart snapshot. It never fails: a missing or corrupt
// record yields an empty cart, and the corrupt record is dropped. If the
// checkout-just-completed flag is set, Load consumes it: it reports an empty
// cart and clears all cart-related records, so a completed order does not
// resurrect a stale cart after a restart.
func (m *Mirror) Load(ctx context.Context) models.Cart {
	if m.CheckoutJustCompleted(ctx) {
		m.log.Info(ctx, "checkout flag set, starting with a clean cart")
		m.clearCartState(ctx)
		return nil
	}

	raw, err := m.kv.Get(ctx, keyCartSnapshot)
	if err != nil || raw == nil {
		if err != nil {
			m.log.Warn(ctx, "cart snapshot read failed, starting empty", "error", err)
		}
		return nil
	}

	var cart models.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		m.log.Warn(ctx, "cart snapshot corrupt, discarding", "error", err)
		_ = m.kv.Delete(ctx, keyCartSnapshot)
		return nil
	}
	return cart
}

// Save persists the cart snapshot, replacing the previous one.
func (m *Mirror) Save(ctx context.Context, cart models.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return m.kv.Set(ctx, keyCartSnapshot, raw)
}

// DropSnapshot removes the local-only cart snapshot (after a merge made the
// server authoritative).
func (m *Mirror) DropSnapshot(ctx context.Context) error {
	return m.kv.Delete(ctx, keyCartSnapshot)
}

func (m *Mirror) MergeCompleted(ctx context.Context) bool {
	return m.flag(ctx, keyMergeCompleted)
}

func (m *Mirror) SetMergeCompleted(ctx context.Context, v bool) error {
	return m.setFlag(ctx, keyMergeCompleted, v)
}

func (m *Mirror) CheckoutJustCompleted(ctx context.Context) bool {
	return m.flag(ctx, keyCheckoutCompleted)
}

func (m *Mirror) SetCheckoutJustCompleted(ctx context.Context, v bool) error {
	return m.setFlag(ctx, keyCheckoutCompleted, v)
}

// ClearCartState drops the cart snapshot together with the merge and
// checkout flags. Satisfies cart.FlagCleaner.
func (m *Mirror) ClearCartState() {
	m.clearCartState(context.Background())
}

func (m *Mirror) clearCartState(ctx context.Context) {
	for _, key := range []string{keyCartSnapshot, keyMergeCompleted, keyCheckoutCompleted} {
		if err := m.kv.Delete(ctx, key); err != nil {
			m.log.Warn(ctx, "failed to clear record", "key", key, "error", err)
		}
	}
}

// SaveSession caches the token pair and the profile for restart recovery.
func (m *Mirror) SaveSession(ctx context.Context, tokens models.TokenPair, user models.User) error {
	rawTokens, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := m.kv.Set(ctx, keyCredentials, rawTokens); err != nil {
		return err
	}
	return m.kv.Set(ctx, keyUser, rawUser)
}

// LoadSession returns the cached credentials and profile, or ok=false when
// absent or unreadable.
func (m *Mirror) LoadSession(ctx context.Context) (models.TokenPair, models.User, bool) {
	var tokens models.TokenPair
	var user models.User

	rawTokens, err := m.kv.Get(ctx, keyCredentials)
	if err != nil || rawTokens == nil {
		return tokens, user, false
	}
	if err := json.Unmarshal(rawTokens, &tokens); err != nil {
		m.log.Warn(ctx, "stored credentials corrupt, discarding", "error", err)
		_ = m.kv.Delete(ctx, keyCredentials)
		return tokens, user, false
	}

	if rawUser, err := m.kv.Get(ctx, keyUser); err == nil && rawUser != nil {
		_ = json.Unmarshal(rawUser, &user)
	}
	return tokens, user, tokens.Access != "" || tokens.Refresh != ""
}

// ClearSession removes the cached credentials and profile.
func (m *Mirror) ClearSession(ctx context.Context) {
	for _, key := range []string{keyCredentials, keyUser} {
		if err := m.kv.Delete(ctx, key); err != nil {
			m.log.Warn(ctx, "failed to clear record", "key", key, "error", err)
		}
	}
}

func (m *Mirror) flag(ctx context.Context, key string) bool {
	raw, err := m.kv.Get(ctx, key)
	if err != nil {
		m.log.Warn(ctx, "flag read failed", "key", key, "error", err)
		return false
	}
	return string(raw) == "1"
}

func (m *Mirror) setFlag(ctx context.Context, key string, v bool) error {
	if !v {
		return m.kv.Delete(ctx, key)
	}
	return m.kv.Set(ctx, key, []byte("1"))
}
