// Package session owns the authentication session: the token pair, a
// background renewal timer, a rate-limited on-demand refresh, and the single
// forced-logout path that collaborators escalate to on unauthorized
// responses.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/cartsync/internal/client/api"
	"github.com/dmitrijs2005/cartsync/internal/client/cart"
	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/client/storage"
	"github.com/dmitrijs2005/cartsync/internal/logging"
)

const (
	DefaultRenewalInterval = 25 * time.Minute
	DefaultRefreshCooldown = 2 * time.Second
)

// Guard cycles freely between unauthenticated and authenticated; there is no
// terminal state. It is the exclusive owner of the Session.
type Guard struct {
	client api.Client
	mirror *storage.Mirror
	store  *cart.Store
	log    logging.Logger

	renewalInterval time.Duration
	cooldown        time.Duration

	mu                 sync.Mutex
	tokens             models.TokenPair
	user               *models.User
	lastRefreshAttempt time.Time
	lastRefreshOK      bool
	renewalStop        chan struct{}

	onLogin  []func(ctx context.Context)
	onLogout []func()
}

func NewGuard(client api.Client, mirror *storage.Mirror, store *cart.Store, log logging.Logger) *Guard {
	return &Guard{
		client:          client,
		mirror:          mirror,
		store:           store,
		log:             log,
		renewalInterval: DefaultRenewalInterval,
		cooldown:        DefaultRefreshCooldown,
	}
}

// SetIntervals overrides the renewal period and the refresh cooldown.
// Must be called before the first sign-in.
func (g *Guard) SetIntervals(renewal, cooldown time.Duration) {
	g.renewalInterval = renewal
	g.cooldown = cooldown
}

// OnLogin registers a hook run after every successful sign-in, sign-up, or
// restored session (the merge resolver). Hooks run synchronously, in order.
func (g *Guard) OnLogin(fn func(ctx context.Context)) {
	g.onLogin = append(g.onLogin, fn)
}

// OnLogout registers a hook run on every logout, voluntary or forced
// (the sync engine's baseline reset).
func (g *Guard) OnLogout(fn func()) {
	g.onLogout = append(g.onLogout, fn)
}

func (g *Guard) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tokens.Access != "" || g.tokens.Refresh != ""
}

func (g *Guard) User() *models.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user
}

// SignIn exchanges credentials for a token pair and establishes the session.
func (g *Guard) SignIn(ctx context.Context, email, password string) (*models.AuthResult, error) {
	res, err := g.client.SignIn(ctx, email, password, nil)
	if err != nil {
		return nil, fmt.Errorf("sign-in error: %w", err)
	}
	g.establish(ctx, res)
	return res, nil
}

// SignUp registers a new account and establishes the session.
func (g *Guard) SignUp(ctx context.Context, reg api.Registration) (*models.AuthResult, error) {
	res, err := g.client.SignUp(ctx, reg, nil)
	if err != nil {
		return nil, fmt.Errorf("sign-up error: %w", err)
	}
	g.establish(ctx, res)
	return res, nil
}

// Restore revives a persisted session on process start. It validates the
// cached credentials through RefreshSession; on failure the usual forced
// logout has already cleaned up.
func (g *Guard) Restore(ctx context.Context) bool {
	tokens, user, ok := g.mirror.LoadSession(ctx)
	if !ok {
		return false
	}

	g.mu.Lock()
	g.tokens = tokens
	g.user = &user
	g.mu.Unlock()
	g.client.SetTokens(tokens.Access, tokens.Refresh)

	if !g.RefreshSession(ctx) {
		return false
	}

	g.startRenewal()
	for _, fn := range g.onLogin {
		fn(ctx)
	}
	return true
}

func (g *Guard) establish(ctx context.Context, res *models.AuthResult) {
	g.client.SetTokens(res.Tokens.Access, res.Tokens.Refresh)

	g.mu.Lock()
	g.tokens = res.Tokens
	user := res.User
	g.user = &user
	g.lastRefreshAttempt = time.Time{}
	g.lastRefreshOK = true
	g.mu.Unlock()

	if err := g.mirror.SaveSession(ctx, res.Tokens, res.User); err != nil {
		g.log.Warn(ctx, "failed to persist session", "error", err)
	}

	g.startRenewal()
	for _, fn := range g.onLogin {
		fn(ctx)
	}
}

// RefreshSession validates or renews the session on demand.
//
// Calls within the cooldown window of the previous attempt return the last
// known status without issuing a network call, so bursty callers (checkout
// colliding with background sync) do not cause refresh storms. Otherwise it
// validates the access token by fetching the profile, falls back to
// exchanging the refresh token, and on total failure forces logout and
// reports false.
func (g *Guard) RefreshSession(ctx context.Context) bool {
	g.mu.Lock()
	if !g.lastRefreshAttempt.IsZero() && time.Since(g.lastRefreshAttempt) < g.cooldown {
		ok := g.lastRefreshOK
		g.mu.Unlock()
		return ok
	}
	g.lastRefreshAttempt = time.Now()
	tokens := g.tokens
	g.mu.Unlock()

	if tokens.Access == "" && tokens.Refresh == "" {
		g.setRefreshResult(false)
		return false
	}

	if tokens.Access != "" {
		if user, err := g.client.FetchProfile(ctx); err == nil {
			g.adoptUser(ctx, tokens, *user)
			g.setRefreshResult(true)
			return true
		}
	}

	if tokens.Refresh == "" {
		g.setRefreshResult(false)
		g.ForceLogout(ctx)
		return false
	}

	pair, err := g.client.Refresh(ctx, tokens.Refresh)
	if err != nil {
		g.log.Warn(ctx, "token refresh failed", "error", err)
		g.setRefreshResult(false)
		g.ForceLogout(ctx)
		return false
	}

	g.client.SetTokens(pair.Access, pair.Refresh)
	g.mu.Lock()
	g.tokens = *pair
	g.mu.Unlock()

	user, err := g.client.FetchProfile(ctx)
	if err != nil {
		g.log.Warn(ctx, "profile fetch after refresh failed", "error", err)
		g.setRefreshResult(false)
		g.ForceLogout(ctx)
		return false
	}

	g.adoptUser(ctx, *pair, *user)
	g.setRefreshResult(true)
	return true
}

func (g *Guard) setRefreshResult(ok bool) {
	g.mu.Lock()
	g.lastRefreshOK = ok
	g.mu.Unlock()
}

func (g *Guard) adoptUser(ctx context.Context, tokens models.TokenPair, user models.User) {
	g.mu.Lock()
	g.user = &user
	g.mu.Unlock()
	if err := g.mirror.SaveSession(ctx, tokens, user); err != nil {
		g.log.Warn(ctx, "failed to persist session", "error", err)
	}
}

// SignOut is a voluntary logout: it tells the backend to drop the server
// cart, then runs the same forced-logout path.
func (g *Guard) SignOut(ctx context.Context) {
	if g.Authenticated() {
		if err := g.client.Logout(ctx); err != nil {
			g.log.Warn(ctx, "server logout failed", "error", err)
		}
	}
	g.ForceLogout(ctx)
}

// ForceLogout clears the session and the local cart state. It is the single
// logout path, triggered by explicit sign-out, failed renewal, or any
// collaborator reporting an unauthorized response. Safe to call repeatedly.
func (g *Guard) ForceLogout(ctx context.Context) {
	g.mu.Lock()
	wasAuthenticated := g.tokens.Access != "" || g.tokens.Refresh != ""
	g.tokens = models.TokenPair{}
	g.user = nil
	stop := g.renewalStop
	g.renewalStop = nil
	g.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if !wasAuthenticated {
		return
	}

	g.client.SetTokens("", "")
	g.mirror.ClearSession(ctx)

	for _, fn := range g.onLogout {
		fn()
	}

	// Clear also drops the merge and checkout flags, so the next login runs
	// the merge again.
	g.store.Clear()

	g.log.Info(ctx, "logged out")
}

// startRenewal arms the recurring silent-renewal timer. A previous timer, if
// any, is stopped first.
func (g *Guard) startRenewal() {
	stop := make(chan struct{})

	g.mu.Lock()
	if g.renewalStop != nil {
		close(g.renewalStop)
	}
	g.renewalStop = stop
	g.mu.Unlock()

	go func() {
		ticker := time.NewTicker(g.renewalInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				g.RefreshSession(ctx)
				cancel()
			case <-stop:
				return
			}
		}
	}()
}

// Close tears the guard down without touching session state: the renewal
// timer is stopped, in-flight calls are left to finish on their own.
func (g *Guard) Close() {
	g.mu.Lock()
	stop := g.renewalStop
	g.renewalStop = nil
	g.mu.Unlock()
	if stop != nil {
		close(stop)
	}
}
