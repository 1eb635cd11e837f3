package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/cartsync/internal/client/api"
	"github.com/dmitrijs2005/cartsync/internal/client/cart"
	"github.com/dmitrijs2005/cartsync/internal/client/config"
	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/client/notify"
	"github.com/dmitrijs2005/cartsync/internal/client/services"
	"github.com/dmitrijs2005/cartsync/internal/client/session"
	"github.com/dmitrijs2005/cartsync/internal/client/storage"
	"github.com/dmitrijs2005/cartsync/internal/client/sync"
	"github.com/dmitrijs2005/cartsync/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	db       *sql.DB
	client   api.Client
	mirror   *storage.Mirror
	store    *cart.Store
	guard    *session.Guard
	engine   *sync.Engine
	resolver *sync.Resolver
	checkout *services.CheckoutService
	log      logging.Logger
	reader   *bufio.Reader
}

// NewApp builds the full client object graph and wires the subscriptions:
// every store change re-arms the sync engine and is written through to the
// local mirror; a login transition runs the merge resolver; a logout resets
// the engine baseline.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	db, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	mirror := storage.NewMirror(storage.NewKVRepository(db), log)
	notifier := notify.Func(func(msg string) { fmt.Println(msg) })
	store := cart.NewStore(notifier, mirror)

	apiClient := api.NewHTTPClient(cfg.ServerEndpointAddr)

	guard := session.NewGuard(apiClient, mirror, store, log)
	guard.SetIntervals(cfg.SessionRenewalInterval, cfg.RefreshCooldown)

	engine := sync.NewEngine(apiClient, guard, store.Quantities, notifier, log)
	engine.SetDebounce(cfg.SyncDebounce)

	resolver := sync.NewResolver(apiClient, mirror, store, engine, log)

	checkoutSvc := services.NewCheckoutService(apiClient, store, guard, mirror, notifier, log)
	checkoutSvc.AttachSync(engine)

	store.Subscribe(engine.Trigger)
	store.Subscribe(func(items models.Cart) {
		if err := mirror.Save(context.Background(), items); err != nil {
			log.Warn(context.Background(), "cart write-through failed", "error", err)
		}
	})
	guard.OnLogin(resolver.Resolve)
	guard.OnLogout(engine.Reset)

	return &App{
		config:   cfg,
		db:       db,
		client:   apiClient,
		mirror:   mirror,
		store:    store,
		guard:    guard,
		engine:   engine,
		resolver: resolver,
		checkout: checkoutSvc,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run revives persisted state and enters the shell. The saved cart is
// materialized before the session, so a revived login merges exactly what the
// guest left behind.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if saved := a.mirror.Load(ctx); !saved.IsEmpty() {
		a.store.Replace(saved)
	}
	if a.guard.Restore(ctx) {
		a.log.Info(ctx, "session revived")
	}

	a.Root(ctx)
}

func (a *App) Close() {
	a.engine.Stop()
	a.guard.Close()
	if err := a.client.Close(); err != nil {
		a.log.Warn(context.Background(), "client close failed", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "database close failed", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.guard.Authenticated()
}
