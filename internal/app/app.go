// Package app wires the storefront client together: configuration, the
// local state store, the domain state managers, the API client, and the
// checkout flow. It is the single composition point; nothing else constructs
// these dependencies or holds them as globals.
package app

import (
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/merchkit/storefront/internal/api"
	"github.com/merchkit/storefront/internal/checkout"
	"github.com/merchkit/storefront/internal/domain/cart"
	"github.com/merchkit/storefront/internal/domain/identity"
	"github.com/merchkit/storefront/internal/state"
)

// App owns the assembled client core for one session.
type App struct {
	Config *Config
	Log    *zap.Logger

	Store    state.Store
	Cart     *cart.Manager
	Auth     *identity.Manager
	API      *api.Client
	Checkout *checkout.Flow
}

// New builds the application: opens (or fabricates, in ephemeral mode) the
// state store, hydrates the auth and cart managers from it, and constructs
// the API client and checkout flow on top. Callers must Close the returned
// App.
func New(cfg *Config, lg *zap.Logger) (*App, error) {
	if lg == nil {
		lg = zap.NewNop()
	}

	var store state.Store
	if cfg.Ephemeral {
		store = state.NewMemoryStore()
	} else {
		s, err := state.Open(cfg.StatePath)
		if err != nil {
			return nil, errors.Wrap(err, "open state store")
		}
		store = s
	}

	// Hydrate identity first: a corrupted record degrades to anonymous, it
	// never fails startup.
	auth := identity.NewManager(store)
	if err := auth.Initialize(); err != nil {
		store.Close()
		return nil, errors.Wrap(err, "initialize auth")
	}

	// Cart: restore the persisted snapshot, then subscribe the persister so
	// every later mutation writes through.
	cartMgr := cart.NewManager()
	persister := state.NewCartPersister(store, lg)
	cartMgr.Restore(persister.Restore())
	cartMgr.OnChange(persister.Persist)

	client, err := api.NewClient(api.Config{
		BaseURL:     cfg.APIBaseURL,
		Timeout:     cfg.Timeout,
		TokenSource: auth,
	})
	if err != nil {
		store.Close()
		return nil, errors.Wrap(err, "create api client")
	}

	return &App{
		Config:   cfg,
		Log:      lg,
		Store:    store,
		Cart:     cartMgr,
		Auth:     auth,
		API:      client,
		Checkout: checkout.NewFlow(cartMgr, auth, client, lg),
	}, nil
}

// Close releases the state store.
func (a *App) Close() error {
	return a.Store.Close()
}
