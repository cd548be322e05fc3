package state

import (
	"go.uber.org/zap"

	"github.com/merchkit/storefront/internal/domain/cart"
)

// CartPersister subscribes to cart mutations and writes each snapshot to the
// store under KeyCart. The store is a passive mirror; a write failure is
// logged and the mutation stands.
type CartPersister struct {
	store Store
	lg    *zap.Logger
}

// NewCartPersister returns a persister writing to store. A nil logger
// disables logging.
func NewCartPersister(store Store, lg *zap.Logger) *CartPersister {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &CartPersister{store: store, lg: lg}
}

// Persist writes the snapshot. Registered with cart.Manager.OnChange.
func (p *CartPersister) Persist(lines []cart.Line) {
	if err := p.store.Set(KeyCart, EncodeCartLines(lines)); err != nil {
		p.lg.Warn("persist cart snapshot", zap.Error(err))
	}
}

// Restore loads the persisted cart snapshot for startup hydration. A missing
// or corrupt entry yields nil; corrupt entries are discarded.
func (p *CartPersister) Restore() []cart.Line {
	data, ok, err := p.store.Get(KeyCart)
	if err != nil {
		p.lg.Warn("read cart snapshot", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	lines, err := DecodeCartLines(data)
	if err != nil {
		p.lg.Warn("discarding corrupt cart snapshot", zap.Error(err))
		_ = p.store.Delete(KeyCart)
		return nil
	}
	return lines
}
