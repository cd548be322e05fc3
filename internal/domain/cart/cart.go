// Package cart holds the client-side shopping cart state: an ordered list of
// product/quantity lines, unique by product ID, with derived totals.
//
// The manager is persistence-agnostic. A subscriber registered with OnChange
// receives a snapshot after every mutation; the composition root binds it to
// durable storage so mutation logic stays testable without a store.
package cart

import (
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/merchkit/storefront/internal/domain/catalog"
)

// Sentinel errors for cart mutations.
var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrAffiliateProduct = errors.New("affiliate products cannot be added to the cart")
)

// Line is one product/quantity pairing in the cart.
type Line struct {
	Product  catalog.Product
	Quantity int
}

// Subtotal returns price × quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Manager owns the in-memory cart for a session. All mutations are
// synchronous; reads issued after a mutation observe it immediately.
type Manager struct {
	mu       sync.Mutex
	lines    []Line
	onChange func([]Line)
}

// NewManager returns an empty cart.
func NewManager() *Manager {
	return &Manager{}
}

// OnChange registers fn to be called with a snapshot of the lines after every
// mutation, including Clear. At most one subscriber is supported; a later
// call replaces the earlier one.
func (m *Manager) OnChange(fn func([]Line)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// AddItem puts quantity units of p in the cart. When a line for p already
// exists its quantity is incremented; otherwise a new line is appended.
func (m *Manager) AddItem(p catalog.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if p.IsAffiliate {
		return ErrAffiliateProduct
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].Product.ID == p.ID {
			m.lines[i].Quantity += quantity
			m.notifyLocked()
			return nil
		}
	}
	m.lines = append(m.lines, Line{Product: p, Quantity: quantity})
	m.notifyLocked()
	return nil
}

// UpdateQuantity sets the line for productID to quantity (absolute, not a
// delta). A quantity of zero or less removes the line. Unknown product IDs
// are a no-op.
func (m *Manager) UpdateQuantity(productID string, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].Product.ID != productID {
			continue
		}
		if quantity <= 0 {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
		} else {
			m.lines[i].Quantity = quantity
		}
		m.notifyLocked()
		return
	}
}

// RemoveItem deletes the line for productID. Removing an absent product is a
// no-op.
func (m *Manager) RemoveItem(productID string) {
	m.UpdateQuantity(productID, 0)
}

// Clear empties the cart. The subscriber still fires so an empty snapshot
// reaches storage rather than a stale one surviving there.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = nil
	m.notifyLocked()
}

// Restore replaces the cart with previously persisted lines. Lines with a
// non-positive quantity or an empty product ID are dropped rather than
// restored. The subscriber does not fire; hydration is not a mutation.
func (m *Manager) Restore(lines []Line) {
	m.mu.Lock()
	defer m.mu.Unlock()

	restored := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Product.ID == "" || l.Quantity < 1 {
			continue
		}
		restored = append(restored, l)
	}
	if len(restored) == 0 {
		restored = nil
	}
	m.lines = restored
}

// Lines returns a snapshot copy of the current cart lines.
func (m *Manager) Lines() []Line {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// TotalItems returns the sum of line quantities.
func (m *Manager) TotalItems() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, l := range m.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice returns the sum over lines of price × quantity.
func (m *Manager) TotalPrice() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for _, l := range m.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (m *Manager) IsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines) == 0
}

func (m *Manager) snapshotLocked() []Line {
	if len(m.lines) == 0 {
		return nil
	}
	out := make([]Line, len(m.lines))
	copy(out, m.lines)
	return out
}

func (m *Manager) notifyLocked() {
	if m.onChange != nil {
		m.onChange(m.snapshotLocked())
	}
}
