// Package checkout implements the order submission flow: precondition
// checks, a single order-creation call, and the state transitions around it.
//
// The flow is a state machine over Idle → Submitting → {Succeeded, Failed}.
// While a submission is in flight a second Submit is refused, so at most one
// order-creation call is ever outstanding for a cart.
package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/merchkit/storefront/internal/api"
	"github.com/merchkit/storefront/internal/domain/cart"
	"github.com/merchkit/storefront/internal/domain/order"
)

// State is the submission state of the flow.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Sentinel errors for submission preconditions.
var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotAuthenticated = errors.New("login required to checkout")
	ErrSubmitInFlight   = errors.New("a checkout submission is already in progress")
)

// FieldError reports a malformed or missing shipping form field. It is a
// validation error: it blocks submission and never reaches the network.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", e.Field)
}

// Form is the shipping and payment input collected from the user.
type Form struct {
	ShippingAddress order.ShippingAddress
	PaymentMethod   string
}

// Validate checks required fields in a stable order and returns the first
// failure.
func (f *Form) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"fullName", f.ShippingAddress.FullName},
		{"address", f.ShippingAddress.Address},
		{"city", f.ShippingAddress.City},
		{"state", f.ShippingAddress.State},
		{"zipCode", f.ShippingAddress.ZipCode},
		{"country", f.ShippingAddress.Country},
		{"phone", f.ShippingAddress.Phone},
	}
	for _, field := range fields {
		if field.value == "" {
			return &FieldError{Field: field.name}
		}
	}
	if !order.ValidPaymentMethod(f.PaymentMethod) {
		return &FieldError{Field: "paymentMethod"}
	}
	return nil
}

// OrderPlacer is the slice of the API client the flow needs.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest, idempotencyKey string) (*order.Order, error)
}

// SessionChecker reports whether an identity is present.
type SessionChecker interface {
	IsAuthenticated() bool
}

// Flow drives checkout submission for one cart.
type Flow struct {
	cart    *cart.Manager
	session SessionChecker
	orders  OrderPlacer
	lg      *zap.Logger

	mu      sync.Mutex
	state   State
	idemKey string
	lastErr error
}

// NewFlow returns an idle flow. A nil logger disables logging.
func NewFlow(c *cart.Manager, session SessionChecker, orders OrderPlacer, lg *zap.Logger) *Flow {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Flow{
		cart:    c,
		session: session,
		orders:  orders,
		lg:      lg,
	}
}

// State returns the current submission state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// LastError returns the error of the most recent failed submission, or nil.
func (f *Flow) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Reset returns a Succeeded or Failed flow to Idle and rotates the
// idempotency key. Resetting while Submitting is refused.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return ErrSubmitInFlight
	}
	f.state = StateIdle
	f.idemKey = ""
	f.lastErr = nil
	return nil
}

// Submit validates preconditions and places the order. Exactly one network
// call is made per invocation that passes validation; re-entrant calls while
// Submitting return ErrSubmitInFlight without touching the network.
//
// On success the cart is cleared and the created order returned. On failure
// the cart is left untouched and the caller may correct input and call
// Submit again; the retry reuses the same idempotency key so the backend can
// deduplicate a request that actually landed.
func (f *Flow) Submit(ctx context.Context, form Form) (*order.Order, error) {
	// Preconditions, evaluated in order; the first failure halts with no
	// request sent.
	if f.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if !f.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	req := api.CreateOrderRequest{
		ShippingAddress: form.ShippingAddress,
		PaymentMethod:   form.PaymentMethod,
	}
	lines := f.cart.Lines()
	req.Items = make([]api.OrderItem, len(lines))
	for i, l := range lines {
		req.Items[i] = api.OrderItem{ProductID: l.Product.ID, Quantity: l.Quantity}
	}

	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	f.state = StateSubmitting
	if f.idemKey == "" {
		f.idemKey = uuid.New().String()
	}
	key := f.idemKey
	f.mu.Unlock()

	f.lg.Debug("Submitting order",
		zap.Int("lines", len(req.Items)),
		zap.String("idempotency_key", key),
	)

	created, err := f.orders.CreateOrder(ctx, req, key)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateFailed
		f.lastErr = err
		f.lg.Warn("Order submission failed", zap.Error(err))
		return nil, err
	}

	f.state = StateSucceeded
	f.idemKey = ""
	f.lastErr = nil
	f.cart.Clear()
	f.lg.Info("Order placed", zap.String("order_id", created.ID))
	return created, nil
}

// UserMessage renders a submission error for display: precondition and form
// errors as-is, backend errors by their message, anything else as a generic
// fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var fieldErr *FieldError
	switch {
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrNotAuthenticated),
		errors.Is(err, ErrSubmitInFlight):
		return err.Error()
	case errors.As(err, &fieldErr):
		return fieldErr.Error()
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Failed to place order"
}
