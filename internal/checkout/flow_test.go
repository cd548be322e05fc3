package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchkit/storefront/internal/api"
	"github.com/merchkit/storefront/internal/domain/cart"
	"github.com/merchkit/storefront/internal/domain/catalog"
	"github.com/merchkit/storefront/internal/domain/order"
)

// --- Mock implementations ---

type mockSession struct {
	authed bool
}

func (m *mockSession) IsAuthenticated() bool { return m.authed }

type mockOrderPlacer struct {
	mu       sync.Mutex
	calls    int
	lastReq  api.CreateOrderRequest
	lastKey  string
	result   *order.Order
	err      error
	blocking chan struct{}
}

func (m *mockOrderPlacer) CreateOrder(ctx context.Context, req api.CreateOrderRequest, key string) (*order.Order, error) {
	m.mu.Lock()
	m.calls++
	m.lastReq = req
	m.lastKey = key
	block := m.blocking
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockOrderPlacer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Helpers ---

func newTestCart(t *testing.T) *cart.Manager {
	t.Helper()
	m := cart.NewManager()
	p1 := catalog.Product{ID: "p1", Name: "Widget", Price: decimal.NewFromInt(10), Stock: 5, IsActive: true}
	p2 := catalog.Product{ID: "p2", Name: "Gadget", Price: decimal.NewFromInt(5), Stock: 5, IsActive: true}
	require.NoError(t, m.AddItem(p1, 2))
	require.NoError(t, m.AddItem(p2, 3))
	return m
}

func validForm() Form {
	return Form{
		ShippingAddress: order.ShippingAddress{
			FullName: "Ada Lovelace",
			Address:  "12 Analytical Way",
			City:     "London",
			State:    "LDN",
			ZipCode:  "E1 6AN",
			Country:  "United Kingdom",
			Phone:    "+44 20 7946 0000",
		},
		PaymentMethod: "credit_card",
	}
}

// --- Tests ---

func TestSubmit_EmptyCart(t *testing.T) {
	placer := &mockOrderPlacer{}
	f := NewFlow(cart.NewManager(), &mockSession{authed: true}, placer, nil)

	_, err := f.Submit(context.Background(), validForm())

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, placer.callCount(), "empty cart must never issue a network call")
	assert.Equal(t, StateIdle, f.State())
}

func TestSubmit_NotAuthenticated(t *testing.T) {
	placer := &mockOrderPlacer{}
	f := NewFlow(newTestCart(t), &mockSession{authed: false}, placer, nil)

	_, err := f.Submit(context.Background(), validForm())

	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 0, placer.callCount())
}

func TestSubmit_PreconditionOrder(t *testing.T) {
	// Empty cart and missing identity together: the cart check wins.
	placer := &mockOrderPlacer{}
	f := NewFlow(cart.NewManager(), &mockSession{authed: false}, placer, nil)

	_, err := f.Submit(context.Background(), validForm())
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmit_FormValidation(t *testing.T) {
	placer := &mockOrderPlacer{}
	f := NewFlow(newTestCart(t), &mockSession{authed: true}, placer, nil)

	form := validForm()
	form.ShippingAddress.City = ""
	_, err := f.Submit(context.Background(), form)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "city", fieldErr.Field)
	assert.Equal(t, 0, placer.callCount())

	form = validForm()
	form.PaymentMethod = "barter"
	_, err = f.Submit(context.Background(), form)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "paymentMethod", fieldErr.Field)
}

func TestSubmit_Success(t *testing.T) {
	c := newTestCart(t)
	placer := &mockOrderPlacer{result: &order.Order{ID: "o1"}}
	f := NewFlow(c, &mockSession{authed: true}, placer, nil)

	created, err := f.Submit(context.Background(), validForm())
	require.NoError(t, err)

	assert.Equal(t, "o1", created.ID)
	assert.Equal(t, StateSucceeded, f.State())
	assert.True(t, c.IsEmpty(), "cart is cleared on success")
	assert.Equal(t, 1, placer.callCount())

	// Request carries product ids + quantities, not product objects.
	require.Len(t, placer.lastReq.Items, 2)
	assert.Equal(t, api.OrderItem{ProductID: "p1", Quantity: 2}, placer.lastReq.Items[0])
	assert.Equal(t, api.OrderItem{ProductID: "p2", Quantity: 3}, placer.lastReq.Items[1])
	assert.NotEmpty(t, placer.lastKey)
}

func TestSubmit_FailurePreservesCart(t *testing.T) {
	c := newTestCart(t)
	before := c.Lines()
	placer := &mockOrderPlacer{err: &api.Error{StatusCode: 422, Message: "Out of stock"}}
	f := NewFlow(c, &mockSession{authed: true}, placer, nil)

	_, err := f.Submit(context.Background(), validForm())

	require.Error(t, err)
	assert.Equal(t, StateFailed, f.State())
	assert.Equal(t, before, c.Lines(), "failed submission must not touch the cart")
	assert.Equal(t, "Out of stock", UserMessage(f.LastError()))
}

func TestSubmit_RejectsConcurrentSubmission(t *testing.T) {
	c := newTestCart(t)
	placer := &mockOrderPlacer{
		result:   &order.Order{ID: "o1"},
		blocking: make(chan struct{}),
	}
	f := NewFlow(c, &mockSession{authed: true}, placer, nil)

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background(), validForm())
		done <- err
	}()

	require.Eventually(t, func() bool {
		return f.State() == StateSubmitting
	}, time.Second, time.Millisecond)

	_, err := f.Submit(context.Background(), validForm())
	require.ErrorIs(t, err, ErrSubmitInFlight)

	close(placer.blocking)
	require.NoError(t, <-done)
	assert.Equal(t, 1, placer.callCount(), "second submit must not fire a network call")
}

func TestSubmit_RetryReusesIdempotencyKey(t *testing.T) {
	c := newTestCart(t)
	placer := &mockOrderPlacer{err: &api.Error{StatusCode: 500, Message: "boom"}}
	f := NewFlow(c, &mockSession{authed: true}, placer, nil)

	_, err := f.Submit(context.Background(), validForm())
	require.Error(t, err)
	firstKey := placer.lastKey

	_, err = f.Submit(context.Background(), validForm())
	require.Error(t, err)
	assert.Equal(t, firstKey, placer.lastKey, "manual retry reuses the key")

	placer.err = nil
	placer.result = &order.Order{ID: "o1"}
	_, err = f.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, firstKey, placer.lastKey)

	// A fresh attempt set gets a fresh key.
	require.NoError(t, f.Reset())
	require.NoError(t, c.AddItem(catalog.Product{ID: "p3", Price: decimal.NewFromInt(1), Stock: 1, IsActive: true}, 1))
	_, err = f.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, placer.lastKey)
}

func TestReset_WhileSubmitting(t *testing.T) {
	c := newTestCart(t)
	placer := &mockOrderPlacer{
		result:   &order.Order{ID: "o1"},
		blocking: make(chan struct{}),
	}
	f := NewFlow(c, &mockSession{authed: true}, placer, nil)

	done := make(chan struct{})
	go func() {
		_, _ = f.Submit(context.Background(), validForm())
		close(done)
	}()
	require.Eventually(t, func() bool {
		return f.State() == StateSubmitting
	}, time.Second, time.Millisecond)

	require.ErrorIs(t, f.Reset(), ErrSubmitInFlight)
	close(placer.blocking)
	<-done
	require.NoError(t, f.Reset())
	assert.Equal(t, StateIdle, f.State())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"empty cart", ErrEmptyCart, "cart is empty"},
		{"auth", ErrNotAuthenticated, "login required to checkout"},
		{"field", &FieldError{Field: "phone"}, "missing or invalid field: phone"},
		{"backend", &api.Error{StatusCode: 422, Message: "Out of stock"}, "Out of stock"},
		{"opaque", context.DeadlineExceeded, "Failed to place order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
