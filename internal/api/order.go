package api

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/merchkit/storefront/internal/domain/order"
)

// OrderItem is one line of an order-creation request: a product reference
// plus quantity, never the full product object.
type OrderItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Items           []OrderItem           `json:"items"`
	ShippingAddress order.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
}

// CreateOrder places an order. Order creation has a server-side effect that
// must not be duplicated, so callers pass an idempotency key: the same key is
// reused when the same cart is resubmitted after a failure, letting the
// backend deduplicate. The backend may ignore the header; the client still
// never issues two concurrent calls for one cart.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest, idempotencyKey string) (*order.Order, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("order has no items")
	}

	var header http.Header
	if idempotencyKey != "" {
		header = http.Header{"Idempotency-Key": []string{idempotencyKey}}
	}

	var o order.Order
	if err := c.post(ctx, "/orders", req, &o, header); err != nil {
		return nil, err
	}
	return &o, nil
}

// MyOrders returns the caller's order history. Ordering is whatever the
// backend returns.
func (c *Client) MyOrders(ctx context.Context) ([]order.Order, error) {
	var out []order.Order
	if err := c.get(ctx, "/orders/my-orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
