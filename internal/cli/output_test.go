package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchkit/storefront/internal/domain/cart"
	"github.com/merchkit/storefront/internal/domain/catalog"
	"github.com/merchkit/storefront/internal/domain/order"
)

func TestRootCommand_RejectsInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "whoami"})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestWriteCart_Empty(t *testing.T) {
	var sb strings.Builder
	writeCart(&sb, nil, 0, decimal.Zero)
	assert.Contains(t, sb.String(), "Your cart is empty")
}

func TestWriteCart_TotalsLine(t *testing.T) {
	lines := []cart.Line{
		{Product: catalog.Product{ID: "p1", Name: "Widget", Price: decimal.NewFromInt(10)}, Quantity: 2},
		{Product: catalog.Product{ID: "p2", Name: "Gadget", Price: decimal.NewFromInt(5)}, Quantity: 3},
	}

	var sb strings.Builder
	writeCart(&sb, lines, 5, decimal.NewFromInt(35))

	out := sb.String()
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "5 items, total $35.00")
}

func TestWriteProductDetail_Affiliate(t *testing.T) {
	p := &catalog.Product{
		ID:            "p1",
		Name:          "Widget",
		Price:         decimal.RequireFromString("19.99"),
		IsAffiliate:   true,
		AffiliateLink: "https://retailer.example/widget",
	}

	var sb strings.Builder
	writeProductDetail(&sb, p)

	assert.Contains(t, sb.String(), "external retailer")
	assert.Contains(t, sb.String(), "https://retailer.example/widget")
}

func TestWriteProductDetail_CompareAtPrice(t *testing.T) {
	p := &catalog.Product{
		ID:             "p1",
		Name:           "Widget",
		Price:          decimal.RequireFromString("19.99"),
		CompareAtPrice: decimal.NewNullDecimal(decimal.RequireFromString("29.99")),
		Stock:          3,
		IsActive:       true,
	}

	var sb strings.Builder
	writeProductDetail(&sb, p)

	assert.Contains(t, sb.String(), "$19.99 (was $29.99)")
	assert.Contains(t, sb.String(), "In stock (3 available)")
}

func TestWriteOrders(t *testing.T) {
	orders := []order.Order{{
		ID:            "o1",
		TotalAmount:   decimal.RequireFromString("35.50"),
		OrderStatus:   order.StatusShipped,
		PaymentStatus: order.PaymentPaid,
		Items:         []order.Item{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}},
	}}

	var sb strings.Builder
	writeOrders(&sb, orders)

	out := sb.String()
	assert.Contains(t, out, "o1")
	assert.Contains(t, out, "$35.50")
	assert.Contains(t, out, "shipped")
	assert.Contains(t, out, "paid")
}
