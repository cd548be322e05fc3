package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/merchkit/storefront/internal/domain/cart"
	"github.com/merchkit/storefront/internal/domain/catalog"
	"github.com/merchkit/storefront/internal/domain/order"
)

// writeJSON renders v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// money renders a decimal amount with two fraction digits.
func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func writeProductTable(w io.Writer, products []catalog.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tCATEGORY")
	for _, p := range products {
		stock := fmt.Sprintf("%d", p.Stock)
		if p.IsAffiliate {
			stock = "affiliate"
		} else if !p.InStock() {
			stock = "out of stock"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, money(p.Price), stock, p.Category.Name)
	}
	tw.Flush()
}

func writeProductDetail(w io.Writer, p *catalog.Product) {
	fmt.Fprintf(w, "%s\n", p.Name)
	if p.Brand != "" {
		fmt.Fprintf(w, "Brand: %s\n", p.Brand)
	}
	if p.CompareAtPrice.Valid && p.CompareAtPrice.Decimal.GreaterThan(p.Price) {
		fmt.Fprintf(w, "Price: %s (was %s)\n", money(p.Price), money(p.CompareAtPrice.Decimal))
	} else {
		fmt.Fprintf(w, "Price: %s\n", money(p.Price))
	}
	switch {
	case p.IsAffiliate:
		fmt.Fprintf(w, "Available from an external retailer: %s\n", p.AffiliateLink)
	case p.InStock():
		fmt.Fprintf(w, "In stock (%d available)\n", p.Stock)
	default:
		fmt.Fprintln(w, "Out of stock")
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
}

func writeCart(w io.Writer, lines []cart.Line, totalItems int, totalPrice decimal.Decimal) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			l.Product.ID, l.Product.Name, money(l.Product.Price), l.Quantity, money(l.Subtotal()))
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d items, total %s\n", totalItems, money(totalPrice))
}

func writeOrders(w io.Writer, orders []order.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPLACED\tITEMS\tTOTAL\tSTATUS\tPAYMENT")
	for _, o := range orders {
		placed := ""
		if !o.CreatedAt.IsZero() {
			placed = o.CreatedAt.Format("2006-01-02")
		}
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			o.ID, placed, items, money(o.TotalAmount), o.OrderStatus, o.PaymentStatus)
	}
	tw.Flush()
}
