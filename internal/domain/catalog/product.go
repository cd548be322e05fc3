package catalog

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// CategoryRef is the embedded category reference carried on a product.
type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product represents a catalog item as served by the backend. Prices use
// decimal arithmetic; CompareAtPrice is the optional pre-discount price and
// never participates in cart totals.
type Product struct {
	ID               string              `json:"_id"`
	Name             string              `json:"name"`
	Description      string              `json:"description,omitempty"`
	ShortDescription string              `json:"shortDescription,omitempty"`
	SKU              string              `json:"sku,omitempty"`
	Brand            string              `json:"brand,omitempty"`
	Price            decimal.Decimal     `json:"price"`
	CompareAtPrice   decimal.NullDecimal `json:"compareAtPrice,omitempty"`
	Category         CategoryRef         `json:"category"`
	Subcategory      string              `json:"subcategory,omitempty"`
	Images           []string            `json:"images,omitempty"`
	Thumbnail        string              `json:"thumbnail,omitempty"`
	Stock            int                 `json:"stock"`
	Rating           float64             `json:"rating,omitempty"`
	ReviewCount      int                 `json:"reviewCount,omitempty"`
	IsActive         bool                `json:"isActive"`
	IsAffiliate      bool                `json:"isAffiliate"`
	AffiliateLink    string              `json:"affiliateLink,omitempty"`
	Tags             []string            `json:"tags,omitempty"`
}

// Validate checks the invariants the backend is supposed to uphold. It is
// called on every product decoded from the wire so a misbehaving backend
// cannot push negative prices or stock into cart arithmetic.
func (p *Product) Validate() error {
	if p.ID == "" {
		return errors.New("product id is empty")
	}
	if p.Price.IsNegative() {
		return errors.Errorf("product %s: negative price %s", p.ID, p.Price)
	}
	if p.Stock < 0 {
		return errors.Errorf("product %s: negative stock %d", p.ID, p.Stock)
	}
	return nil
}

// Purchasable reports whether the product can be placed in a cart. Affiliate
// products redirect to an external retailer and are never carted.
func (p *Product) Purchasable() bool {
	return p.IsActive && !p.IsAffiliate
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// ClampQuantity bounds a requested quantity to [1, stock]. A non-positive
// request becomes 1; requests above stock are capped at stock.
func (p *Product) ClampQuantity(qty int) int {
	if qty < 1 {
		qty = 1
	}
	if qty > p.Stock {
		qty = p.Stock
	}
	return qty
}

// Image returns the preferred display image: the thumbnail when set,
// otherwise the first gallery image, otherwise empty.
func (p *Product) Image() string {
	if p.Thumbnail != "" {
		return p.Thumbnail
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}
