package state

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/merchkit/storefront/internal/domain/cart"
	"github.com/merchkit/storefront/internal/domain/catalog"
)

// EncodeCartLines serializes a cart snapshot for storage. Prices are encoded
// as decimal strings so no precision is lost round-tripping through the
// store.
func EncodeCartLines(lines []cart.Line) []byte {
	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for _, l := range lines {
			line := l
			e.Obj(func(e *jx.Encoder) {
				e.Field("quantity", func(e *jx.Encoder) { e.Int(line.Quantity) })
				e.Field("product", func(e *jx.Encoder) { encodeProduct(e, line.Product) })
			})
		}
	})
	return e.Bytes()
}

// DecodeCartLines parses a persisted cart snapshot. Malformed payloads return
// an error wrapping ErrCorruptEntry; the caller discards the entry and starts
// with an empty cart.
func DecodeCartLines(data []byte) ([]cart.Line, error) {
	var lines []cart.Line
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		var l cart.Line
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "quantity":
				l.Quantity, err = d.Int()
			case "product":
				l.Product, err = decodeProduct(d)
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		lines = append(lines, l)
		return nil
	}); err != nil {
		return nil, errors.Wrapf(ErrCorruptEntry, "decode cart snapshot: %v", err)
	}
	return lines, nil
}

func encodeProduct(e *jx.Encoder, p catalog.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("price", func(e *jx.Encoder) { e.Str(p.Price.String()) })
		if p.CompareAtPrice.Valid {
			e.Field("compareAtPrice", func(e *jx.Encoder) { e.Str(p.CompareAtPrice.Decimal.String()) })
		}
		e.Field("stock", func(e *jx.Encoder) { e.Int(p.Stock) })
		e.Field("isActive", func(e *jx.Encoder) { e.Bool(p.IsActive) })
		e.Field("isAffiliate", func(e *jx.Encoder) { e.Bool(p.IsAffiliate) })
		if p.AffiliateLink != "" {
			e.Field("affiliateLink", func(e *jx.Encoder) { e.Str(p.AffiliateLink) })
		}
		if p.Thumbnail != "" {
			e.Field("thumbnail", func(e *jx.Encoder) { e.Str(p.Thumbnail) })
		}
		if len(p.Images) > 0 {
			e.Field("images", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, img := range p.Images {
						e.Str(img)
					}
				})
			})
		}
		e.Field("category", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Str(p.Category.ID) })
				e.Field("name", func(e *jx.Encoder) { e.Str(p.Category.Name) })
				e.Field("slug", func(e *jx.Encoder) { e.Str(p.Category.Slug) })
			})
		})
	})
}

func decodeProduct(d *jx.Decoder) (catalog.Product, error) {
	var p catalog.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Str()
		case "name":
			p.Name, err = d.Str()
		case "price":
			var s string
			if s, err = d.Str(); err == nil {
				p.Price, err = decimal.NewFromString(s)
			}
		case "compareAtPrice":
			var s string
			if s, err = d.Str(); err == nil {
				var v decimal.Decimal
				if v, err = decimal.NewFromString(s); err == nil {
					p.CompareAtPrice = decimal.NewNullDecimal(v)
				}
			}
		case "stock":
			p.Stock, err = d.Int()
		case "isActive":
			p.IsActive, err = d.Bool()
		case "isAffiliate":
			p.IsAffiliate, err = d.Bool()
		case "affiliateLink":
			p.AffiliateLink, err = d.Str()
		case "thumbnail":
			p.Thumbnail, err = d.Str()
		case "images":
			err = d.Arr(func(d *jx.Decoder) error {
				img, err := d.Str()
				if err != nil {
					return err
				}
				p.Images = append(p.Images, img)
				return nil
			})
		case "category":
			err = d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "id":
					p.Category.ID, err = d.Str()
				case "name":
					p.Category.Name, err = d.Str()
				case "slug":
					p.Category.Slug, err = d.Str()
				default:
					err = d.Skip()
				}
				return err
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}
