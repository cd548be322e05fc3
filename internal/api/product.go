package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/merchkit/storefront/internal/domain/catalog"
)

// ProductQuery holds the filter, sort, and paging parameters of a catalog
// listing. Zero values are omitted from the request.
type ProductQuery struct {
	Page        int
	Limit       int
	Category    string
	Search      string
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	Sort        string
	IsAffiliate *bool
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.MinPrice.IsPositive() {
		v.Set("minPrice", q.MinPrice.String())
	}
	if q.MaxPrice.IsPositive() {
		v.Set("maxPrice", q.MaxPrice.String())
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.IsAffiliate != nil {
		v.Set("isAffiliate", strconv.FormatBool(*q.IsAffiliate))
	}
	return v
}

// ProductPage is one page of catalog listing results.
type ProductPage struct {
	Products []catalog.Product `json:"products"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
	Total    int               `json:"total"`
}

// GetProducts lists catalog products matching the query.
func (c *Client) GetProducts(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	var page ProductPage
	if err := c.get(ctx, "/products", query.values(), &page); err != nil {
		return nil, err
	}
	for i := range page.Products {
		if err := page.Products[i].Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid product in listing")
		}
	}
	return &page, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	if id == "" {
		return nil, errors.New("product id is empty")
	}

	var p catalog.Product
	if err := c.get(ctx, "/products/"+url.PathEscape(id), nil, &p); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetCategories lists all catalog categories.
func (c *Client) GetCategories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := c.get(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoryBySlug fetches one category by its URL slug.
func (c *Client) GetCategoryBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	if slug == "" {
		return nil, errors.New("category slug is empty")
	}

	var cat catalog.Category
	if err := c.get(ctx, "/categories/slug/"+url.PathEscape(slug), nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}
