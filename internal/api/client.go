// Package api implements the typed client for the storefront REST backend:
// authentication, catalog reads, and order placement.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/merchkit/storefront/pkg/httpclient"
)

const defaultTimeout = 15 * time.Second

// Config holds the settings for a Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://shop.example.com/api".
	BaseURL string
	// Timeout bounds each request including body read. Zero means the
	// default of 15s.
	Timeout time.Duration
	// TokenSource supplies the session credential for authenticated
	// endpoints. Nil means all requests go out anonymous.
	TokenSource httpclient.TokenSource
}

// Client is the typed REST client. All methods are safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
}

// anonymous is the TokenSource used when none is configured.
type anonymous struct{}

func (anonymous) Token() string { return "" }

// NewClient builds a Client with an instrumented transport: OpenTelemetry
// spans on the outside, then request ID stamping, bearer credential
// injection, and request logging.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Errorf("base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	source := cfg.TokenSource
	if source == nil {
		source = anonymous{}
	}

	transport := otelhttp.NewTransport(httpclient.Wrap(http.DefaultTransport,
		httpclient.RequestID(),
		httpclient.BearerAuth(source),
		httpclient.LogRequests(),
	))

	return &Client{
		base: base,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}, nil
}

// Ping checks backend reachability with a cheap catalog read.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/categories", nil, &json.RawMessage{})
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any, header http.Header) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s response", req.Method, req.URL.Path)
	}
	return nil
}
