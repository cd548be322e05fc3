package httpclient

import "net/http"

// TokenSource supplies the current session credential. An empty string means
// anonymous and no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// BearerAuth returns a middleware that injects the current token as an
// Authorization: Bearer header. The token is read per request, so a login or
// logout between calls takes effect immediately.
func BearerAuth(source TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if token := source.Token(); token != "" && req.Header.Get("Authorization") == "" {
				r := req.Clone(req.Context())
				r.Header.Set("Authorization", "Bearer "+token)
				req = r
			}
			return next.RoundTrip(req)
		})
	}
}
