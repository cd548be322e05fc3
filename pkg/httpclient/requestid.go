package httpclient

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID returns a middleware that stamps every outbound request with an
// X-Request-ID header so client and backend logs can be correlated. A header
// already present on the request is left untouched.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("X-Request-ID") == "" {
				r := req.Clone(req.Context())
				r.Header.Set("X-Request-ID", uuid.New().String())
				req = r
			}
			return next.RoundTrip(req)
		})
	}
}
