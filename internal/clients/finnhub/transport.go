package finnhub

import (
	"context"
	"net/http"
)

type tokenKey struct{}

func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// tokenTransport sets X-Finnhub-Token from the request context, so one SDK
// client can serve callers holding different keys.
type tokenTransport struct {
	base http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, _ := req.Context().Value(tokenKey{}).(string)
	if token == "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("X-Finnhub-Token", token)
	return t.base.RoundTrip(r)
}
