package httpsignature

import "net/http"

// Transport is an http.RoundTripper that signs outgoing requests.
//
// Use NewTransport to create a Transport with a configured base for
// proxy, TLS and timeout settings.
type Transport struct {
	base      http.RoundTripper
	engine    *Engine
	keyID     string
	algorithm string
}

// NewTransport creates a signing Transport that delegates to base after
// signing each request with the given key. The algorithm may be empty
// when the engine supports exactly one. When base is nil, a clone of
// http.DefaultTransport is used, giving an independent connection pool
// with default proxy, TLS and timeout settings.
func NewTransport(base http.RoundTripper, engine *Engine, keyID, algorithm string) *Transport {
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &Transport{
		base:      base,
		engine:    engine,
		keyID:     keyID,
		algorithm: algorithm,
	}
}

// RoundTrip signs the request and delegates to the base transport. Sign
// works on a copy, so the caller's request is never mutated.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	signed, err := t.engine.Sign(req, t.keyID, t.algorithm)
	if err != nil {
		return nil, err
	}

	return t.base.RoundTrip(signed)
}
