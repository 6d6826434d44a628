package httpsignature

import (
	"context"
	"net/http"
)

type keyIDKey struct{}

// KeyIDFromContext returns the authenticated key ID stored in the context
// by the verification middleware. Returns an empty string if the request
// was not verified.
func KeyIDFromContext(ctx context.Context) string {
	if keyID, ok := ctx.Value(keyIDKey{}).(string); ok {
		return keyID
	}

	return ""
}

// MiddlewareConfig configures the server-side verification middleware.
type MiddlewareConfig struct {
	// Engine verifies incoming requests. Required.
	Engine *Engine

	// OnError is called when verification fails. When nil, a 401
	// Unauthorized response is sent with one WWW-Authenticate challenge
	// per supported algorithm and the error message as body.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware returns a middleware that verifies HTTP request signatures.
// The authenticated key ID is stored in the request context for
// downstream handlers, retrievable via KeyIDFromContext.
//
// It returns a ConfigError when no engine is configured.
func Middleware(cfg MiddlewareConfig) (func(http.Handler) http.Handler, error) {
	if cfg.Engine == nil {
		return nil, configErrorf("middleware requires an engine")
	}

	engine := cfg.Engine

	onError := cfg.OnError
	if onError == nil {
		onError = func(w http.ResponseWriter, r *http.Request, err error) {
			engine.AddChallenges(r.Method, w.Header())
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			keyID, err := engine.Verify(r)
			if err != nil {
				onError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), keyIDKey{}, keyID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}
