// Package httpsignature signs and verifies HTTP requests using the HTTP
// Signatures scheme carried in the Authorization header.
//
// A request's method, target and a configured set of headers are
// canonicalized into a deterministic byte string. Pluggable Signer and
// Verifier collaborators turn that string into a signature (and back),
// so the cryptographic algorithms live outside this package.
//
// # Signing Requests
//
// Construct an Engine with the supported algorithms and collaborators,
// then sign:
//
//	keys := httpsignature.NewKeyStore()
//	keys.AddHMACKey("secret-key", []byte("s3cr3t"))
//
//	engine, err := httpsignature.New([]string{httpsignature.AlgorithmHMACSHA256}, keys, keys)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	signed, err := engine.Sign(req, "secret-key", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Sign never mutates the request it is given; the returned request carries
// the Authorization header:
//
//	Signature keyId="secret-key",algorithm="hmac-sha256",headers="(request-target) date",signature="..."
//
// If the request carries neither Date nor X-Date, a Date header with the
// current time is added before signing.
//
// # Verifying Requests
//
// Verify parses the Authorization header, rebuilds the canonical message
// and returns the authenticated key ID:
//
//	keyID, err := engine.Verify(req)
//	if err != nil {
//	    var sigErr *httpsignature.SignatureError
//	    if errors.As(err, &sigErr) {
//	        // authentication failure, respond 401
//	    }
//	}
//
// Verification enforces that every header required for the request's
// method was signed, that the algorithm is supported, and that the request
// date is within the configured clock skew (300 seconds by default).
// Individual failure causes are exposed as sentinel errors for errors.Is:
//
//	if errors.Is(err, httpsignature.ErrStaleDate) {
//	    // ask the client to retry with a fresh date
//	}
//
// # Engine Configuration
//
// The engine is an immutable value. WithAlgorithm, WithClockSkew,
// WithRequiredHeaders and WithNonce return new engines, leaving the
// original untouched, so a shared engine is safe for concurrent use:
//
//	engine, err = engine.WithRequiredHeaders("POST", []string{"(request-target)", "date", "digest"})
//
// The pseudo-header "(request-target)" covers the request method and the
// path and query of the target URI. Engines can also be built from a YAML
// document via LoadConfig and Config.Engine.
//
// # Server Middleware
//
// Middleware returns a func(http.Handler) http.Handler that verifies
// incoming requests and responds 401 Unauthorized with WWW-Authenticate
// challenges when verification fails:
//
//	mw, err := httpsignature.Middleware(httpsignature.MiddlewareConfig{Engine: engine})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	handler = mw(handler)
//
// The authenticated key ID is available to downstream handlers via
// KeyIDFromContext.
//
// # Client Transport
//
// NewTransport creates an http.RoundTripper that signs every outgoing
// request:
//
//	client := &http.Client{
//	    Transport: httpsignature.NewTransport(nil, engine, "secret-key", ""),
//	}
package httpsignature
