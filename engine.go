package httpsignature

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http/httpguts"
)

// DefaultClockSkew is the maximum accepted difference between the request
// date and the current time when no explicit skew is configured.
const DefaultClockSkew = 300 * time.Second

// methodDefault is the required-headers key used when a method has no
// explicit entry.
const methodDefault = "default"

// Signer produces a signature over a canonical message. The key ID is an
// opaque identifier resolved by the implementation; Sign may fail for
// unknown keys or algorithms.
type Signer interface {
	Sign(message []byte, keyID, algorithm string) ([]byte, error)
}

// Verifier checks a signature over a canonical message. It must return
// false, not an error, for unknown keys and invalid signatures, and must
// compare in constant time.
type Verifier interface {
	Verify(message, signature []byte, keyID, algorithm string) (bool, error)
}

// SignerFunc adapts a function to the Signer interface.
type SignerFunc func(message []byte, keyID, algorithm string) ([]byte, error)

func (f SignerFunc) Sign(message []byte, keyID, algorithm string) ([]byte, error) {
	return f(message, keyID, algorithm)
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(message, signature []byte, keyID, algorithm string) (bool, error)

func (f VerifierFunc) Verify(message, signature []byte, keyID, algorithm string) (bool, error) {
	return f(message, signature, keyID, algorithm)
}

// Engine signs and verifies HTTP requests. It is an immutable value: the
// With* methods return new engines and never modify the receiver, so a
// single engine may be shared across goroutines. The injected Signer and
// Verifier must themselves be safe for concurrent use.
type Engine struct {
	algorithms      []string
	requiredHeaders map[string][]string
	clockSkew       time.Duration
	signer          Signer
	verifier        Verifier
	nonce           *nonceCounter
	clientID        string
}

// New creates an Engine supporting the given algorithms. The list must not
// be empty; its first entry is the default when exactly one algorithm is
// supported. The signer and verifier are the cryptographic collaborators
// invoked by Sign and Verify.
func New(algorithms []string, signer Signer, verifier Verifier) (*Engine, error) {
	if len(algorithms) == 0 {
		return nil, configErrorf("no supported algorithms specified")
	}

	return &Engine{
		algorithms: slices.Clone(algorithms),
		requiredHeaders: map[string][]string{
			methodDefault: {"date"},
		},
		clockSkew: DefaultClockSkew,
		signer:    signer,
		verifier:  verifier,
	}, nil
}

// clone returns a copy of the engine that can be modified without
// affecting the receiver. Inner header lists are never mutated after
// construction, so a shallow map copy is enough.
func (e *Engine) clone() *Engine {
	c := *e
	c.algorithms = slices.Clone(e.algorithms)
	c.requiredHeaders = maps.Clone(e.requiredHeaders)

	return &c
}

// Algorithms returns the supported algorithm identifiers in order.
func (e *Engine) Algorithms() []string {
	return slices.Clone(e.algorithms)
}

// WithAlgorithm returns an engine narrowed to exactly one of the currently
// supported algorithms. Selecting an algorithm that is not supported is a
// ConfigError.
func (e *Engine) WithAlgorithm(algorithm string) (*Engine, error) {
	if !slices.Contains(e.algorithms, algorithm) {
		return nil, configErrorf("algorithm %q is not supported", algorithm)
	}

	if len(e.algorithms) == 1 {
		return e, nil
	}

	c := e.clone()
	c.algorithms = []string{algorithm}

	return c, nil
}

// WithClockSkew returns an engine with the given maximum signature age.
// Negative values are treated as zero.
func (e *Engine) WithClockSkew(skew time.Duration) *Engine {
	if skew < 0 {
		skew = 0
	}

	if skew == e.clockSkew {
		return e
	}

	c := e.clone()
	c.clockSkew = skew

	return c
}

// WithRequiredHeaders returns an engine that requires the given headers to
// be signed for the given method. Method and header names are stored
// lower-cased; the method "default" applies to methods without an explicit
// entry. The list may include the pseudo-header "(request-target)".
func (e *Engine) WithRequiredHeaders(method string, headers []string) (*Engine, error) {
	lowered := make([]string, len(headers))
	for i, name := range headers {
		name = strings.ToLower(name)
		if name != requestTargetHeader && !httpguts.ValidHeaderFieldName(name) {
			return nil, configErrorf("required header %q is not a valid header name", name)
		}

		lowered[i] = name
	}

	method = strings.ToLower(method)
	if slices.Equal(e.requiredHeaders[method], lowered) {
		return e, nil
	}

	c := e.clone()
	c.requiredHeaders[method] = lowered

	return c, nil
}

// WithNonce returns an engine that embeds a client identifier and a
// monotonically increasing nonce in every signature it creates. The
// counter starts at seed and wraps to 0 past 65535. When clientID is
// empty a random UUID is generated.
func (e *Engine) WithNonce(clientID string, seed uint16) *Engine {
	if clientID == "" {
		clientID = uuid.NewString()
	}

	c := e.clone()
	c.nonce = newNonceCounter(seed)
	c.clientID = clientID

	return c
}

// RequiredHeaders returns the headers that must be signed for the given
// method, falling back to the "default" entry when the method has no
// explicit configuration.
func (e *Engine) RequiredHeaders(method string) []string {
	if headers, ok := e.requiredHeaders[strings.ToLower(method)]; ok {
		return slices.Clone(headers)
	}

	return slices.Clone(e.requiredHeaders[methodDefault])
}

// ClockSkew returns the maximum accepted signature age.
func (e *Engine) ClockSkew() time.Duration {
	return e.clockSkew
}

// signAlgorithm resolves the algorithm used for signing. An empty
// algorithm selects the sole supported algorithm; with more than one
// supported the choice is ambiguous and the caller must be explicit.
func (e *Engine) signAlgorithm(algorithm string) (string, error) {
	if algorithm == "" {
		if len(e.algorithms) == 1 {
			return e.algorithms[0], nil
		}

		return "", signatureErrorf(ErrUnsupportedAlgorithm, "no algorithm specified and multiple algorithms are supported")
	}

	if !slices.Contains(e.algorithms, algorithm) {
		return "", signatureErrorf(ErrUnsupportedAlgorithm, "algorithm %q is not supported", algorithm)
	}

	return algorithm, nil
}
