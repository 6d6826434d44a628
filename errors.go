package httpsignature

import (
	"errors"
	"fmt"
)

// Verification errors. Each sentinel is wrapped inside a *SignatureError
// carrying the detailed message, so callers can branch on the case with
// errors.Is or catch every authentication failure at once with errors.As.
var (
	// ErrMissingAuthorization is returned when the request has no
	// Authorization header.
	ErrMissingAuthorization = errors.New("no authorization header")

	// ErrWrongScheme is returned when the Authorization header carries a
	// scheme other than Signature.
	ErrWrongScheme = errors.New("authorization scheme is not Signature")

	// ErrMalformedHeader is returned when the Authorization header
	// parameters cannot be parsed, the signature is not valid base64, or
	// the date header is not a valid date.
	ErrMalformedHeader = errors.New("malformed authorization header")

	// ErrMissingParameter is returned when a required signature parameter
	// (keyId, algorithm, headers, signature) is absent.
	ErrMissingParameter = errors.New("signature parameter is missing")

	// ErrUnsupportedAlgorithm is returned when the algorithm is not among
	// the supported set, or cannot be resolved unambiguously when signing.
	ErrUnsupportedAlgorithm = errors.New("algorithm is not supported")

	// ErrHeaderNotSigned is returned when a header required for the
	// request's method is not part of the signature.
	ErrHeaderNotSigned = errors.New("required header is not part of signature")

	// ErrStaleDate is returned when the request date is outside the
	// configured clock skew.
	ErrStaleDate = errors.New("date is outside the clock skew")

	// ErrInvalidSignature is returned when the signature does not verify.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Key material errors.
var (
	// ErrUnknownKey is returned by KeyStore.Sign when no usable key is
	// registered for the key ID.
	ErrUnknownKey = errors.New("unknown key")
)

// SignatureError reports a per-request authentication failure: a missing,
// malformed or wrong-scheme Authorization header, a missing signature
// parameter, an unsupported algorithm, required headers absent from the
// signature, a stale request date, or a signature that does not verify.
// It wraps one of the sentinel errors above.
//
// Middleware is expected to translate a SignatureError into a 401 response.
type SignatureError struct {
	msg string
	err error
}

func (e *SignatureError) Error() string {
	return e.msg
}

func (e *SignatureError) Unwrap() error {
	return e.err
}

// signatureErrorf builds a SignatureError wrapping the given sentinel with
// a formatted message.
func signatureErrorf(sentinel error, format string, args ...any) *SignatureError {
	return &SignatureError{msg: fmt.Sprintf(format, args...), err: sentinel}
}

// ConfigError reports engine misconfiguration, such as an empty algorithm
// list or selecting an algorithm that is not supported. Unlike
// SignatureError it indicates a programming mistake, not bad request data.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return e.msg
}

// configErrorf builds a ConfigError with a formatted message.
func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}
