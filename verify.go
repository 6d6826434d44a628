package httpsignature

import (
	"encoding/base64"
	"net/http"
	"slices"
	"strings"
	"time"
)

// requiredParams are the parameters every signature must carry, in the
// order they are checked.
var requiredParams = []string{paramKeyID, paramAlgorithm, paramHeaders, paramSignature}

// Verify verifies the request's signature and returns the authenticated
// key ID.
//
// It checks, in order: the Authorization header is present and
// well-formed, all required parameters are present, the algorithm is
// supported, every header required for the request's method was signed
// (x-date satisfies a date requirement), and the request date is within
// the clock skew. Only then is the Verifier invoked over the rebuilt
// canonical message. Every failure is reported as a SignatureError.
func (e *Engine) Verify(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", signatureErrorf(ErrMissingAuthorization, "request has no authorization header")
	}

	params, err := parseAuthorization(auth)
	if err != nil {
		return "", err
	}

	for _, name := range requiredParams {
		if _, ok := params.get(name); !ok {
			return "", signatureErrorf(ErrMissingParameter, "%s is missing from the authorization header", name)
		}
	}

	algorithm, _ := params.get(paramAlgorithm)
	if !slices.Contains(e.algorithms, algorithm) {
		return "", signatureErrorf(ErrUnsupportedAlgorithm, "algorithm %q is not supported", algorithm)
	}

	headersParam, _ := params.get(paramHeaders)
	signedHeaders := strings.Fields(strings.ToLower(headersParam))

	if err := e.checkRequiredHeaders(r.Method, signedHeaders); err != nil {
		return "", err
	}

	if err := e.checkDate(r); err != nil {
		return "", err
	}

	message := buildMessage(r, substituteDate(r, signedHeaders))

	encoded, _ := params.get(paramSignature)
	signature, err := base64.StdEncoding.Strict().DecodeString(encoded)
	if err != nil {
		return "", signatureErrorf(ErrMalformedHeader, "signature is not valid base64")
	}

	keyID, _ := params.get(paramKeyID)

	if e.verifier == nil {
		return "", configErrorf("engine has no verifier")
	}

	ok, err := e.verifier.Verify(message, signature, keyID, algorithm)
	if err != nil {
		return "", err
	}

	if !ok {
		return "", signatureErrorf(ErrInvalidSignature, "invalid signature")
	}

	return keyID, nil
}

// checkRequiredHeaders verifies that every header required for the method
// appears in the signed headers. A signed x-date satisfies a date
// requirement. All missing names are reported in one error.
func (e *Engine) checkRequiredHeaders(method string, signedHeaders []string) error {
	var missing []string

	for _, name := range e.RequiredHeaders(method) {
		if slices.Contains(signedHeaders, name) {
			continue
		}

		if name == headerDate && slices.Contains(signedHeaders, headerXDate) {
			continue
		}

		missing = append(missing, name)
	}

	if len(missing) == 0 {
		return nil
	}

	verb := "is"
	if len(missing) > 1 {
		verb = "are"
	}

	return signatureErrorf(ErrHeaderNotSigned, "%s %s not part of signature", strings.Join(missing, ", "), verb)
}

// checkDate verifies the request date against the clock skew. X-Date takes
// precedence over Date; with neither present the check is skipped, as the
// required-header check already rejects requests missing a configured date
// header. The check is symmetric: dates too far in the future fail as well.
func (e *Engine) checkDate(r *http.Request) error {
	value := r.Header.Get(headerXDate)
	if value == "" {
		value = r.Header.Get(headerDate)
	}

	if value == "" {
		return nil
	}

	date, err := parseDate(value)
	if err != nil {
		return signatureErrorf(ErrMalformedHeader, "date header %q is not a valid date", value)
	}

	diff := time.Since(date)
	if diff < 0 {
		diff = -diff
	}

	// Whole seconds, matching the granularity of the date header.
	if diff/time.Second > e.clockSkew/time.Second {
		return signatureErrorf(ErrStaleDate, "signature is outside the %ds clock skew", e.clockSkew/time.Second)
	}

	return nil
}

// dateFormats are the accepted date header layouts. RFC 1123 with a
// numeric zone is what Sign emits.
var dateFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
}

func parseDate(value string) (time.Time, error) {
	var err error
	for _, layout := range dateFormats {
		var date time.Time
		date, err = time.Parse(layout, value)
		if err == nil {
			return date, nil
		}
	}

	return time.Time{}, err
}
