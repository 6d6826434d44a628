package httpsignature

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Sign signs the request and returns a copy carrying the Authorization
// header. The original request is never modified.
//
// The key ID is an opaque identifier passed through to the Signer. The
// algorithm may be empty when the engine supports exactly one algorithm;
// with more than one supported it must be given explicitly.
//
// When the request carries neither a Date nor an X-Date header, a Date
// header with the current time is added before canonicalization. The
// headers covered by the signature are the required headers for the
// request's method, filtered to those present on the request.
func (e *Engine) Sign(r *http.Request, keyID, algorithm string) (*http.Request, error) {
	algorithm, err := e.signAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}

	if e.signer == nil {
		return nil, configErrorf("engine has no signer")
	}

	signed := r.Clone(r.Context())
	if signed.Header == nil {
		signed.Header = make(http.Header)
	}

	if signed.Header.Get(headerDate) == "" && signed.Header.Get(headerXDate) == "" {
		signed.Header.Set("Date", time.Now().UTC().Format(time.RFC1123Z))
	}

	headers := e.signedHeaders(signed)
	message := buildMessage(signed, headers)

	signature, err := e.signer.Sign(message, keyID, algorithm)
	if err != nil {
		return nil, err
	}

	if signature == nil {
		return nil, configErrorf("signer returned no signature")
	}

	params := signatureParams{
		{paramKeyID, keyID},
		{paramAlgorithm, algorithm},
		{paramHeaders, strings.Join(headers, " ")},
	}

	if e.nonce != nil {
		params = append(params,
			parameter{paramClientID, e.clientID},
			parameter{paramNonce, strconv.FormatUint(uint64(e.nonce.next()), 10)},
		)
	}

	params = append(params, parameter{paramSignature, base64.StdEncoding.EncodeToString(signature)})

	signed.Header.Set("Authorization", formatAuthorization(params))

	return signed, nil
}

// signedHeaders selects the headers to cover when signing: the required
// headers for the request's method, with date substituted by x-date when
// only X-Date is present, filtered to headers the request actually
// carries.
func (e *Engine) signedHeaders(r *http.Request) []string {
	required := substituteDate(r, e.RequiredHeaders(r.Method))

	selected := make([]string, 0, len(required))
	for _, name := range required {
		if hasHeader(r, name) {
			selected = append(selected, name)
		}
	}

	return selected
}
