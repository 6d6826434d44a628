package httpsignature

import "strings"

// Authorization scheme token for signed requests.
const authScheme = "Signature"

// Recognized signature parameter names, in the order they are emitted.
const (
	paramKeyID     = "keyId"
	paramAlgorithm = "algorithm"
	paramHeaders   = "headers"
	paramClientID  = "clientId"
	paramNonce     = "nonce"
	paramSignature = "signature"
)

// parameter is a single key="value" pair from the Authorization header.
type parameter struct {
	key   string
	value string
}

// signatureParams is the ordered parameter list of an Authorization header.
type signatureParams []parameter

// get returns the value for key. Duplicate keys resolve to the last
// occurrence.
func (p signatureParams) get(key string) (string, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].key == key {
			return p[i].value, true
		}
	}

	return "", false
}

// parseAuthorization parses an Authorization header value of the form
// `Signature key="value",key="value"`. The scheme is matched
// case-insensitively and must be followed by a space; any other scheme is
// rejected naming the scheme found.
func parseAuthorization(value string) (signatureParams, error) {
	scheme, rest, found := strings.Cut(value, " ")
	if !strings.EqualFold(scheme, authScheme) {
		return nil, signatureErrorf(ErrWrongScheme, "authorization scheme is %q, not %q", scheme, authScheme)
	}

	if !found {
		return nil, signatureErrorf(ErrMalformedHeader, "authorization header is corrupt")
	}

	params, err := parseParams(rest)
	if err != nil {
		return nil, err
	}

	return params, nil
}

// parseParams scans zero or more comma-separated key="value" pairs. Keys
// are word characters; values may contain any character except an
// unescaped double quote. Anything else is a corrupt header.
func parseParams(s string) (signatureParams, error) {
	var params signatureParams

	s = strings.TrimLeft(s, " ")
	for s != "" {
		key, rest, ok := scanKey(s)
		if !ok {
			return nil, signatureErrorf(ErrMalformedHeader, "authorization header is corrupt")
		}

		value, rest, ok := scanQuoted(rest)
		if !ok {
			return nil, signatureErrorf(ErrMalformedHeader, "authorization header is corrupt")
		}

		params = append(params, parameter{key: key, value: value})

		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			break
		}

		if rest[0] != ',' {
			return nil, signatureErrorf(ErrMalformedHeader, "authorization header is corrupt")
		}

		s = strings.TrimLeft(rest[1:], " ")
		if s == "" {
			// Trailing comma without a pair.
			return nil, signatureErrorf(ErrMalformedHeader, "authorization header is corrupt")
		}
	}

	return params, nil
}

// scanKey consumes a parameter key and the following '='. Keys consist of
// word characters (letters, digits, underscore).
func scanKey(s string) (string, string, bool) {
	i := 0
	for i < len(s) && isWordChar(s[i]) {
		i++
	}

	if i == 0 || i >= len(s) || s[i] != '=' {
		return "", "", false
	}

	return s[:i], s[i+1:], true
}

// scanQuoted consumes a double-quoted value, resolving backslash escapes.
func scanQuoted(s string) (string, string, bool) {
	if s == "" || s[0] != '"' {
		return "", "", false
	}

	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return "", "", false
			}

			i++
			b.WriteByte(s[i])

		case '"':
			return b.String(), s[i+1:], true

		default:
			b.WriteByte(s[i])
		}
	}

	// Unterminated quote.
	return "", "", false
}

func isWordChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '_'
}

// formatAuthorization serializes parameters into an Authorization header
// value.
func formatAuthorization(params signatureParams) string {
	var b strings.Builder
	b.WriteString(authScheme)
	b.WriteByte(' ')

	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(quote(p.value))
	}

	return b.String()
}

// quote renders a parameter value as a double-quoted string. Only quote
// and backslash are escaped; all other bytes pass through verbatim.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == '"' {
			b.WriteByte('\\')
		}

		b.WriteByte(s[i])
	}

	b.WriteByte('"')

	return b.String()
}
