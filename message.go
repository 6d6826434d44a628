package httpsignature

import (
	"net/http"
	"strings"
)

// Pseudo-header covering the request method and target.
const requestTargetHeader = "(request-target)"

// Date headers recognized for signing and freshness checks. X-Date takes
// precedence over Date and may stand in for it.
const (
	headerDate  = "date"
	headerXDate = "x-date"
)

// buildMessage constructs the canonical message for the request, covering
// the given headers in the exact order supplied. Each header renders as
// "<name>: <value>", newline-joined without a trailing newline. A header
// absent from the request renders with an empty value.
func buildMessage(r *http.Request, headers []string) []byte {
	var b strings.Builder

	for i, name := range headers {
		if i > 0 {
			b.WriteByte('\n')
		}

		name = strings.ToLower(name)
		b.WriteString(name)
		b.WriteString(": ")

		if name == requestTargetHeader {
			b.WriteString(strings.ToLower(r.Method))
			b.WriteByte(' ')
			b.WriteString(requestTarget(r))
		} else {
			b.WriteString(headerValue(r, name))
		}
	}

	return []byte(b.String())
}

// requestTarget returns the path and query of the request URI, stripped of
// scheme, host, port and user info.
func requestTarget(r *http.Request) string {
	path := r.URL.Path
	if path == "" {
		path = "/"
	}

	target := path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	if r.URL.Fragment != "" {
		target += "#" + r.URL.Fragment
	}

	return target
}

// headerValue returns the request's value for the header. The "host"
// header falls back to Request.Host because net/http keeps it out of the
// header map.
func headerValue(r *http.Request, name string) string {
	value := r.Header.Get(name)

	if value == "" && strings.EqualFold(name, "host") {
		return r.Host
	}

	return value
}

// hasHeader reports whether the request carries the header. The
// pseudo-header "(request-target)" is always present.
func hasHeader(r *http.Request, name string) bool {
	if name == requestTargetHeader {
		return true
	}

	return headerValue(r, name) != ""
}

// substituteDate returns the header list with "date" replaced by "x-date"
// when the request carries X-Date but not Date. The substitution applies
// to both header selection and the rendered canonical line, so the signed
// headers parameter names the header that is actually covered.
func substituteDate(r *http.Request, headers []string) []string {
	if r.Header.Get(headerDate) != "" || r.Header.Get(headerXDate) == "" {
		return headers
	}

	return replaceAll(headers, headerDate, headerXDate)
}

// replaceAll returns a copy of list with every occurrence of old replaced.
// The original list is returned unchanged when old does not occur.
func replaceAll(list []string, old, repl string) []string {
	replaced := list
	copied := false

	for i, item := range list {
		if item != old {
			continue
		}

		if !copied {
			replaced = make([]string, len(list))
			copy(replaced, list)
			copied = true
		}

		replaced[i] = repl
	}

	return replaced
}
