package httpsignature

import (
	"net/http"
	"strings"
)

// AddChallenges appends one WWW-Authenticate challenge per supported
// algorithm to the response headers, each naming the algorithm and the
// headers required to be signed for the given method:
//
//	WWW-Authenticate: Signature algorithm="hmac-sha256",headers="(request-target) date"
//
// Existing WWW-Authenticate headers are left in place.
func (e *Engine) AddChallenges(method string, header http.Header) {
	headers := strings.Join(e.RequiredHeaders(method), " ")

	for _, algorithm := range e.algorithms {
		challenge := authScheme + " " +
			paramAlgorithm + "=" + quote(algorithm) + "," +
			paramHeaders + "=" + quote(headers)
		header.Add("WWW-Authenticate", challenge)
	}
}
