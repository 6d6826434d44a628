package httpsignature

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineVerify(t *testing.T) {
	t.Run("round trip returns the key id", func(t *testing.T) {
		engine := newHMACEngine(t)
		engine, err := engine.WithRequiredHeaders("default", []string{"(request-target)", "date"})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "http://example.com/foos?a=1", nil)

		signed, err := engine.Sign(req, "test-key", "")
		require.NoError(t, err)

		keyID, err := engine.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, "test-key", keyID)
	})

	t.Run("no authorization header", func(t *testing.T) {
		engine := newHMACEngine(t)

		req := httptest.NewRequest("GET", "http://example.com/", nil)

		_, err := engine.Verify(req)
		require.Error(t, err)

		var sigErr *SignatureError
		assert.ErrorAs(t, err, &sigErr)
	})

	t.Run("wrong scheme names the scheme found", func(t *testing.T) {
		engine := newHMACEngine(t)

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		_, err := engine.Verify(req)
		assert.ErrorContains(t, err, `"Basic"`)
	})

	t.Run("corrupt header", func(t *testing.T) {
		engine := newHMACEngine(t)

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("Authorization", "Signature not-well-formed")

		_, err := engine.Verify(req)
		assert.ErrorContains(t, err, "corrupt")
	})

	t.Run("missing parameters are named", func(t *testing.T) {
		engine := newHMACEngine(t)

		tests := []struct {
			name  string
			value string
		}{
			{"keyId", `Signature algorithm="hmac-sha256",headers="date",signature="c2ln"`},
			{"algorithm", `Signature keyId="test-key",headers="date",signature="c2ln"`},
			{"headers", `Signature keyId="test-key",algorithm="hmac-sha256",signature="c2ln"`},
			{"signature", `Signature keyId="test-key",algorithm="hmac-sha256",headers="date"`},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				req := httptest.NewRequest("GET", "http://example.com/", nil)
				req.Header.Set("Authorization", tc.value)

				_, err := engine.Verify(req)
				assert.ErrorContains(t, err, tc.name)
			})
		}
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		engine := newHMACEngine(t)

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("Authorization", `Signature keyId="test-key",algorithm="rsa-sha256",headers="date",signature="c2ln"`)

		_, err := engine.Verify(req)
		assert.ErrorContains(t, err, `"rsa-sha256"`)
	})

	t.Run("missing required header, singular", func(t *testing.T) {
		engine := newHMACEngine(t)
		engine, err := engine.WithRequiredHeaders("default", []string{"date", "digest"})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("Date", time.Now().UTC().Format(time.RFC1123Z))
		req.Header.Set("Authorization", `Signature keyId="test-key",algorithm="hmac-sha256",headers="date",signature="c2ln"`)

		_, err = engine.Verify(req)
		assert.EqualError(t, err, "digest is not part of signature")
	})

	t.Run("missing required headers, plural", func(t *testing.T) {
		engine := newHMACEngine(t)
		engine, err := engine.WithRequiredHeaders("default", []string{"date", "digest", "content-length"})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("Date", time.Now().UTC().Format(time.RFC1123Z))
		req.Header.Set("Authorization", `Signature keyId="test-key",algorithm="hmac-sha256",headers="date",signature="c2ln"`)

		_, err = engine.Verify(req)
		assert.EqualError(t, err, "digest, content-length are not part of signature")
	})

	t.Run("x-date satisfies a date requirement", func(t *testing.T) {
		engine := newHMACEngine(t)
		engine, err := engine.WithRequiredHeaders("default", []string{"(request-target)", "date"})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "http://example.com/foos", nil)
		req.Header.Set("X-Date", time.Now().UTC().Format(time.RFC1123Z))

		signed, err := engine.Sign(req, "test-key", "")
		require.NoError(t, err)
		assert.Contains(t, signed.Header.Get("Authorization"), `headers="(request-target) x-date"`)

		keyID, err := engine.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, "test-key", keyID)
	})

	t.Run("invalid base64 signature", func(t *testing.T) {
		engine := newHMACEngine(t)

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("Date", time.Now().UTC().Format(time.RFC1123Z))
		req.Header.Set("Authorization", `Signature keyId="test-key",algorithm="hmac-sha256",headers="date",signature="not base64!!"`)

		_, err := engine.Verify(req)
		assert.ErrorContains(t, err, "base64")
	})

	t.Run("tampered request fails with invalid signature", func(t *testing.T) {
		engine := newHMACEngine(t)
		engine, err := engine.WithRequiredHeaders("default", []string{"(request-target)", "date"})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "http://example.com/foos", nil)

		signed, err := engine.Sign(req, "test-key", "")
		require.NoError(t, err)

		signed.URL.Path = "/bars"

		_, err = engine.Verify(signed)
		assert.EqualError(t, err, "invalid signature")
	})

	t.Run("unknown key fails with invalid signature", func(t *testing.T) {
		engine := newHMACEngine(t)

		req := httptest.NewRequest("GET", "http://example.com/", nil)

		signed, err := engine.Sign(req, "test-key", "")
		require.NoError(t, err)

		auth := signed.Header.Get("Authorization")
		signed.Header.Set("Authorization", replaceKeyID(t, auth, "other-key"))

		_, err = engine.Verify(signed)
		assert.EqualError(t, err, "invalid signature")
	})

	t.Run("verifier error propagates", func(t *testing.T) {
		verifier := VerifierFunc(func([]byte, []byte, string, string) (bool, error) {
			return false, assert.AnError
		})

		engine, err := New([]string{AlgorithmHMACSHA256}, nil, verifier)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("Date", time.Now().UTC().Format(time.RFC1123Z))
		req.Header.Set("Authorization", `Signature keyId="test-key",algorithm="hmac-sha256",headers="date",signature="c2ln"`)

		_, err = engine.Verify(req)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

// replaceKeyID rewrites the keyId parameter of an authorization header.
func replaceKeyID(t *testing.T, auth, keyID string) string {
	t.Helper()

	params, err := parseAuthorization(auth)
	require.NoError(t, err)

	for i := range params {
		if params[i].key == paramKeyID {
			params[i].value = keyID
		}
	}

	return formatAuthorization(params)
}

func TestEngineVerifyClockSkew(t *testing.T) {
	signedAt := func(t *testing.T, engine *Engine, offset time.Duration) *http.Request {
		t.Helper()

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("Date", time.Now().Add(offset).UTC().Format(time.RFC1123Z))

		signed, err := engine.Sign(req, "test-key", "")
		require.NoError(t, err)

		return signed
	}

	t.Run("date within skew passes", func(t *testing.T) {
		engine := newHMACEngine(t)

		_, err := engine.Verify(signedAt(t, engine, -25*time.Second))
		assert.NoError(t, err)
	})

	t.Run("future date within skew passes", func(t *testing.T) {
		engine := newHMACEngine(t)

		_, err := engine.Verify(signedAt(t, engine, 25*time.Second))
		assert.NoError(t, err)
	})

	t.Run("date at the skew boundary passes", func(t *testing.T) {
		engine := newHMACEngine(t)

		_, err := engine.Verify(signedAt(t, engine, -DefaultClockSkew))
		assert.NoError(t, err)
	})

	t.Run("date beyond the skew fails", func(t *testing.T) {
		engine := newHMACEngine(t)

		_, err := engine.Verify(signedAt(t, engine, -DefaultClockSkew-2*time.Second))
		assert.ErrorContains(t, err, "clock skew")
	})

	t.Run("future date beyond the skew fails", func(t *testing.T) {
		engine := newHMACEngine(t)

		_, err := engine.Verify(signedAt(t, engine, DefaultClockSkew+2*time.Second))
		assert.ErrorContains(t, err, "clock skew")
	})

	t.Run("narrowed skew is enforced", func(t *testing.T) {
		engine := newHMACEngine(t).WithClockSkew(10 * time.Second)

		_, err := engine.Verify(signedAt(t, engine, -30*time.Second))
		assert.ErrorContains(t, err, "10s clock skew")
	})

	t.Run("x-date takes precedence over date", func(t *testing.T) {
		engine := newHMACEngine(t)

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("Date", time.Now().UTC().Format(time.RFC1123Z))
		req.Header.Set("X-Date", time.Now().Add(-time.Hour).UTC().Format(time.RFC1123Z))

		signed, err := engine.Sign(req, "test-key", "")
		require.NoError(t, err)

		_, err = engine.Verify(signed)
		assert.ErrorContains(t, err, "clock skew")
	})

	t.Run("unparseable date fails", func(t *testing.T) {
		engine := newHMACEngine(t)

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("Date", "not a date")
		req.Header.Set("Authorization", `Signature keyId="test-key",algorithm="hmac-sha256",headers="date",signature="c2ln"`)

		_, err := engine.Verify(req)
		assert.ErrorContains(t, err, "not a valid date")
	})

	t.Run("gmt formatted date is accepted", func(t *testing.T) {
		engine := newHMACEngine(t)

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))

		signed, err := engine.Sign(req, "test-key", "")
		require.NoError(t, err)

		_, err = engine.Verify(signed)
		assert.NoError(t, err)
	})
}
