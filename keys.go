package httpsignature

import (
	"crypto"
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
)

// Algorithm identifiers implemented by KeyStore.
const (
	AlgorithmHMACSHA256 = "hmac-sha256"
	AlgorithmRSASHA256  = "rsa-sha256"
	AlgorithmEd25519    = "ed25519"
)

// Minimum RSA key size in bits.
const minRSAKeyBits = 2048

// keyEntry holds the key material registered for one key ID. Exactly one
// of the fields is set per entry kind.
type keyEntry struct {
	secret  []byte
	rsaPriv *rsa.PrivateKey
	rsaPub  *rsa.PublicKey
	edPriv  ed25519.PrivateKey
	edPub   ed25519.PublicKey
}

// KeyStore is an in-memory Signer and Verifier over registered keys. It
// implements hmac-sha256, rsa-sha256 and ed25519 using the standard
// library crypto packages, with constant-time HMAC comparison.
//
// Register all keys before sharing the store across goroutines; lookups
// are read-only and safe for concurrent use.
type KeyStore struct {
	entries map[string]keyEntry
}

// NewKeyStore creates an empty KeyStore.
func NewKeyStore() *KeyStore {
	return &KeyStore{entries: make(map[string]keyEntry)}
}

// AddHMACKey registers a shared secret for hmac-sha256.
func (ks *KeyStore) AddHMACKey(keyID string, secret []byte) error {
	if len(secret) == 0 {
		return configErrorf("hmac secret must not be empty")
	}

	ks.entries[keyID] = keyEntry{secret: secret}

	return nil
}

// AddRSAKey registers an RSA key pair for rsa-sha256. The private key may
// be nil for a verify-only entry; its public key is used when pub is nil.
func (ks *KeyStore) AddRSAKey(keyID string, priv *rsa.PrivateKey, pub *rsa.PublicKey) error {
	if pub == nil && priv != nil {
		pub = &priv.PublicKey
	}

	if pub == nil {
		return configErrorf("rsa key pair must not be empty")
	}

	if pub.N.BitLen() < minRSAKeyBits {
		return configErrorf("rsa key must be at least %d bits", minRSAKeyBits)
	}

	ks.entries[keyID] = keyEntry{rsaPriv: priv, rsaPub: pub}

	return nil
}

// AddEd25519Key registers an Ed25519 key pair. The private key may be nil
// for a verify-only entry; its public key is derived when pub is nil.
func (ks *KeyStore) AddEd25519Key(keyID string, priv ed25519.PrivateKey, pub ed25519.PublicKey) error {
	if priv != nil && len(priv) != ed25519.PrivateKeySize {
		return configErrorf("ed25519 private key must be %d bytes", ed25519.PrivateKeySize)
	}

	if pub == nil && priv != nil {
		pub = priv.Public().(ed25519.PublicKey)
	}

	if len(pub) != ed25519.PublicKeySize {
		return configErrorf("ed25519 public key must be %d bytes", ed25519.PublicKeySize)
	}

	ks.entries[keyID] = keyEntry{edPriv: priv, edPub: pub}

	return nil
}

// Sign signs the message with the key registered under keyID. Unknown
// keys and algorithm mismatches fail.
func (ks *KeyStore) Sign(message []byte, keyID, algorithm string) ([]byte, error) {
	entry, ok := ks.entries[keyID]
	if !ok {
		return nil, signatureErrorf(ErrUnknownKey, "unknown key %q", keyID)
	}

	switch algorithm {
	case AlgorithmHMACSHA256:
		if entry.secret == nil {
			return nil, signatureErrorf(ErrUnknownKey, "key %q is not an hmac key", keyID)
		}

		mac := hmac.New(sha256.New, entry.secret)
		mac.Write(message)

		return mac.Sum(nil), nil

	case AlgorithmRSASHA256:
		if entry.rsaPriv == nil {
			return nil, signatureErrorf(ErrUnknownKey, "key %q has no rsa private key", keyID)
		}

		digest := sha256.Sum256(message)

		return rsa.SignPKCS1v15(rand.Reader, entry.rsaPriv, crypto.SHA256, digest[:])

	case AlgorithmEd25519:
		if entry.edPriv == nil {
			return nil, signatureErrorf(ErrUnknownKey, "key %q has no ed25519 private key", keyID)
		}

		return ed25519.Sign(entry.edPriv, message), nil

	default:
		return nil, signatureErrorf(ErrUnsupportedAlgorithm, "algorithm %q is not supported", algorithm)
	}
}

// Verify checks the signature with the key registered under keyID. It
// returns false, never an error, for unknown keys, algorithm mismatches
// and invalid signatures.
func (ks *KeyStore) Verify(message, signature []byte, keyID, algorithm string) (bool, error) {
	entry, ok := ks.entries[keyID]
	if !ok {
		return false, nil
	}

	switch algorithm {
	case AlgorithmHMACSHA256:
		if entry.secret == nil {
			return false, nil
		}

		mac := hmac.New(sha256.New, entry.secret)
		mac.Write(message)

		return hmac.Equal(mac.Sum(nil), signature), nil

	case AlgorithmRSASHA256:
		if entry.rsaPub == nil {
			return false, nil
		}

		digest := sha256.Sum256(message)

		return rsa.VerifyPKCS1v15(entry.rsaPub, crypto.SHA256, digest[:], signature) == nil, nil

	case AlgorithmEd25519:
		if entry.edPub == nil {
			return false, nil
		}

		return ed25519.Verify(entry.edPub, message, signature), nil

	default:
		return false, nil
	}
}
