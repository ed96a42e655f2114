package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

func generateECKeyPair(t *testing.T) (jwk.Key, jwk.Key) {
	t.Helper()

	rawKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key pair: %v", err)
	}

	privateKey, err := jwk.FromRaw(rawKey)
	if err != nil {
		t.Fatalf("Failed to wrap private key: %v", err)
	}

	publicKey, err := jwk.FromRaw(&rawKey.PublicKey)
	if err != nil {
		t.Fatalf("Failed to wrap public key: %v", err)
	}

	return privateKey, publicKey
}
