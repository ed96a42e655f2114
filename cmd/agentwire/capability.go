package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/kadirpekel/agentwire/pkg/auth"
	"github.com/kadirpekel/agentwire/pkg/config"
)

// buildCapability maps the auth config onto a credential capability.
// Returns nil for an unauthenticated client.
func buildCapability(cfg config.AuthConfig) (auth.Capability, error) {
	switch cfg.Scheme {
	case "":
		return nil, nil
	case "bearer":
		return &auth.StaticToken{Token: cfg.Token}, nil
	case "apiKey":
		return &auth.APIKey{Key: cfg.APIKey, Header: cfg.Header}, nil
	case "challenge":
		key, err := loadSigningKey(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load signing key: %w", err)
		}

		algorithm := jwa.ES256
		if cfg.Algorithm != "" {
			algorithm = jwa.SignatureAlgorithm(cfg.Algorithm)
		}

		return auth.NewJWTChallenge(cfg.Issuer, key, algorithm), nil
	default:
		return nil, fmt.Errorf("unknown auth scheme %q", cfg.Scheme)
	}
}

// loadSigningKey reads a private key in JWK or PEM form.
func loadSigningKey(path string) (jwk.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if bytes.Contains(data, []byte("-----BEGIN")) {
		return jwk.ParseKey(data, jwk.WithPEM(true))
	}
	return jwk.ParseKey(data)
}
