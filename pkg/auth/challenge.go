package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/kadirpekel/agentwire/pkg/jsonrpc"
)

// DefaultChallengeScheme is the Authorization scheme used for signed
// challenge tokens.
const DefaultChallengeScheme = "Agentic"

const (
	challengeClaim   = "challenge"
	maxChallengeBody = 64 * 1024
)

// JWTChallenge answers 401 challenges by minting a JWT over the challenge
// value with a local signing key. Peers carry the challenge either in the
// WWW-Authenticate header or in a JSON body; both variants are accepted,
// keeping the transport itself agnostic to the challenge format.
//
// Derived headers are cached and reused across calls until a future 401
// forces a new challenge round.
type JWTChallenge struct {
	scheme    string
	issuer    string
	key       jwk.Key
	algorithm jwa.SignatureAlgorithm
	ttl       time.Duration
	cache     *TokenCache

	// now is swapped in tests
	now func() time.Time
}

// JWTChallengeOption customizes a JWTChallenge capability.
type JWTChallengeOption func(*JWTChallenge)

// WithScheme overrides the Authorization scheme (default "Agentic").
func WithScheme(scheme string) JWTChallengeOption {
	return func(c *JWTChallenge) { c.scheme = scheme }
}

// WithTokenTTL overrides the lifetime of minted tokens (default 5m).
func WithTokenTTL(ttl time.Duration) JWTChallengeOption {
	return func(c *JWTChallenge) { c.ttl = ttl }
}

// NewJWTChallenge creates a challenge-response capability. The issuer
// identifies this client to the peer (typically an agent identifier); key
// and algorithm sign the challenge token.
func NewJWTChallenge(issuer string, key jwk.Key, algorithm jwa.SignatureAlgorithm, opts ...JWTChallengeOption) *JWTChallenge {
	c := &JWTChallenge{
		scheme:    DefaultChallengeScheme,
		issuer:    issuer,
		key:       key,
		algorithm: algorithm,
		ttl:       5 * time.Minute,
		cache:     NewTokenCache(nil),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *JWTChallenge) Headers(ctx context.Context) (http.Header, error) {
	return c.cache.Get(), nil
}

func (c *JWTChallenge) Refresh(ctx context.Context, req *jsonrpc.Request, resp *http.Response) (http.Header, error) {
	challenge, err := extractChallenge(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRetry, err)
	}

	token, err := c.mint(challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to sign challenge token: %w", err)
	}

	h := http.Header{}
	h.Set("Authorization", fmt.Sprintf("%s %s", c.scheme, token))
	return h, nil
}

func (c *JWTChallenge) Persist(headers http.Header) {
	c.cache.Set(headers)
}

func (c *JWTChallenge) mint(challenge string) (string, error) {
	now := c.now()

	token := jwt.New()
	if err := token.Set(jwt.IssuerKey, c.issuer); err != nil {
		return "", err
	}
	if err := token.Set(jwt.IssuedAtKey, now); err != nil {
		return "", err
	}
	if err := token.Set(jwt.ExpirationKey, now.Add(c.ttl)); err != nil {
		return "", err
	}
	if err := token.Set(challengeClaim, challenge); err != nil {
		return "", err
	}

	signed, err := jwt.Sign(token, jwt.WithKey(c.algorithm, c.key))
	if err != nil {
		return "", err
	}

	return string(signed), nil
}

// extractChallenge pulls the opaque challenge value out of a 401 response.
// Header form: WWW-Authenticate: <scheme> challenge="...". Body form: a
// JSON document with a top-level "challenge" member, string or object.
func extractChallenge(resp *http.Response) (string, error) {
	if v := resp.Header.Get("WWW-Authenticate"); v != "" {
		if challenge, ok := parseChallengeParam(v); ok {
			return challenge, nil
		}
	}

	if resp.Body != nil {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxChallengeBody))
		if err != nil {
			return "", fmt.Errorf("failed to read challenge body: %w", err)
		}

		var payload struct {
			Challenge json.RawMessage `json:"challenge"`
		}
		if err := json.Unmarshal(body, &payload); err == nil && payload.Challenge != nil {
			var s string
			if err := json.Unmarshal(payload.Challenge, &s); err == nil {
				return s, nil
			}
			// Structured challenge: carry the compact JSON verbatim.
			return string(payload.Challenge), nil
		}
	}

	return "", fmt.Errorf("response carries no recognizable challenge")
}

func parseChallengeParam(header string) (string, bool) {
	const param = "challenge="
	idx := strings.Index(header, param)
	if idx < 0 {
		return "", false
	}

	rest := header[idx+len(param):]
	if strings.HasPrefix(rest, `"`) {
		end := strings.Index(rest[1:], `"`)
		if end < 0 {
			return "", false
		}
		return rest[1 : end+1], true
	}

	if end := strings.IndexAny(rest, ", "); end >= 0 {
		rest = rest[:end]
	}
	return rest, rest != ""
}
