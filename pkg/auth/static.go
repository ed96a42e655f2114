package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kadirpekel/agentwire/pkg/jsonrpc"
)

// DefaultAPIKeyHeader is used when an APIKey capability does not name a
// header.
const DefaultAPIKeyHeader = "X-API-Key"

// ============================================================================
// STATIC CREDENTIAL CAPABILITIES
// Fixed credentials that never answer challenges
// ============================================================================

// StaticToken is a bearer-token capability. It never retries a challenge:
// if a static token is rejected there is nothing new to derive.
type StaticToken struct {
	Token string
}

func (s *StaticToken) Headers(ctx context.Context) (http.Header, error) {
	h := http.Header{}
	if s.Token != "" {
		h.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
	}
	return h, nil
}

func (s *StaticToken) Refresh(ctx context.Context, req *jsonrpc.Request, resp *http.Response) (http.Header, error) {
	return nil, ErrNoRetry
}

func (s *StaticToken) Persist(headers http.Header) {}

// APIKey is a header-based API key capability.
type APIKey struct {
	Key    string
	Header string // defaults to DefaultAPIKeyHeader
}

func (a *APIKey) Headers(ctx context.Context) (http.Header, error) {
	h := http.Header{}
	if a.Key != "" {
		name := a.Header
		if name == "" {
			name = DefaultAPIKeyHeader
		}
		h.Set(name, a.Key)
	}
	return h, nil
}

func (a *APIKey) Refresh(ctx context.Context, req *jsonrpc.Request, resp *http.Response) (http.Header, error) {
	return nil, ErrNoRetry
}

func (a *APIKey) Persist(headers http.Header) {}
