// Package auth provides the credential capability consumed by the A2A
// transport, plus bundled implementations for the common schemes.
//
// The transport never inspects credential internals: it asks a Capability
// for the current headers before each call, forwards 401 challenges to it
// verbatim, and persists whatever headers the capability derives. All
// authentication state lives behind this interface.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/kadirpekel/agentwire/pkg/jsonrpc"
)

// ErrNoRetry is returned by Refresh when the capability declines to answer
// a challenge. The transport then surfaces the original 401 as a terminal
// HTTP error.
var ErrNoRetry = errors.New("auth: challenge not answerable")

// Capability supplies credential headers for outgoing calls and answers
// authentication challenges. Implementations must allow concurrent Headers
// calls; Persist is the only mutation point and may race with readers.
type Capability interface {
	// Headers returns the current credential headers to attach to a call.
	// A nil or empty header set is valid (unauthenticated until challenged).
	Headers(ctx context.Context) (http.Header, error)

	// Refresh interprets a 401 challenge response and derives new
	// credential headers for a single retry of req. The response body is
	// readable. Returning ErrNoRetry declines the retry.
	Refresh(ctx context.Context, req *jsonrpc.Request, resp *http.Response) (http.Header, error)

	// Persist records headers derived by a successful Refresh so that
	// subsequent calls reuse them without re-deriving.
	Persist(headers http.Header)
}

// cloneHeader copies a header set so callers can mutate their view freely.
func cloneHeader(h http.Header) http.Header {
	if h == nil {
		return http.Header{}
	}
	return h.Clone()
}
