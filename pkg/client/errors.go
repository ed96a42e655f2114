package client

import (
	"fmt"
)

// The transport distinguishes four terminal failure classes, plus the
// recoverable per-frame stream error. JSON-RPC errors from the peer are
// surfaced as *jsonrpc.Error, untranslated.

// TransportError reports a network-level failure: no HTTP response was
// obtained. Never retried by the transport.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError reports a non-success HTTP status, including a 401 that no
// capability answered. The raw body is carried for diagnostics.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("server returned HTTP %d: %s", e.Status, truncate(e.Body, 512))
	}
	return fmt.Sprintf("server returned HTTP %d", e.Status)
}

// ProtocolError reports a malformed or non-compliant peer response:
// unexpected content type, bad envelope, version or correlation-id
// mismatch, or a response with neither result nor error.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("protocol error: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// FrameError reports one malformed frame inside an otherwise healthy
// stream. The decoder recovers by skipping the frame; FrameError reaches
// callers only through the log.
type FrameError struct {
	Frame string
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("malformed stream frame: %v", e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
