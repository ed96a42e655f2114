package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kadirpekel/agentwire/pkg/auth"
	"github.com/kadirpekel/agentwire/pkg/jsonrpc"
)

// maxErrorBody bounds how much of a failed response is buffered for
// diagnostics and challenge interpretation.
const maxErrorBody = 256 * 1024

// dispatch serializes req, issues the HTTP POST with the current
// credential headers, and runs the 401 challenge protocol: if the
// capability derives new headers from the challenge, they are persisted
// and the identical request is replayed exactly once. The returned
// response has a 2xx status; every other outcome is a typed error.
func (c *Client) dispatch(ctx context.Context, req *jsonrpc.Request, accept string) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers, err := c.credentialHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain credential headers: %w", err)
	}

	resp, err := c.post(ctx, body, accept, headers)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	if resp.StatusCode == http.StatusUnauthorized && c.capability != nil {
		return c.retryWithChallenge(ctx, req, resp, body, accept)
	}

	return nil, drainToHTTPError(resp)
}

// retryWithChallenge forwards the 401 to the capability and, if it answers,
// replays the call once with the derived headers. The second response is
// final either way: a repeated 401 is a terminal HTTP error.
func (c *Client) retryWithChallenge(ctx context.Context, req *jsonrpc.Request, challenge *http.Response, body []byte, accept string) (*http.Response, error) {
	// Re-buffer the challenge body so the capability can read it.
	raw, _ := io.ReadAll(io.LimitReader(challenge.Body, maxErrorBody))
	challenge.Body.Close()
	challenge.Body = io.NopCloser(bytes.NewReader(raw))

	newHeaders, err := c.capability.Refresh(ctx, req, challenge)
	if err != nil {
		if errors.Is(err, auth.ErrNoRetry) {
			return nil, &HTTPError{Status: challenge.StatusCode, Body: raw}
		}
		return nil, fmt.Errorf("challenge refresh failed: %w", err)
	}

	// Persist before the replay so concurrent calls pick the headers up
	// even if the replay itself fails.
	c.capability.Persist(newHeaders)

	resp, err := c.post(ctx, body, accept, newHeaders)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	return nil, drainToHTTPError(resp)
}

// post issues one HTTP attempt. Network-level failure surfaces as a
// TransportError, distinct from any status-carrying failure.
func (c *Client) post(ctx context.Context, body []byte, accept string, credentials http.Header) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for name, values := range credentials {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	return resp, nil
}

func (c *Client) credentialHeaders(ctx context.Context) (http.Header, error) {
	if c.capability == nil {
		return nil, nil
	}
	return c.capability.Headers(ctx)
}

func drainToHTTPError(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &HTTPError{Status: resp.StatusCode, Body: body}
}
