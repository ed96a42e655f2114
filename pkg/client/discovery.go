package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/kadirpekel/agentwire/pkg/a2a"
)

// AgentCard fetches the agent's card from the well-known location on the
// endpoint's origin (A2A spec Section 5.3). Credential headers are
// attached, but 401 challenges are not retried for discovery.
func (c *Client) AgentCard(ctx context.Context) (*a2a.AgentCard, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, err
	}
	u.Path = a2a.WellKnownCardPath
	u.RawQuery = ""

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	headers, err := c.credentialHeaders(ctx)
	if err != nil {
		return nil, err
	}
	for name, values := range headers {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{Status: resp.StatusCode, Body: body}
	}

	var card a2a.AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, &ProtocolError{Reason: "malformed agent card", Err: err}
	}

	return &card, nil
}
