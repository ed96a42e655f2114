package client

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/kadirpekel/agentwire/pkg/jsonrpc"
)

// resolve extracts the JSON-RPC result from a single-document response.
// The envelope is validated against the originating request: version
// constant, correlation-id echo, and the result/error rule. A peer error
// object is returned verbatim as *jsonrpc.Error.
func resolve(resp *http.Response, req *jsonrpc.Request) (json.RawMessage, error) {
	defer resp.Body.Close()

	mediaType := responseMediaType(resp)
	if mediaType != contentTypeJSON {
		return nil, &ProtocolError{Reason: "unexpected content type " + mediaType}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	var rpcResp jsonrpc.Response
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, &ProtocolError{Reason: "malformed response envelope", Err: err}
	}

	if err := rpcResp.Validate(req.ID); err != nil {
		return nil, &ProtocolError{Reason: "invalid response envelope", Err: err}
	}

	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	return rpcResp.Result, nil
}

// responseMediaType parses the Content-Type header down to its media type,
// tolerating charset and boundary parameters. Absent or unparsable headers
// come back empty, which resolve treats as non-compliant.
func responseMediaType(resp *http.Response) string {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return mediaType
}
