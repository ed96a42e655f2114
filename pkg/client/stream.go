package client

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/kadirpekel/agentwire/pkg/a2a"
	"github.com/kadirpekel/agentwire/pkg/jsonrpc"
)

// decodeStream turns a text/event-stream body into a lazy, ordered
// sequence of stream events. Each SSE frame's data payload is one complete
// JSON-RPC response, validated like a single-document response; valid
// results are yielded in arrival order.
//
// The sequence is pull-based: the connection is read only as the consumer
// advances, and breaking out of the range closes the body promptly. The
// sequence ends cleanly at EOF; a read failure ends it with a
// TransportError. Malformed frames are skipped with a logged anomaly.
//
// A status update with a terminal or final-flagged state does not close
// the connection here; the server declares end-of-stream by closing, and
// consumers are expected to stop ranging at a final event.
func (c *Client) decodeStream(resp *http.Response, req *jsonrpc.Request) iter.Seq2[a2a.Event, error] {
	return func(yield func(a2a.Event, error) bool) {
		defer resp.Body.Close()

		// bufio.Reader rather than Scanner: Scanner's 64KB line limit
		// fails on large frames such as inline file artifacts.
		reader := bufio.NewReader(resp.Body)
		var data strings.Builder

		for {
			line, err := reader.ReadBytes('\n')
			if err != nil {
				if errors.Is(err, io.EOF) {
					// An incomplete trailing frame is discarded, per SSE.
					return
				}
				yield(nil, &TransportError{Err: err})
				return
			}

			lineStr := strings.TrimRight(string(line), "\r\n")
			switch {
			case strings.HasPrefix(lineStr, "data:"):
				payload := strings.TrimPrefix(lineStr, "data:")
				payload = strings.TrimPrefix(payload, " ")
				if data.Len() > 0 {
					data.WriteByte('\n')
				}
				data.WriteString(payload)

			case lineStr == "" && data.Len() > 0:
				frame := data.String()
				data.Reset()

				ev, err := c.decodeFrame([]byte(frame), req)
				if err != nil {
					yield(nil, err)
					return
				}
				if ev == nil {
					continue // skipped frame, already logged
				}
				if !yield(ev, nil) {
					return
				}

			default:
				// event:/id: fields and comment lines carry nothing the
				// decoder acts on; the data payload is authoritative.
			}
		}
	}
}

// decodeFrame validates one frame's JSON-RPC envelope and decodes its
// result into an event. A (nil, nil) return means the frame was malformed
// and skipped. A peer-declared error object ends the stream with that
// error.
func (c *Client) decodeFrame(frame []byte, req *jsonrpc.Request) (a2a.Event, error) {
	var rpcResp jsonrpc.Response
	if err := json.Unmarshal(frame, &rpcResp); err != nil {
		c.logFrameAnomaly(frame, err)
		return nil, nil
	}

	// Servers may omit the id on stream-level error frames; an error
	// addressed to this request (or to no request) is surfaced verbatim.
	if rpcResp.Error != nil {
		if rpcResp.ID == nil || jsonrpc.IDEqual(rpcResp.ID, req.ID) {
			return nil, rpcResp.Error
		}
		c.logFrameAnomaly(frame, errors.New("error frame for foreign request id"))
		return nil, nil
	}

	if err := rpcResp.Validate(req.ID); err != nil {
		c.logFrameAnomaly(frame, err)
		return nil, nil
	}

	ev, err := a2a.UnmarshalEvent(rpcResp.Result)
	if err != nil {
		c.logFrameAnomaly(frame, err)
		return nil, nil
	}

	return ev, nil
}

func (c *Client) logFrameAnomaly(frame []byte, err error) {
	c.logger.Warn("skipping malformed stream frame",
		"error", &FrameError{Frame: truncate(frame, 256), Err: err})
}
