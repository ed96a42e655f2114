package client

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"

	"github.com/kadirpekel/agentwire/pkg/a2a"
	"github.com/kadirpekel/agentwire/pkg/jsonrpc"
)

// ============================================================================
// CLIENT FACADE - single-response and subscription entry points
// ============================================================================

// Send issues a single-response call and returns the raw JSON-RPC result.
// The result may be JSON null for methods whose result is optional. Errors
// are propagated untranslated: *TransportError, *HTTPError,
// *ProtocolError, or the peer's *jsonrpc.Error.
func (c *Client) Send(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	req, err := jsonrpc.NewRequest(method, params)
	if err != nil {
		return nil, err
	}

	resp, err := c.dispatch(ctx, req, contentTypeJSON)
	if err != nil {
		return nil, err
	}

	return resolve(resp, req)
}

// SendAndSubscribe issues a subscription call and returns the lazy event
// sequence. Dispatch happens on first pull; any failure (including a
// single-document error response from the peer) is yielded as the first
// and only element. The sequence is not restartable: re-subscribing
// requires a new call.
func (c *Client) SendAndSubscribe(ctx context.Context, params a2a.MessageSendParams) iter.Seq2[a2a.Event, error] {
	return c.subscribe(ctx, a2a.MethodMessageStream, params)
}

// Resubscribe resumes the event stream of an existing task.
func (c *Client) Resubscribe(ctx context.Context, params a2a.TaskResubscribeParams) iter.Seq2[a2a.Event, error] {
	return c.subscribe(ctx, a2a.MethodTasksResubscribe, params)
}

func (c *Client) subscribe(ctx context.Context, method string, params interface{}) iter.Seq2[a2a.Event, error] {
	return func(yield func(a2a.Event, error) bool) {
		req, err := jsonrpc.NewRequest(method, params)
		if err != nil {
			yield(nil, err)
			return
		}

		resp, err := c.dispatch(ctx, req, contentTypeEventStream)
		if err != nil {
			yield(nil, err)
			return
		}

		switch mediaType := responseMediaType(resp); mediaType {
		case contentTypeEventStream:
			for ev, err := range c.decodeStream(resp, req) {
				if !yield(ev, err) {
					return
				}
			}
		case contentTypeJSON:
			// Peer declined to stream; a JSON-RPC error object in the
			// single document is surfaced verbatim.
			if _, rerr := resolve(resp, req); rerr != nil {
				yield(nil, rerr)
				return
			}
			yield(nil, &ProtocolError{Reason: "expected event stream, got a single document"})
		default:
			resp.Body.Close()
			yield(nil, &ProtocolError{Reason: "unexpected content type " + mediaType})
		}
	}
}

// ============================================================================
// TYPED METHOD HELPERS
// ============================================================================

// SendMessage sends a message via message/send and returns the resulting
// task object, or nil when the peer answers with a null result.
func (c *Client) SendMessage(ctx context.Context, params a2a.MessageSendParams) (*a2a.Task, error) {
	result, err := c.Send(ctx, a2a.MethodMessageSend, params)
	if err != nil {
		return nil, err
	}
	if isNull(result) {
		return nil, nil
	}
	return unmarshalTask(result)
}

// SendText is a convenience wrapper sending a single user text message.
func (c *Client) SendText(ctx context.Context, text string) (*a2a.Task, error) {
	return c.SendMessage(ctx, a2a.MessageSendParams{
		Message: a2a.NewUserMessage(text),
	})
}

// GetTask fetches the current state of a task via tasks/get.
func (c *Client) GetTask(ctx context.Context, params a2a.TaskQueryParams) (*a2a.Task, error) {
	result, err := c.Send(ctx, a2a.MethodTasksGet, params)
	if err != nil {
		return nil, err
	}
	if isNull(result) {
		return nil, nil
	}
	return unmarshalTask(result)
}

// CancelTask requests cancellation via tasks/cancel and returns the task
// in its post-cancellation state.
func (c *Client) CancelTask(ctx context.Context, params a2a.TaskIDParams) (*a2a.Task, error) {
	result, err := c.Send(ctx, a2a.MethodTasksCancel, params)
	if err != nil {
		return nil, err
	}
	if isNull(result) {
		return nil, nil
	}
	return unmarshalTask(result)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
