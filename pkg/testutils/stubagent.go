// Package testutils provides an in-process A2A JSON-RPC stub server for
// transport wire tests: scripted results, errors, challenge sequences and
// event streams, with request capture for header and envelope assertions.
package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kadirpekel/agentwire/pkg/a2a"
	"github.com/kadirpekel/agentwire/pkg/jsonrpc"
)

// Step reacts to one incoming RPC call. Steps are consumed in order; the
// last step answers all subsequent calls.
type Step func(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request)

// CapturedRequest records one call as seen by the stub.
type CapturedRequest struct {
	Header  http.Header
	Request jsonrpc.Request
}

// StubAgent is a scripted A2A JSON-RPC server.
type StubAgent struct {
	Server *httptest.Server

	mu       sync.Mutex
	steps    []Step
	next     int
	requests []CapturedRequest
	card     *a2a.AgentCard
}

// NewStubAgent starts a stub that answers POST / with the given steps and
// serves an agent card at the well-known path. Callers own shutdown via
// Close.
func NewStubAgent(steps ...Step) *StubAgent {
	s := &StubAgent{steps: steps}

	r := chi.NewRouter()
	r.Post("/", s.handleRPC)
	r.Get(a2a.WellKnownCardPath, s.handleCard)

	s.Server = httptest.NewServer(r)
	return s
}

// Close shuts the stub down.
func (s *StubAgent) Close() {
	s.Server.Close()
}

// URL returns the stub's endpoint URL.
func (s *StubAgent) URL() string {
	return s.Server.URL
}

// SetCard installs the agent card served at the well-known path.
func (s *StubAgent) SetCard(card *a2a.AgentCard) {
	s.mu.Lock()
	s.card = card
	s.mu.Unlock()
}

// Requests returns the calls captured so far, in arrival order.
func (s *StubAgent) Requests() []CapturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *StubAgent) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req jsonrpc.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, CapturedRequest{
		Header:  r.Header.Clone(),
		Request: req,
	})
	var step Step
	if len(s.steps) > 0 {
		idx := s.next
		if idx >= len(s.steps) {
			idx = len(s.steps) - 1
		}
		step = s.steps[idx]
		s.next++
	}
	s.mu.Unlock()

	if step == nil {
		http.Error(w, "no scripted step", http.StatusInternalServerError)
		return
	}

	step(w, r, &req)
}

func (s *StubAgent) handleCard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	card := s.card
	s.mu.Unlock()

	if card == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(card)
}

// ============================================================================
// STEP BUILDERS
// ============================================================================

// RespondResult answers with {jsonrpc, id, result}, echoing the request id.
func RespondResult(result interface{}) Step {
	return func(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request) {
		writeResponse(w, jsonrpc.Response{
			Message: jsonrpc.Message{JSONRPC: jsonrpc.Version, ID: req.ID},
			Result:  mustMarshal(result),
		})
	}
}

// RespondRaw answers with a verbatim JSON body, for malformed-envelope
// scenarios.
func RespondRaw(body string) Step {
	return func(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, body)
	}
}

// RespondError answers with a JSON-RPC error object.
func RespondError(code int, message string) Step {
	return func(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request) {
		writeResponse(w, jsonrpc.Response{
			Message: jsonrpc.Message{JSONRPC: jsonrpc.Version, ID: req.ID},
			Error:   &jsonrpc.Error{Code: code, Message: message},
		})
	}
}

// RespondStatus answers with a bare HTTP status and body.
func RespondStatus(status int, body string) Step {
	return func(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request) {
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}
}

// RespondChallenge answers 401 carrying the challenge both ways peers do:
// in the WWW-Authenticate header and in a JSON body.
func RespondChallenge(scheme, challenge string) Step {
	return func(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request) {
		w.Header().Set("WWW-Authenticate", fmt.Sprintf("%s challenge=%q", scheme, challenge))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"challenge": challenge})
	}
}

// StreamResults streams one SSE frame per result, each wrapped in a
// JSON-RPC response echoing the request id, then closes the connection.
func StreamResults(results ...interface{}) Step {
	return func(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request) {
		frames := make([]string, 0, len(results))
		for _, result := range results {
			resp := jsonrpc.Response{
				Message: jsonrpc.Message{JSONRPC: jsonrpc.Version, ID: req.ID},
				Result:  mustMarshal(result),
			}
			frames = append(frames, string(mustMarshal(resp)))
		}
		streamFrames(w, frames)
	}
}

// StreamRaw streams verbatim data payloads, one SSE frame each. Use it to
// inject malformed frames between valid ones.
func StreamRaw(frames ...string) Step {
	return func(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request) {
		streamFrames(w, frames)
	}
}

// StreamWith streams the data payloads produced by build, which sees the
// decoded request and can echo its id into hand-crafted frames.
func StreamWith(build func(req *jsonrpc.Request) []string) Step {
	return func(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request) {
		streamFrames(w, build(req))
	}
}

// StreamUntilClose streams the same status-update frame on an interval
// until the client disconnects, counting frames into sent. It exercises
// early-termination: after the consumer breaks, the count stops growing.
func StreamUntilClose(interval time.Duration, result interface{}, sent *int64, mu *sync.Mutex) Step {
	return func(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		resp := jsonrpc.Response{
			Message: jsonrpc.Message{JSONRPC: jsonrpc.Version, ID: req.ID},
			Result:  mustMarshal(result),
		}
		frame := string(mustMarshal(resp))

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
				if _, err := fmt.Fprintf(w, "event: message\ndata: %s\n\n", frame); err != nil {
					return
				}
				flusher.Flush()
				mu.Lock()
				*sent++
				mu.Unlock()
			}
		}
	}
}

func streamFrames(w http.ResponseWriter, frames []string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for _, frame := range frames {
		fmt.Fprintf(w, "event: message\ndata: %s\n\n", frame)
		flusher.Flush()
	}
}

func writeResponse(w http.ResponseWriter, resp jsonrpc.Response) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func mustMarshal(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
