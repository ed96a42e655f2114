package client

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/kadirpekel/agentwire/pkg/a2a"
	"github.com/kadirpekel/agentwire/pkg/auth"
	"github.com/kadirpekel/agentwire/pkg/jsonrpc"
	"github.com/kadirpekel/agentwire/pkg/testutils"
)

// fakeCapability scripts the challenge protocol and records the order of
// calls made against it.
type fakeCapability struct {
	mu      sync.Mutex
	calls   []string
	headers http.Header
	refresh func(resp *http.Response) (http.Header, error)
}

func (f *fakeCapability) Headers(ctx context.Context) (http.Header, error) {
	f.record("headers")
	return f.headers.Clone(), nil
}

func (f *fakeCapability) Refresh(ctx context.Context, req *jsonrpc.Request, resp *http.Response) (http.Header, error) {
	f.record("refresh")
	if f.refresh == nil {
		return nil, auth.ErrNoRetry
	}
	return f.refresh(resp)
}

func (f *fakeCapability) Persist(headers http.Header) {
	f.record("persist")
	f.mu.Lock()
	f.headers = headers.Clone()
	f.mu.Unlock()
}

func (f *fakeCapability) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeCapability) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func answeredHeader(value string) func(*http.Response) (http.Header, error) {
	return func(*http.Response) (http.Header, error) {
		h := http.Header{}
		h.Set("Authorization", value)
		return h, nil
	}
}

func TestDispatch_ChallengeRetry(t *testing.T) {
	task := a2a.Task{ID: "task-1", Status: a2a.TaskStatus{State: a2a.TaskStateCompleted}}
	stub := testutils.NewStubAgent(
		testutils.RespondChallenge("Agentic", "nonce-1"),
		testutils.RespondResult(task),
	)
	defer stub.Close()

	capability := &fakeCapability{
		headers: http.Header{},
		refresh: answeredHeader("Agentic derived-token"),
	}
	c := newTestClient(t, stub, WithCapability(capability))

	got, err := c.SendText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("SendText failed: %v", err)
	}
	if got.ID != "task-1" {
		t.Errorf("Expected task from the replay, got %+v", got)
	}

	requests := stub.Requests()
	if len(requests) != 2 {
		t.Fatalf("Expected exactly 2 requests, got %d", len(requests))
	}

	// The replay is byte-identical: same id, same method.
	if !jsonrpc.IDEqual(requests[0].Request.ID, requests[1].Request.ID) {
		t.Error("Replay must reuse the original correlation id")
	}
	if requests[1].Request.Method != requests[0].Request.Method {
		t.Error("Replay must reuse the original method")
	}

	// Only the replay carries the derived credentials.
	if authz := requests[0].Header.Get("Authorization"); authz != "" {
		t.Errorf("First attempt should be unauthenticated, got %q", authz)
	}
	if authz := requests[1].Header.Get("Authorization"); authz != "Agentic derived-token" {
		t.Errorf("Replay should carry derived credentials, got %q", authz)
	}

	// Persist happens exactly once, after refresh.
	log := capability.callLog()
	want := []string{"headers", "refresh", "persist"}
	if len(log) != len(want) {
		t.Fatalf("Expected call log %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("Expected call log %v, got %v", want, log)
		}
	}

	// Subsequent calls reuse the persisted credentials without a new round.
	if got := capability.headers.Get("Authorization"); got != "Agentic derived-token" {
		t.Errorf("Expected derived credentials persisted, got %q", got)
	}
}

func TestDispatch_SecondUnauthorizedIsTerminal(t *testing.T) {
	stub := testutils.NewStubAgent(
		testutils.RespondChallenge("Agentic", "nonce-1"),
		testutils.RespondChallenge("Agentic", "nonce-2"),
	)
	defer stub.Close()

	capability := &fakeCapability{
		headers: http.Header{},
		refresh: answeredHeader("Agentic derived-token"),
	}
	c := newTestClient(t, stub, WithCapability(capability))

	_, err := c.SendText(context.Background(), "hello")

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.Status != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.Status)
	}
	if got := len(stub.Requests()); got != 2 {
		t.Errorf("Expected exactly 2 requests (no second retry), got %d", got)
	}
}

func TestDispatch_NoCapability(t *testing.T) {
	stub := testutils.NewStubAgent(testutils.RespondChallenge("Agentic", "nonce-1"))
	defer stub.Close()

	c := newTestClient(t, stub)
	_, err := c.SendText(context.Background(), "hello")

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.Status != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.Status)
	}
	if got := len(stub.Requests()); got != 1 {
		t.Errorf("Expected a single request, got %d", got)
	}
}

func TestDispatch_CapabilityDeclines(t *testing.T) {
	stub := testutils.NewStubAgent(testutils.RespondChallenge("Agentic", "nonce-1"))
	defer stub.Close()

	c := newTestClient(t, stub, WithCapability(&auth.StaticToken{Token: "stale"}))
	_, err := c.SendText(context.Background(), "hello")

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError when capability declines, got %T: %v", err, err)
	}
	if httpErr.Status != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.Status)
	}

	requests := stub.Requests()
	if len(requests) != 1 {
		t.Fatalf("Expected a single request, got %d", len(requests))
	}
	if authz := requests[0].Header.Get("Authorization"); authz != "Bearer stale" {
		t.Errorf("Expected static credentials on the attempt, got %q", authz)
	}
}

func TestDispatch_RefreshFailure(t *testing.T) {
	stub := testutils.NewStubAgent(testutils.RespondChallenge("Agentic", "nonce-1"))
	defer stub.Close()

	capability := &fakeCapability{
		headers: http.Header{},
		refresh: func(*http.Response) (http.Header, error) {
			return nil, errors.New("signing key unavailable")
		},
	}
	c := newTestClient(t, stub, WithCapability(capability))

	_, err := c.SendText(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "challenge refresh failed") {
		t.Fatalf("Expected refresh failure to propagate, got %v", err)
	}
	if got := len(stub.Requests()); got != 1 {
		t.Errorf("Expected no replay after refresh failure, got %d requests", got)
	}
}

// End to end: a JWT challenge capability signs the stub's nonce and the
// replay succeeds with an Agentic Authorization header.
func TestDispatch_JWTChallengeRoundTrip(t *testing.T) {
	rawKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	key, err := jwk.FromRaw(rawKey)
	if err != nil {
		t.Fatalf("Failed to wrap key: %v", err)
	}

	task := a2a.Task{ID: "task-1", Status: a2a.TaskStatus{State: a2a.TaskStateWorking}}
	stub := testutils.NewStubAgent(
		testutils.RespondChallenge("Agentic", "nonce-xyz"),
		testutils.RespondResult(task),
	)
	defer stub.Close()

	capability := auth.NewJWTChallenge("did:web:example.com:alice", key, jwa.ES256)
	c := newTestClient(t, stub, WithCapability(capability))

	got, err := c.SendText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("SendText failed: %v", err)
	}
	if got.ID != "task-1" {
		t.Errorf("Expected task from the replay, got %+v", got)
	}

	requests := stub.Requests()
	if len(requests) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(requests))
	}
	authz := requests[1].Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Agentic ") {
		t.Fatalf("Expected Agentic scheme on the replay, got %q", authz)
	}

	// The derived token is reused by the next call without a new round.
	if _, err := c.SendText(context.Background(), "again"); err != nil {
		t.Fatalf("Follow-up call failed: %v", err)
	}
	requests = stub.Requests()
	if len(requests) != 3 {
		t.Fatalf("Expected 3 requests total, got %d", len(requests))
	}
	if got := requests[2].Header.Get("Authorization"); got != authz {
		t.Errorf("Expected cached credentials on follow-up, got %q", got)
	}
}
