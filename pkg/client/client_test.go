package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/kadirpekel/agentwire/pkg/a2a"
	"github.com/kadirpekel/agentwire/pkg/jsonrpc"
	"github.com/kadirpekel/agentwire/pkg/testutils"
)

func newTestClient(t *testing.T, stub *testutils.StubAgent, opts ...Option) *Client {
	t.Helper()
	c, err := New(stub.URL(), opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestNew_InvalidEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
	}{
		{"empty", ""},
		{"no scheme", "agent.example.com/a2a"},
		{"wrong scheme", "ftp://agent.example.com/a2a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.endpoint); err == nil {
				t.Errorf("Expected error for endpoint %q", tt.endpoint)
			}
		})
	}
}

func TestSendMessage(t *testing.T) {
	task := a2a.Task{
		ID:     "task-1",
		Status: a2a.TaskStatus{State: a2a.TaskStateCompleted},
		Messages: []a2a.Message{
			a2a.NewTextMessage(a2a.MessageRoleAgent, "hello back"),
		},
	}

	stub := testutils.NewStubAgent(testutils.RespondResult(task))
	defer stub.Close()

	c := newTestClient(t, stub)
	got, err := c.SendText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("SendText failed: %v", err)
	}

	if got.ID != "task-1" {
		t.Errorf("Expected task id 'task-1', got %q", got.ID)
	}
	if got.Status.State != a2a.TaskStateCompleted {
		t.Errorf("Expected completed state, got %q", got.Status.State)
	}
	if text := a2a.ExtractTaskText(got); text != "hello back" {
		t.Errorf("Expected agent text 'hello back', got %q", text)
	}

	requests := stub.Requests()
	if len(requests) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(requests))
	}
	req := requests[0].Request
	if req.Method != a2a.MethodMessageSend {
		t.Errorf("Expected method %q, got %q", a2a.MethodMessageSend, req.Method)
	}
	if req.JSONRPC != jsonrpc.Version {
		t.Errorf("Expected version %q, got %q", jsonrpc.Version, req.JSONRPC)
	}
	if req.ID == nil || req.ID == "" {
		t.Error("Expected a correlation id on the wire")
	}
	if ct := requests[0].Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}
}

func TestSendMessage_NullResult(t *testing.T) {
	stub := testutils.NewStubAgent(testutils.RespondResult(nil))
	defer stub.Close()

	c := newTestClient(t, stub)
	task, err := c.SendText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("SendText failed: %v", err)
	}
	if task != nil {
		t.Errorf("Expected nil task for null result, got %+v", task)
	}
}

func TestSend_RPCError(t *testing.T) {
	stub := testutils.NewStubAgent(
		testutils.RespondError(jsonrpc.CodeTaskNotFound, "Task not found"),
	)
	defer stub.Close()

	c := newTestClient(t, stub)
	_, err := c.GetTask(context.Background(), a2a.TaskQueryParams{ID: "missing"})

	var rpcErr *jsonrpc.Error
	if !errors.As(err, &rpcErr) {
		t.Fatalf("Expected *jsonrpc.Error, got %T: %v", err, err)
	}
	if rpcErr.Code != jsonrpc.CodeTaskNotFound {
		t.Errorf("Expected code %d, got %d", jsonrpc.CodeTaskNotFound, rpcErr.Code)
	}
	if rpcErr.Message != "Task not found" {
		t.Errorf("Expected peer message preserved, got %q", rpcErr.Message)
	}
}

func TestSend_IDMismatch(t *testing.T) {
	stub := testutils.NewStubAgent(
		testutils.RespondRaw(`{"jsonrpc":"2.0","id":"someone-else","result":{}}`),
	)
	defer stub.Close()

	c := newTestClient(t, stub)
	_, err := c.Send(context.Background(), a2a.MethodTasksGet, a2a.TaskQueryParams{ID: "t"})

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("Expected *ProtocolError for id mismatch, got %T: %v", err, err)
	}
}

func TestSend_NeitherResultNorError(t *testing.T) {
	stub := testutils.NewStubAgent(func(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request) {
		testutils.RespondRaw(`{"jsonrpc":"2.0","id":"` + req.ID.(string) + `"}`)(w, r, req)
	})
	defer stub.Close()

	c := newTestClient(t, stub)
	_, err := c.Send(context.Background(), a2a.MethodTasksGet, a2a.TaskQueryParams{ID: "t"})

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("Expected *ProtocolError, got %T: %v", err, err)
	}
}

func TestSend_MalformedEnvelope(t *testing.T) {
	stub := testutils.NewStubAgent(testutils.RespondRaw(`{not json`))
	defer stub.Close()

	c := newTestClient(t, stub)
	_, err := c.Send(context.Background(), a2a.MethodTasksGet, a2a.TaskQueryParams{ID: "t"})

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("Expected *ProtocolError, got %T: %v", err, err)
	}
}

func TestSend_UnexpectedContentType(t *testing.T) {
	stub := testutils.NewStubAgent(func(w http.ResponseWriter, r *http.Request, req *jsonrpc.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("plain text"))
	})
	defer stub.Close()

	c := newTestClient(t, stub)
	_, err := c.Send(context.Background(), a2a.MethodTasksGet, a2a.TaskQueryParams{ID: "t"})

	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("Expected *ProtocolError, got %T: %v", err, err)
	}
}

func TestSend_HTTPError(t *testing.T) {
	stub := testutils.NewStubAgent(
		testutils.RespondStatus(http.StatusInternalServerError, "upstream exploded"),
	)
	defer stub.Close()

	c := newTestClient(t, stub)
	_, err := c.Send(context.Background(), a2a.MethodTasksGet, a2a.TaskQueryParams{ID: "t"})

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.Status != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", httpErr.Status)
	}
	if string(httpErr.Body) != "upstream exploded" {
		t.Errorf("Expected body preserved, got %q", httpErr.Body)
	}
}

func TestSend_TransportError(t *testing.T) {
	stub := testutils.NewStubAgent()
	c := newTestClient(t, stub)
	stub.Close()

	_, err := c.Send(context.Background(), a2a.MethodTasksGet, a2a.TaskQueryParams{ID: "t"})

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected *TransportError, got %T: %v", err, err)
	}
}

func TestCancelTask(t *testing.T) {
	task := a2a.Task{
		ID:     "task-1",
		Status: a2a.TaskStatus{State: a2a.TaskStateCanceled},
	}
	stub := testutils.NewStubAgent(testutils.RespondResult(task))
	defer stub.Close()

	c := newTestClient(t, stub)
	got, err := c.CancelTask(context.Background(), a2a.TaskIDParams{ID: "task-1"})
	if err != nil {
		t.Fatalf("CancelTask failed: %v", err)
	}
	if got.Status.State != a2a.TaskStateCanceled {
		t.Errorf("Expected canceled state, got %q", got.Status.State)
	}

	requests := stub.Requests()
	if requests[0].Request.Method != a2a.MethodTasksCancel {
		t.Errorf("Expected method %q, got %q", a2a.MethodTasksCancel, requests[0].Request.Method)
	}
}

func TestAgentCard(t *testing.T) {
	stub := testutils.NewStubAgent()
	defer stub.Close()
	stub.SetCard(&a2a.AgentCard{
		Name:    "stub-agent",
		URL:     stub.URL(),
		Version: "1.0.0",
	})

	c := newTestClient(t, stub)
	card, err := c.AgentCard(context.Background())
	if err != nil {
		t.Fatalf("AgentCard failed: %v", err)
	}
	if card.Name != "stub-agent" {
		t.Errorf("Expected card name 'stub-agent', got %q", card.Name)
	}
}

func TestAgentCard_NotFound(t *testing.T) {
	stub := testutils.NewStubAgent()
	defer stub.Close()

	c := newTestClient(t, stub)
	_, err := c.AgentCard(context.Background())

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.Status != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", httpErr.Status)
	}
}
