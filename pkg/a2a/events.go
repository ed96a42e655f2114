package a2a

import (
	"encoding/json"
	"fmt"
)

// ============================================================================
// STREAMING EVENTS - Server-Sent Event Payloads
// Spec Section 7.2: each SSE frame's JSON-RPC result is one of these
// ============================================================================

// Event is one decoded streaming result: either a status update or an
// artifact update. The two variants share no base type; discrimination is
// explicit at decode time.
type Event interface {
	EventTaskID() string
	// Final reports whether the server declared this event terminal for
	// the subscription. Only status updates can be final.
	Final() bool
}

// StatusUpdateEvent reports a task lifecycle transition (Section 7.2.2).
type StatusUpdateEvent struct {
	TaskID    string                 `json:"taskId"`
	ContextID string                 `json:"contextId,omitempty"`
	Status    TaskStatus             `json:"status"`
	IsFinal   bool                   `json:"final,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func (e *StatusUpdateEvent) EventTaskID() string { return e.TaskID }

func (e *StatusUpdateEvent) Final() bool {
	return e.IsFinal || e.Status.State.Terminal()
}

// ArtifactUpdateEvent delivers produced content (Section 7.2.3). Append
// marks a continuation of a previously sent artifact; LastChunk marks the
// end of one artifact, not of the stream.
type ArtifactUpdateEvent struct {
	TaskID    string                 `json:"taskId"`
	ContextID string                 `json:"contextId,omitempty"`
	Artifact  Artifact               `json:"artifact"`
	Append    bool                   `json:"append,omitempty"`
	LastChunk bool                   `json:"lastChunk,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func (e *ArtifactUpdateEvent) EventTaskID() string { return e.TaskID }

func (e *ArtifactUpdateEvent) Final() bool { return false }

// eventProbe sniffs the discriminating fields of a raw event payload.
type eventProbe struct {
	Kind     string          `json:"kind,omitempty"`
	Status   json.RawMessage `json:"status,omitempty"`
	Artifact json.RawMessage `json:"artifact,omitempty"`
}

// UnmarshalEvent decodes one streaming result payload into its concrete
// variant. Peers that set an explicit "kind" are honored; otherwise the
// variant is chosen by the presence of a "status" vs an "artifact" field.
func UnmarshalEvent(data json.RawMessage) (Event, error) {
	var probe eventProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("malformed event payload: %w", err)
	}

	switch probe.Kind {
	case "status-update":
		return unmarshalStatusUpdate(data)
	case "artifact-update":
		return unmarshalArtifactUpdate(data)
	case "":
		// Structural discrimination
		if probe.Status != nil && probe.Artifact == nil {
			return unmarshalStatusUpdate(data)
		}
		if probe.Artifact != nil && probe.Status == nil {
			return unmarshalArtifactUpdate(data)
		}
		return nil, fmt.Errorf("event payload is neither a status update nor an artifact update")
	default:
		return nil, fmt.Errorf("unknown event kind %q", probe.Kind)
	}
}

func unmarshalStatusUpdate(data json.RawMessage) (Event, error) {
	var ev StatusUpdateEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("malformed status update: %w", err)
	}
	return &ev, nil
}

func unmarshalArtifactUpdate(data json.RawMessage) (Event, error) {
	var ev ArtifactUpdateEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("malformed artifact update: %w", err)
	}
	return &ev, nil
}
