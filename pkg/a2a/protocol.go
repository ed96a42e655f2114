// Package a2a defines the object model of the Agent-to-Agent (A2A)
// protocol as carried over the JSON-RPC HTTP+JSON transport.
// Specification: https://a2a-protocol.org/latest/specification/
package a2a

import (
	"time"
)

// ============================================================================
// RPC METHOD NAMES
// Spec Section 7: Protocol RPC Methods
// ============================================================================

const (
	MethodMessageSend       = "message/send"
	MethodMessageStream     = "message/stream"
	MethodTasksGet          = "tasks/get"
	MethodTasksCancel       = "tasks/cancel"
	MethodTasksResubscribe  = "tasks/resubscribe"
	MethodAgentExtendedCard = "agent/getAuthenticatedExtendedCard"
)

// ============================================================================
// TASK - Unit of Work in A2A Protocol
// Spec Section 6.1: Task Object
// ============================================================================

// Task represents a unit of work in the A2A protocol.
type Task struct {
	ID        string                 `json:"id"`
	ContextID string                 `json:"contextId,omitempty"`
	Status    TaskStatus             `json:"status"`
	Messages  []Message              `json:"messages,omitempty"`
	Artifacts []Artifact             `json:"artifacts,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// TaskStatus represents the status of a task (Section 6.2).
type TaskStatus struct {
	State     TaskState  `json:"state"`
	Message   *Message   `json:"message,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// TaskState represents the lifecycle state of a task (Section 6.3).
type TaskState string

const (
	TaskStateSubmitted     TaskState = "submitted"
	TaskStateWorking       TaskState = "working"
	TaskStateInputRequired TaskState = "input-required"
	TaskStateCompleted     TaskState = "completed"
	TaskStateFailed        TaskState = "failed"
	TaskStateCanceled      TaskState = "canceled"
	TaskStateRejected      TaskState = "rejected"
	TaskStateAuthRequired  TaskState = "auth-required"
	TaskStateUnknown       TaskState = "unknown"
)

// Terminal reports whether the state ends the task lifecycle.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateCanceled, TaskStateRejected:
		return true
	}
	return false
}

// ============================================================================
// MESSAGE - Conversation Messages
// Spec Section 6.4: Message Object
// ============================================================================

// Message represents a message in a conversation.
type Message struct {
	Role      MessageRole `json:"role"`
	Parts     []Part      `json:"parts"`
	MessageID string      `json:"messageId,omitempty"`
	TaskID    string      `json:"taskId,omitempty"`
	ContextID string      `json:"contextId,omitempty"`
}

// MessageRole represents the role of a message sender.
type MessageRole string

const (
	MessageRoleUser  MessageRole = "user"
	MessageRoleAgent MessageRole = "agent"
)

// ============================================================================
// PART - Message Content Parts
// Spec Section 6.5: Part Union Type
// ============================================================================

// Part represents a part of a message (union type).
type Part struct {
	// Type discriminator
	Type PartType `json:"type"` // "text", "file", "data"

	// Text part (Section 6.5.1)
	Text string `json:"text,omitempty"`

	// File part (Section 6.5.2)
	File *FilePart `json:"file,omitempty"`

	// Data part (Section 6.5.3)
	Data     interface{} `json:"data,omitempty"`
	DataType string      `json:"dataType,omitempty"` // MIME type for data
}

// PartType represents the type of message part.
type PartType string

const (
	PartTypeText PartType = "text"
	PartTypeFile PartType = "file"
	PartTypeData PartType = "data"
)

// FilePart represents a file in a message (Section 6.6).
type FilePart struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`

	// Either bytes or URI (FileWithBytes or FileWithUri)
	Bytes []byte `json:"bytes,omitempty"`
	URI   string `json:"uri,omitempty"`
	Size  int64  `json:"size,omitempty"`
}

// ============================================================================
// ARTIFACT - Task Output Artifacts
// Spec Section 6.7: Artifact Object
// ============================================================================

// Artifact represents an output artifact produced by a task. Parts are
// ordered; consumers must preserve arrival order when assembling chunked
// artifacts.
type Artifact struct {
	ID          string      `json:"artifactId"`
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	Parts       []Part      `json:"parts"`
	Metadata    interface{} `json:"metadata,omitempty"`
}

// ============================================================================
// RPC METHOD PARAMETERS
// Spec Section 7: Protocol RPC Methods
// ============================================================================

// MessageSendParams represents parameters for message/send and
// message/stream (Section 7.1.1).
type MessageSendParams struct {
	ID            string                `json:"id,omitempty"` // Continue existing task
	Message       Message               `json:"message"`
	Configuration *MessageConfiguration `json:"configuration,omitempty"`
}

// MessageConfiguration provides execution configuration (Section 7.1.2).
type MessageConfiguration struct {
	AcceptedOutputModes []string               `json:"acceptedOutputModes,omitempty"`
	Blocking            *bool                  `json:"blocking,omitempty"`
	HistoryLength       *int                   `json:"historyLength,omitempty"`
	CustomSettings      map[string]interface{} `json:"customSettings,omitempty"`
}

// TaskQueryParams represents parameters for tasks/get (Section 7.3.1).
type TaskQueryParams struct {
	ID            string `json:"id"`
	HistoryLength *int   `json:"historyLength,omitempty"`
}

// TaskIDParams represents parameters for tasks/cancel (Section 7.4.1).
type TaskIDParams struct {
	ID     string `json:"id"`
	Reason string `json:"reason,omitempty"`
}

// TaskResubscribeParams represents parameters for tasks/resubscribe
// (Section 7.9).
type TaskResubscribeParams struct {
	ID          string `json:"id"`
	LastEventID string `json:"lastEventId,omitempty"`
}
