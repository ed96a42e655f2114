package a2a

import (
	"strings"
)

// ============================================================================
// A2A MESSAGE HELPER FUNCTIONS
// Utilities for working with A2A protocol messages
// ============================================================================

// NewTextMessage creates a message with a single text part.
func NewTextMessage(role MessageRole, text string) Message {
	return Message{
		Role: role,
		Parts: []Part{
			{Type: PartTypeText, Text: text},
		},
	}
}

// NewUserMessage creates a user message with text content.
func NewUserMessage(text string) Message {
	return NewTextMessage(MessageRoleUser, text)
}

// ExtractText extracts all text content from a message, concatenating
// text parts with newlines.
func ExtractText(msg Message) string {
	var texts []string
	for _, part := range msg.Parts {
		if part.Type == PartTypeText {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// ExtractTaskText extracts text content from a task's agent messages and
// artifacts, in order.
func ExtractTaskText(task *Task) string {
	if task == nil {
		return ""
	}

	var texts []string

	for _, msg := range task.Messages {
		if msg.Role == MessageRoleAgent {
			if text := ExtractText(msg); text != "" {
				texts = append(texts, text)
			}
		}
	}

	for _, artifact := range task.Artifacts {
		for _, part := range artifact.Parts {
			if part.Type == PartTypeText {
				texts = append(texts, part.Text)
			}
		}
	}

	return strings.Join(texts, "\n")
}
