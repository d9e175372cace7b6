// Package ai provides interfaces and implementations for interacting with different AI backends.
package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a backend answers without any content.
var ErrEmptyResponse = errors.New("ai backend returned no content")

// Role tags a message in a completion request.
type Role string

// Roles understood by every backend.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a completion request.
type Message struct {
	Role    Role
	Content string
}

// Field is a required string property of an ObjectSchema.
type Field struct {
	Name        string
	Description string
}

// ObjectSchema describes a flat JSON object whose properties are all required
// strings and which permits no additional properties.
type ObjectSchema struct {
	Name        string
	Description string
	Fields      []Field
}

// Request is a structured-output completion request.
type Request struct {
	Messages []Message
	Schema   ObjectSchema
}

// Client defines the interface for interacting with an AI backend.
type Client interface {
	// Complete sends the conversation and returns the raw JSON object the
	// backend produced for the request schema.
	Complete(ctx context.Context, req Request) (string, error)
}
