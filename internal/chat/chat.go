// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chat abstracts the chat completion service behind a small
// interface so the pipeline can be tested against a scripted fake.
// Implements: prd001-chat-transport; docs/ARCHITECTURE § Chat Transport.
package chat

import (
	"context"
	"fmt"
)

// Message roles mirror the chat completion wire format.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one turn in a chat completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer sends one ordered sequence of messages to a chat completion
// service and returns the text content of the first response choice.
type Completer interface {
	Complete(ctx context.Context, model string, messages []Message) (string, error)
}

// TransportError reports a network- or protocol-level failure of a chat
// completion call: connection errors, non-2xx responses, or a response
// envelope with no usable choices. Transport failures are never retried by
// the pipeline; they surface immediately to the caller.
type TransportError struct {
	// Op names the failed operation (e.g. "chat completion").
	Op string

	// Err is the underlying cause, if any.
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
