package services

import (
	"context"
	"errors"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ErrMalformedResponse means the evaluator answered but without usable content.
var ErrMalformedResponse = errors.New("malformed evaluator response")

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages  []ChatMessage
	MaxTokens int
}

// LLMClient sends one chat request to a remote model and returns its raw text.
type LLMClient interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
