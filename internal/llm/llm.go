// Package llm abstracts the external summarization capability behind
// the minimal chat-completion surface the pipeline needs, so any
// OpenAI-compatible backend (or a test fake) can serve it.
package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/semaphore"
)

// Client is the capability contract consumed by the summarizer.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ModelLister is an optional capability for startup preflight checks.
// Callers detect availability with a type assertion.
type ModelLister interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// OpenAIProvider adapts *openai.Client to Client and ModelLister.
type OpenAIProvider struct {
	Inner *openai.Client
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return p.Inner.CreateChatCompletion(ctx, request)
}

func (p *OpenAIProvider) ListModels(ctx context.Context) (openai.ModelsList, error) {
	return p.Inner.ListModels(ctx)
}

// Gate bounds concurrent capability calls. The underlying model is a
// scarce resource; callers queue on the semaphore (respecting their
// context deadline) rather than fan out unbounded requests.
type Gate struct {
	inner Client
	sem   *semaphore.Weighted
}

// NewGate wraps inner with a limit on in-flight calls. Limits below 1
// are treated as 1.
func NewGate(inner Client, limit int64) *Gate {
	if limit < 1 {
		limit = 1
	}
	return &Gate{inner: inner, sem: semaphore.NewWeighted(limit)}
}

func (g *Gate) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	defer g.sem.Release(1)
	return g.inner.CreateChatCompletion(ctx, request)
}
