// Package summarize turns extracted article text into a short display
// summary, chunking long input to respect the model's input limit and
// degrading to truncated raw text whenever the capability cannot serve.
package summarize

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/realify/newsdesk/internal/llm"
)

// Placeholder is returned when extraction produced no body text at all.
const Placeholder = "No article text available."

const systemPrompt = "You summarize excerpts of news articles. Respond with a short, factual summary of the excerpt in plain prose, at most three sentences. Do not add opinions or information that is not in the excerpt."

// Summary is the outcome of summarizing one article. Degraded marks a
// non-model fallback built by truncation (or the empty-body placeholder).
type Summary struct {
	Text       string
	ChunkCount int
	Degraded   bool
}

// Summarizer drives the external capability. It never fails: every
// input yields a non-empty Summary, degraded when the capability is
// unavailable, errors, or returns nothing.
type Summarizer struct {
	Client llm.Client
	Model  string
	// ChunkChars bounds each capability call's input. Zero means 700.
	ChunkChars int
	// PassThroughChars is the length under which raw text is already
	// short enough to display unchanged. Zero means 400.
	PassThroughChars int
	// MaxFinalChars bounds the final summary. Zero means 800.
	MaxFinalChars int
}

// Summarize implements the summarize(rawText, maxFinalLength) contract.
// An overlong recombination gets a single compress pass before the
// truncation fallback. Capability failures are not retried; they
// degrade immediately.
func (s *Summarizer) Summarize(ctx context.Context, rawText string) Summary {
	text := collapse(rawText)
	if text == "" {
		return Summary{Text: Placeholder, Degraded: true}
	}

	passThrough := s.PassThroughChars
	if passThrough <= 0 {
		passThrough = 400
	}
	if len(text) <= passThrough {
		return Summary{Text: text}
	}

	maxFinal := s.MaxFinalChars
	if maxFinal <= 0 {
		maxFinal = 800
	}
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		log.Warn().Msg("summarization capability not configured, truncating")
		return Summary{Text: Truncate(text, maxFinal), Degraded: true}
	}

	chunkChars := s.ChunkChars
	if chunkChars <= 0 {
		chunkChars = 700
	}
	chunks := SplitChunks(text, chunkChars)
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		part, err := s.summarizeChunk(ctx, chunk)
		if err != nil || part == "" {
			log.Warn().Err(err).Int("chunks", len(chunks)).Msg("chunk summarization failed, truncating")
			return Summary{Text: Truncate(text, maxFinal), ChunkCount: len(chunks), Degraded: true}
		}
		parts = append(parts, part)
	}

	combined := collapse(strings.Join(parts, " "))
	if combined == "" {
		return Summary{Text: Truncate(text, maxFinal), ChunkCount: len(chunks), Degraded: true}
	}
	if len(combined) > maxFinal {
		// One compress pass over the joined chunk summaries; if the
		// capability cannot tighten it, fall back to truncation.
		compressed, err := s.summarizeChunk(ctx, combined)
		if err != nil || compressed == "" || len(compressed) > maxFinal {
			log.Warn().Err(err).Int("chars", len(combined)).Msg("compress pass failed, truncating")
			return Summary{Text: Truncate(text, maxFinal), ChunkCount: len(chunks), Degraded: true}
		}
		combined = compressed
	}
	return Summary{Text: combined, ChunkCount: len(chunks)}
}

func (s *Summarizer) summarizeChunk(ctx context.Context, chunk string) (string, error) {
	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: chunk},
		},
		Temperature: 0.1,
		N:           1,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
