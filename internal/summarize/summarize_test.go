package summarize

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// fakeClient returns canned content or a canned error per call.
type fakeClient struct {
	content string
	err     error
	calls   int32
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.content}},
		},
	}, nil
}

func longText(n int) string {
	return strings.TrimSpace(strings.Repeat("The committee discussed the draft budget in detail. ", n))
}

func TestSummarize_EmptyTextReturnsPlaceholder(t *testing.T) {
	s := &Summarizer{Client: &fakeClient{content: "unused"}, Model: "m"}
	sum := s.Summarize(context.Background(), "   ")
	if !sum.Degraded {
		t.Fatal("empty input must be degraded")
	}
	if sum.Text != Placeholder {
		t.Fatalf("expected placeholder, got %q", sum.Text)
	}
	if sum.ChunkCount != 0 {
		t.Fatalf("no chunks expected, got %d", sum.ChunkCount)
	}
}

func TestSummarize_ShortTextPassesThrough(t *testing.T) {
	fc := &fakeClient{content: "unused"}
	s := &Summarizer{Client: fc, Model: "m"}
	text := "A short report that fits on screen as-is."
	sum := s.Summarize(context.Background(), text)
	if sum.Degraded {
		t.Fatal("pass-through must not be degraded")
	}
	if sum.Text != text {
		t.Fatalf("expected pass-through, got %q", sum.Text)
	}
	if atomic.LoadInt32(&fc.calls) != 0 {
		t.Fatal("short text must not reach the capability")
	}
}

func TestSummarize_ChunksJoinedInOrder(t *testing.T) {
	fc := &fakeClient{content: "Chunk summary."}
	s := &Summarizer{Client: fc, Model: "m", ChunkChars: 300}
	sum := s.Summarize(context.Background(), longText(20))
	if sum.Degraded {
		t.Fatalf("healthy capability must not degrade: %+v", sum)
	}
	if sum.ChunkCount < 2 {
		t.Fatalf("expected multiple chunks, got %d", sum.ChunkCount)
	}
	if int32(sum.ChunkCount) != atomic.LoadInt32(&fc.calls) {
		t.Fatalf("one capability call per chunk: %d chunks, %d calls", sum.ChunkCount, fc.calls)
	}
	want := strings.TrimSpace(strings.Repeat("Chunk summary. ", sum.ChunkCount))
	if sum.Text != want {
		t.Fatalf("chunk summaries must concatenate in order: %q", sum.Text)
	}
}

func TestSummarize_CapabilityFailureDegradesWithoutRetry(t *testing.T) {
	fc := &fakeClient{err: errors.New("model overloaded")}
	s := &Summarizer{Client: fc, Model: "m", MaxFinalChars: 100}
	sum := s.Summarize(context.Background(), longText(20))
	if !sum.Degraded {
		t.Fatal("capability failure must degrade")
	}
	if sum.Text == "" {
		t.Fatal("degraded summary must still be non-empty")
	}
	if !strings.HasSuffix(sum.Text, "...") {
		t.Fatalf("expected truncation marker, got %q", sum.Text)
	}
	if atomic.LoadInt32(&fc.calls) != 1 {
		t.Fatalf("failures must not be retried, got %d calls", fc.calls)
	}
}

func TestSummarize_EmptyCapabilityOutputDegrades(t *testing.T) {
	s := &Summarizer{Client: &fakeClient{content: "   "}, Model: "m"}
	sum := s.Summarize(context.Background(), longText(20))
	if !sum.Degraded || sum.Text == "" {
		t.Fatalf("empty model output must degrade to truncated text: %+v", sum)
	}
}

// scriptClient plays back one response per call, repeating the last.
type scriptClient struct {
	responses []string
	calls     int32
}

func (f *scriptClient) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	n := int(atomic.AddInt32(&f.calls, 1)) - 1
	if n >= len(f.responses) {
		n = len(f.responses) - 1
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.responses[n]}},
		},
	}, nil
}

func TestSummarize_OverlongConcatenationGetsOneCompressPass(t *testing.T) {
	wordy := strings.Repeat("Very wordy chunk summary. ", 10)
	text := longText(20)
	// One wordy answer per chunk, then the tight answer for the
	// compress call.
	var responses []string
	for range SplitChunks(text, 300) {
		responses = append(responses, wordy)
	}
	responses = append(responses, "A tight final summary.")
	fc := &scriptClient{responses: responses}
	s := &Summarizer{Client: fc, Model: "m", ChunkChars: 300, MaxFinalChars: 120}
	sum := s.Summarize(context.Background(), text)
	if sum.Degraded {
		t.Fatalf("a successful compress pass must not degrade: %+v", sum)
	}
	if sum.Text != "A tight final summary." {
		t.Fatalf("expected the compressed text, got %q", sum.Text)
	}
	if got := int(atomic.LoadInt32(&fc.calls)); got != sum.ChunkCount+1 {
		t.Fatalf("expected one call per chunk plus one compress call, got %d for %d chunks", got, sum.ChunkCount)
	}
}

func TestSummarize_FailedCompressPassDegrades(t *testing.T) {
	// Every call, the compress pass included, stays over the bound.
	fc := &fakeClient{content: strings.Repeat("Very wordy chunk summary. ", 10)}
	s := &Summarizer{Client: fc, Model: "m", ChunkChars: 300, MaxFinalChars: 120}
	sum := s.Summarize(context.Background(), longText(20))
	if !sum.Degraded {
		t.Fatal("overlong compress output must fall back to truncation")
	}
	if len([]rune(sum.Text)) > 120+len("...") {
		t.Fatalf("final summary exceeds bound: %d chars", len(sum.Text))
	}
	if got := int(atomic.LoadInt32(&fc.calls)); got != sum.ChunkCount+1 {
		t.Fatalf("exactly one compress attempt expected, got %d calls for %d chunks", got, sum.ChunkCount)
	}
}

func TestSummarize_NoClientTruncates(t *testing.T) {
	s := &Summarizer{MaxFinalChars: 100}
	sum := s.Summarize(context.Background(), longText(10))
	if !sum.Degraded || !strings.HasSuffix(sum.Text, "...") {
		t.Fatalf("missing capability must truncate: %+v", sum)
	}
}
