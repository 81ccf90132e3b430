// Package assist implements the simulated mail assistant. Every
// response is computed locally from the stored mail with keyword
// heuristics and canned templates; nothing leaves the process. The
// streaming surface mimics a hosted model so the UI can treat it like
// one.
package assist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/darkmailhq/darkmail/internal/model"
)

const (
	defaultLatency = 1500 * time.Millisecond
	streamWords    = 6
	maxListed      = 5
)

// StreamChunk represents a piece of the assistant response being
// streamed back.
type StreamChunk struct {
	Text string
	Done bool
}

// MessageSource provides the mailbox the assistant answers questions
// about.
type MessageSource interface {
	AllMessages(ctx context.Context) ([]model.Message, error)
}

// Assistant answers natural-language questions about the mailbox. It
// manages conversation context and simulates response latency and
// token streaming.
type Assistant struct {
	source  MessageSource
	context *ConversationContext
	latency time.Duration
	now     func() time.Time
}

// New creates an assistant over the given mailbox. latency is the
// simulated thinking time before the first chunk; zero or negative
// values use the default.
func New(source MessageSource, latency time.Duration) *Assistant {
	if latency <= 0 {
		latency = defaultLatency
	}
	return &Assistant{
		source:  source,
		context: NewConversationContext(),
		latency: latency,
		now:     time.Now,
	}
}

// Reset clears the conversation history.
func (a *Assistant) Reset() {
	a.context.Reset()
}

// SendMessage submits a user message and returns a channel that
// receives response chunks. The channel is closed when the response is
// complete or the context is canceled.
func (a *Assistant) SendMessage(
	ctx context.Context,
	userMsg string,
) (<-chan StreamChunk, error) {
	a.context.AddMessage(RoleUser, userMsg, nil)

	ch := make(chan StreamChunk, 16)

	go func() {
		defer close(ch)
		a.processMessage(ctx, userMsg, ch)
	}()

	return ch, nil
}

// processMessage computes the full response, waits out the simulated
// latency, then streams the text in small chunks.
func (a *Assistant) processMessage(
	ctx context.Context,
	userMsg string,
	ch chan<- StreamChunk,
) {
	response, refs := a.respond(ctx, userMsg)

	if !sleepCtx(ctx, a.latency) {
		return
	}

	chunks := chunkWords(response, streamWords)
	pause := a.latency / 10
	for i, chunk := range chunks {
		last := i == len(chunks)-1
		select {
		case ch <- StreamChunk{Text: chunk, Done: last}:
		case <-ctx.Done():
			return
		}
		if !last && !sleepCtx(ctx, pause) {
			return
		}
	}

	a.context.AddMessage(RoleAssistant, response, refs)
}

// respond routes the question to a heuristic handler and returns the
// response text plus the IDs of any messages it cites.
func (a *Assistant) respond(ctx context.Context, userMsg string) (string, []string) {
	msgs, err := a.source.AllMessages(ctx)
	if err != nil {
		return fmt.Sprintf("I couldn't read your mailbox: %v", err), nil
	}

	q := strings.ToLower(userMsg)
	if strings.Contains(q, "insight") || strings.Contains(q, "busiest") ||
		strings.Contains(q, "statistic") || strings.Contains(q, "summary of my") {
		report := Insights(msgs)
		return "Here's what I see in your mailbox:\n- " +
			strings.Join(report.Highlights, "\n- "), nil
	}

	result := Search(userMsg, msgs, a.now())
	if len(result.Matches) == 0 {
		return result.Interpretation + "\n\nNo matching emails found.", nil
	}

	var sb strings.Builder
	sb.WriteString(result.Interpretation)
	sb.WriteString(fmt.Sprintf("\n\nFound %d matching email", len(result.Matches)))
	if len(result.Matches) > 1 {
		sb.WriteString("s")
	}
	sb.WriteString(":\n")

	refs := make([]string, 0, len(result.Matches))
	for i, m := range result.Matches {
		if i == maxListed {
			sb.WriteString(fmt.Sprintf("...and %d more\n", len(result.Matches)-maxListed))
			break
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", m.From.Name, m.Subject))
		refs = append(refs, m.ID)
	}

	return strings.TrimRight(sb.String(), "\n"), refs
}

// chunkWords splits text into chunks of n words each, preserving the
// original whitespace between chunks.
func chunkWords(text string, n int) []string {
	fields := strings.SplitAfter(text, " ")
	if len(fields) == 0 {
		return []string{text}
	}

	var chunks []string
	for start := 0; start < len(fields); start += n {
		end := start + n
		if end > len(fields) {
			end = len(fields)
		}
		chunks = append(chunks, strings.Join(fields[start:end], ""))
	}
	return chunks
}

// sleepCtx waits for d and reports false if the context was canceled
// first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
