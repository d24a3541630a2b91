package llm_client

import (
	"strings"

	"forge/internal/protocol"
)

// EstimateTokens approximates the token count of a text. No tokenizer
// ships with any of the backends' Go clients, so budgets are enforced
// with the usual ~4 bytes per token heuristic; the backends apply their
// own hard limits on top.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := len(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}

// streamAccumulator collects streamed chunks and decides when to stop:
// either the response envelope closed or the output token budget ran
// out. This keeps a runaway model from streaming forever.
type streamAccumulator struct {
	sb        strings.Builder
	remaining int
}

func newStreamAccumulator(budget int) *streamAccumulator {
	return &streamAccumulator{remaining: budget}
}

// add appends a chunk and reports whether streaming should continue.
func (a *streamAccumulator) add(chunk string) bool {
	a.sb.WriteString(chunk)
	a.remaining -= EstimateTokens(chunk)
	if a.remaining <= 0 {
		return false
	}
	return !strings.Contains(a.sb.String(), protocol.EnvelopeEnd)
}

// text returns the accumulated response, truncated just past the end
// marker when one arrived.
func (a *streamAccumulator) text() string {
	s := a.sb.String()
	if i := strings.Index(s, protocol.EnvelopeEnd); i != -1 {
		return s[:i+len(protocol.EnvelopeEnd)]
	}
	return s
}
