package llm_client

import (
	"strings"
	"testing"

	"forge/internal/protocol"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"short text rounds up to one", "ab", 1},
		{"four bytes per token", strings.Repeat("a", 400), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestStreamAccumulatorStopsAtEndMarker(t *testing.T) {
	acc := newStreamAccumulator(1000)

	if !acc.add("^^^start^^^\n<<<main.py>>>\nprint('hi')\n<<<end>>>\n") {
		t.Fatal("accumulator stopped before the end marker arrived")
	}
	if acc.add(protocol.EnvelopeEnd + "\ntrailing chatter") {
		t.Error("accumulator kept going after the end marker")
	}

	got := acc.text()
	if !strings.HasSuffix(got, protocol.EnvelopeEnd) {
		t.Errorf("text() = %q, want it truncated just past the end marker", got)
	}
	if strings.Contains(got, "trailing chatter") {
		t.Error("text() kept content past the end marker")
	}
}

func TestStreamAccumulatorStopsAtBudget(t *testing.T) {
	acc := newStreamAccumulator(10)

	chunk := strings.Repeat("x", 20) // 5 tokens
	if !acc.add(chunk) {
		t.Fatal("accumulator stopped with budget remaining")
	}
	if acc.add(chunk) {
		t.Error("accumulator kept going past its token budget")
	}
	if got := acc.text(); got != chunk+chunk {
		t.Errorf("text() = %q, want both chunks preserved", got)
	}
}

func TestInitRejectsUnknownBackend(t *testing.T) {
	if err := Init(Config{Backend: "watson"}); err == nil {
		t.Error("Init accepted an unsupported backend")
	}
}
