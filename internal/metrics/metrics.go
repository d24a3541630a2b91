package metrics

import "time"

type IterationMetrics struct {
	Attempt        int       `json:"attempt"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	DurationMs     int64     `json:"duration_ms"`
	PromptTokens   int       `json:"prompt_tokens"`
	ResponseTokens int       `json:"response_tokens"`
	Outcome        string    `json:"outcome"`
}

type PhaseMetrics struct {
	Phase      string             `json:"phase"`
	Start      time.Time          `json:"start"`
	End        time.Time          `json:"end"`
	DurationMs int64              `json:"duration_ms"`
	Status     string             `json:"status"`
	Iterations []IterationMetrics `json:"iterations"`
}

type SessionMetrics struct {
	SessionID      string         `json:"session_id"`
	Start          time.Time      `json:"start"`
	End            time.Time      `json:"end"`
	DurationMs     int64          `json:"duration_ms"`
	PromptTokens   int            `json:"prompt_tokens"`
	ResponseTokens int            `json:"response_tokens"`
	Phases         []PhaseMetrics `json:"phases"`
}

// Compute derived fields for a phase.
func (p *PhaseMetrics) Finalize() {
	p.DurationMs = p.End.Sub(p.Start).Milliseconds()
}

// Finalize computes the session duration and token totals from the
// recorded phases.
func (s *SessionMetrics) Finalize() {
	s.DurationMs = s.End.Sub(s.Start).Milliseconds()
	s.PromptTokens = 0
	s.ResponseTokens = 0
	for _, p := range s.Phases {
		for _, it := range p.Iterations {
			s.PromptTokens += it.PromptTokens
			s.ResponseTokens += it.ResponseTokens
		}
	}
}
