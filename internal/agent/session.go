package agent

import (
	"context"

	"forge/internal/metrics"
	"forge/internal/protocol"
	"forge/internal/quality"
	"forge/internal/scaffold"
)

// targetFile is the implementation artifact the quality gate judges.
const targetFile = "main.py"

// Generator is the LLM boundary the loop depends on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Evaluator is the quality-gate boundary: score one file, or run the
// instrumented test suite.
type Evaluator interface {
	Evaluate(ctx context.Context, file string) quality.Report
	EvaluateCoverage(ctx context.Context) quality.CoverageReport
}

// Validator is the soft pre-write gate.
type Validator interface {
	Validate(ctx context.Context, task, proposed string) bool
}

// DependencyInstaller applies decoded dependency directives to the
// project. Optional; nil skips installation.
type DependencyInstaller func(ctx context.Context, specifiers []string)

type PhaseStatus string

const (
	// StatusDone means the phase's gate passed.
	StatusDone PhaseStatus = "DONE"
	// StatusExhausted means the attempt budget ran out. Not an error:
	// the session completes and reports its last-known scores.
	StatusExhausted PhaseStatus = "EXHAUSTED"
)

// PhaseResult is the terminal state of one improvement phase together
// with its last-known report.
type PhaseResult struct {
	Status   PhaseStatus
	Attempts int
	Report   quality.Report
	Coverage quality.CoverageReport
}

// Summary is what the session hands back for the operator to review.
type Summary struct {
	SessionID string
	Task      string
	Project   *scaffold.Project
	Quality   PhaseResult
	Coverage  PhaseResult
	Metrics   *metrics.SessionMetrics
}

// Session carries the state of one build-and-improve run. The task and
// project handle live for the whole session; the suggestion history is
// reset at each phase entry.
type Session struct {
	ID      string
	Task    string
	Project *scaffold.Project

	LLM       Generator
	Evaluator Evaluator
	Gate      Validator

	Gates       quality.Thresholds
	MaxAttempts int
	Reference   protocol.Reference

	InstallDeps DependencyInstaller

	// seen holds raw responses already produced in the current phase,
	// to short-circuit a model repeating itself.
	seen map[string]struct{}
}

func (s *Session) resetHistory() {
	s.seen = make(map[string]struct{})
}

func (s *Session) alreadySeen(response string) bool {
	_, ok := s.seen[response]
	return ok
}

func (s *Session) remember(response string) {
	s.seen[response] = struct{}{}
}
