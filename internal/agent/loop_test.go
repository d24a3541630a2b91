package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"forge/internal/logger"
	"forge/internal/quality"
	"forge/internal/scaffold"
)

func init() {
	logger.InitDiscard()
}

// wireResponse wraps file content in the response framing the codec
// expects, so decoded change sets are non-empty.
func wireResponse(content string) string {
	return "^^^start^^^\n<<<main.py>>>\n" + content + "\n<<<end>>>\n^^^end^^^"
}

type scriptedLLM struct {
	responses []string
	err       error
	calls     int
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	i := s.calls - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

type scriptedEvaluator struct {
	reports   []quality.Report
	coverages []quality.CoverageReport
	evalCalls int
	covCalls  int
}

func (e *scriptedEvaluator) Evaluate(ctx context.Context, file string) quality.Report {
	e.evalCalls++
	i := e.evalCalls - 1
	if i >= len(e.reports) {
		i = len(e.reports) - 1
	}
	rep := e.reports[i]
	rep.File = file
	return rep
}

func (e *scriptedEvaluator) EvaluateCoverage(ctx context.Context) quality.CoverageReport {
	e.covCalls++
	i := e.covCalls - 1
	if i >= len(e.coverages) {
		i = len(e.coverages) - 1
	}
	return e.coverages[i]
}

type stubValidator struct{ accept bool }

func (v stubValidator) Validate(ctx context.Context, task, proposed string) bool {
	return v.accept
}

func newTestSession(t *testing.T, llm *scriptedLLM, ev *scriptedEvaluator) *Session {
	t.Helper()
	return &Session{
		ID:          "test-session",
		Task:        "build a fizzbuzz CLI",
		Project:     &scaffold.Project{Root: t.TempDir(), Name: "project_test"},
		LLM:         llm,
		Evaluator:   ev,
		Gate:        stubValidator{accept: true},
		Gates:       quality.Thresholds{MinLintScore: 7.0, MaxComplexity: 15, MinCoverage: 80},
		MaxAttempts: 3,
	}
}

func TestRunImprovesUntilGatesPass(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		wireResponse("print('draft')"),
		wireResponse("print('polished')"),
	}}
	ev := &scriptedEvaluator{
		reports: []quality.Report{
			{LintScore: 5.0, Complexity: 20, LintOutput: "too messy"},
			{LintScore: 8.0, Complexity: 10},
		},
		coverages: []quality.CoverageReport{
			{TestsPassed: true, Percentage: 85},
		},
	}
	s := newTestSession(t, llm, ev)

	sum := s.Run(context.Background())

	if sum.Quality.Status != StatusDone {
		t.Fatalf("quality status = %s, want %s", sum.Quality.Status, StatusDone)
	}
	if sum.Quality.Attempts != 2 {
		t.Errorf("quality attempts = %d, want 2", sum.Quality.Attempts)
	}
	if llm.calls != 2 {
		t.Errorf("generate calls = %d, want 2", llm.calls)
	}
	if sum.Quality.Report.LintScore != 8.0 || sum.Quality.Report.Complexity != 10 {
		t.Errorf("final report = %.1f/%d, want 8.0/10",
			sum.Quality.Report.LintScore, sum.Quality.Report.Complexity)
	}
	// Coverage already passed on the first measurement, so the second
	// phase must not spend any attempts.
	if sum.Coverage.Status != StatusDone || sum.Coverage.Attempts != 0 {
		t.Errorf("coverage = %s after %d attempts, want %s after 0",
			sum.Coverage.Status, sum.Coverage.Attempts, StatusDone)
	}
	if ev.covCalls != 1 {
		t.Errorf("coverage evaluations = %d, want 1", ev.covCalls)
	}
}

func TestRunExhaustsAttemptBudget(t *testing.T) {
	responses := make([]string, 6)
	for i := range responses {
		responses[i] = wireResponse(fmt.Sprintf("print(%d)", i))
	}
	llm := &scriptedLLM{responses: responses}
	ev := &scriptedEvaluator{
		reports:   []quality.Report{{LintScore: 4.0, Complexity: 30}},
		coverages: []quality.CoverageReport{{TestsPassed: true, Percentage: 40}},
	}
	s := newTestSession(t, llm, ev)

	sum := s.Run(context.Background())

	if sum.Quality.Status != StatusExhausted {
		t.Errorf("quality status = %s, want %s", sum.Quality.Status, StatusExhausted)
	}
	if sum.Quality.Attempts != 3 {
		t.Errorf("quality attempts = %d, want 3", sum.Quality.Attempts)
	}
	if sum.Coverage.Status != StatusExhausted {
		t.Errorf("coverage status = %s, want %s", sum.Coverage.Status, StatusExhausted)
	}
	if sum.Coverage.Attempts != 3 {
		t.Errorf("coverage attempts = %d, want 3", sum.Coverage.Attempts)
	}
	// Exactly one generation per attempt across both phases.
	if llm.calls != 6 {
		t.Errorf("generate calls = %d, want 6", llm.calls)
	}
	// Exhaustion still reports the last-known scores.
	if sum.Quality.Report.LintScore != 4.0 {
		t.Errorf("last lint score = %.1f, want 4.0", sum.Quality.Report.LintScore)
	}
	if sum.Coverage.Coverage.Percentage != 40 {
		t.Errorf("last coverage = %d%%, want 40", sum.Coverage.Coverage.Percentage)
	}
	if len(sum.Metrics.Phases) != 2 {
		t.Errorf("phase metrics = %d, want 2", len(sum.Metrics.Phases))
	}
}

func TestRepeatedResponseSkipsEvaluation(t *testing.T) {
	llm := &scriptedLLM{responses: []string{wireResponse("print('same')")}}
	ev := &scriptedEvaluator{
		reports:   []quality.Report{{LintScore: 3.0, Complexity: 25}},
		coverages: []quality.CoverageReport{{TestsPassed: true, Percentage: 90}},
	}
	s := newTestSession(t, llm, ev)

	sum := s.Run(context.Background())

	if sum.Quality.Status != StatusExhausted {
		t.Errorf("quality status = %s, want %s", sum.Quality.Status, StatusExhausted)
	}
	// Each repeat consumes an attempt but skips write and evaluation.
	if sum.Quality.Attempts != 3 {
		t.Errorf("quality attempts = %d, want 3", sum.Quality.Attempts)
	}
	if ev.evalCalls != 1 {
		t.Errorf("quality evaluations = %d, want 1", ev.evalCalls)
	}
}

func TestHistoryResetsBetweenPhases(t *testing.T) {
	// The coverage phase reuses the quality phase's exact response; a
	// fresh history means it is still written and evaluated.
	same := wireResponse("print('shared')")
	llm := &scriptedLLM{responses: []string{same}}
	ev := &scriptedEvaluator{
		reports: []quality.Report{{LintScore: 9.0, Complexity: 5}},
		coverages: []quality.CoverageReport{
			{TestsPassed: true, Percentage: 50},
			{TestsPassed: true, Percentage: 95},
		},
	}
	s := newTestSession(t, llm, ev)

	sum := s.Run(context.Background())

	if sum.Quality.Status != StatusDone || sum.Quality.Attempts != 1 {
		t.Fatalf("quality = %s after %d attempts, want %s after 1",
			sum.Quality.Status, sum.Quality.Attempts, StatusDone)
	}
	if sum.Coverage.Status != StatusDone {
		t.Errorf("coverage status = %s, want %s", sum.Coverage.Status, StatusDone)
	}
	if sum.Coverage.Attempts != 1 {
		t.Errorf("coverage attempts = %d, want 1", sum.Coverage.Attempts)
	}
	if ev.covCalls != 2 {
		t.Errorf("coverage evaluations = %d, want 2", ev.covCalls)
	}
}

func TestRejectedChangeConsumesAttempt(t *testing.T) {
	responses := make([]string, 3)
	for i := range responses {
		responses[i] = wireResponse(fmt.Sprintf("print(%d)", i))
	}
	llm := &scriptedLLM{responses: responses}
	ev := &scriptedEvaluator{
		reports:   []quality.Report{{LintScore: 9.0, Complexity: 5}},
		coverages: []quality.CoverageReport{{TestsPassed: true, Percentage: 90}},
	}
	s := newTestSession(t, llm, ev)
	s.Gate = stubValidator{accept: false}

	sum := s.Run(context.Background())

	if sum.Quality.Status != StatusExhausted {
		t.Errorf("quality status = %s, want %s", sum.Quality.Status, StatusExhausted)
	}
	if sum.Quality.Attempts != 3 {
		t.Errorf("quality attempts = %d, want 3", sum.Quality.Attempts)
	}
	if ev.evalCalls != 0 {
		t.Errorf("quality evaluations = %d, want 0 when every change is rejected", ev.evalCalls)
	}
}

func TestUndecodableResponseConsumesAttempt(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"here is some prose without any file blocks",
		"still no file blocks",
		"and again nothing usable",
	}}
	ev := &scriptedEvaluator{
		reports:   []quality.Report{{LintScore: 9.0, Complexity: 5}},
		coverages: []quality.CoverageReport{{TestsPassed: true, Percentage: 90}},
	}
	s := newTestSession(t, llm, ev)

	sum := s.Run(context.Background())

	if sum.Quality.Status != StatusExhausted {
		t.Errorf("quality status = %s, want %s", sum.Quality.Status, StatusExhausted)
	}
	if llm.calls < 3 {
		t.Errorf("generate calls = %d, want at least 3 in the quality phase", llm.calls)
	}
	if ev.evalCalls != 0 {
		t.Errorf("quality evaluations = %d, want 0", ev.evalCalls)
	}
}

func TestGenerationErrorConsumesAttempt(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("backend unreachable")}
	ev := &scriptedEvaluator{
		reports:   []quality.Report{{}},
		coverages: []quality.CoverageReport{{TestsPassed: true, Percentage: 90}},
	}
	s := newTestSession(t, llm, ev)

	sum := s.Run(context.Background())

	if sum.Quality.Status != StatusExhausted || sum.Quality.Attempts != 3 {
		t.Errorf("quality = %s after %d attempts, want %s after 3",
			sum.Quality.Status, sum.Quality.Attempts, StatusExhausted)
	}
}

func TestCanceledContextStopsTheLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	llm := &scriptedLLM{responses: []string{wireResponse("print('x')")}}
	ev := &scriptedEvaluator{
		reports:   []quality.Report{{}},
		coverages: []quality.CoverageReport{{TestsPassed: false, Percentage: 0}},
	}
	s := newTestSession(t, llm, ev)

	sum := s.Run(ctx)

	if llm.calls != 0 {
		t.Errorf("generate calls = %d, want 0 after cancellation", llm.calls)
	}
	if sum.Quality.Status != StatusExhausted {
		t.Errorf("quality status = %s, want %s", sum.Quality.Status, StatusExhausted)
	}
}
