package agent

import (
	"context"
	"time"

	"forge/internal/llm_client"
	"forge/internal/logger"
	"forge/internal/metrics"
	"forge/internal/protocol"
	"forge/internal/quality"
	"forge/internal/writer"
)

const (
	phaseQuality  = "implementation-quality"
	phaseCoverage = "test-coverage"
)

// iteration outcomes recorded in the metrics.
const (
	outcomeGenerationFailed = "generation-failed"
	outcomeNoChange         = "no-actionable-change"
	outcomeNonProgress      = "non-progress"
	outcomeRejected         = "rejected"
	outcomeWriteFailed      = "write-failed"
	outcomeGateFailed       = "gate-failed"
	outcomePassed           = "passed"
)

// Run drives both improvement phases to a terminal state. It never
// returns an error: every failure mode inside the loop is bounded by
// the attempt budget, and exhaustion is a normal way to finish.
func (s *Session) Run(ctx context.Context) *Summary {
	sm := &metrics.SessionMetrics{SessionID: s.ID, Start: time.Now()}

	qualityRes := s.runQualityPhase(ctx, sm)
	coverageRes := s.runCoveragePhase(ctx, sm)

	sm.End = time.Now()
	sm.Finalize()

	return &Summary{
		SessionID: s.ID,
		Task:      s.Task,
		Project:   s.Project,
		Quality:   qualityRes,
		Coverage:  coverageRes,
		Metrics:   sm,
	}
}

// runQualityPhase generates the initial implementation on its first
// iteration and regenerates with diagnostics on the following ones,
// until lint and complexity pass or the budget runs out.
func (s *Session) runQualityPhase(ctx context.Context, sm *metrics.SessionMetrics) PhaseResult {
	s.resetHistory()
	pm := metrics.PhaseMetrics{Phase: phaseQuality, Start: time.Now()}

	res := PhaseResult{Status: StatusExhausted}
	var rep quality.Report

	for {
		if ctx.Err() != nil || res.Attempts >= s.MaxAttempts {
			break
		}
		res.Attempts++

		var prompt string
		if res.Attempts == 1 {
			prompt = protocol.BuildImplementationPrompt(s.Task, s.Project.Root, s.Reference)
		} else {
			prompt = protocol.BuildImprovementPrompt(s.Task, s.Project.Root, targetFile,
				rep.LintScore, rep.Complexity,
				quality.Tail(rep.LintOutput), quality.Tail(rep.ComplexityOutput))
		}

		im := s.newIteration(res.Attempts, prompt)
		outcome, respTokens := s.iterate(ctx, prompt, func(ictx context.Context) bool {
			rep = s.Evaluator.Evaluate(ictx, targetFile)
			return s.Gates.QualityPassed(rep)
		})
		im.ResponseTokens = respTokens
		s.finishIteration(&pm, im, outcome)

		if outcome == outcomePassed {
			res.Status = StatusDone
			break
		}
	}

	res.Report = rep
	pm.Status = string(res.Status)
	pm.End = time.Now()
	pm.Finalize()
	sm.Phases = append(sm.Phases, pm)

	logger.Log.Printf("Phase %s finished: %s after %d attempt(s), lint %.2f/10, complexity %d",
		phaseQuality, res.Status, res.Attempts, rep.LintScore, rep.Complexity)
	return res
}

// runCoveragePhase first measures the suite as written; only when the
// coverage gate fails does it start regenerating tests.
func (s *Session) runCoveragePhase(ctx context.Context, sm *metrics.SessionMetrics) PhaseResult {
	s.resetHistory()
	pm := metrics.PhaseMetrics{Phase: phaseCoverage, Start: time.Now()}

	res := PhaseResult{Status: StatusExhausted}
	cov := s.Evaluator.EvaluateCoverage(ctx)

	if s.Gates.CoveragePassed(cov) {
		res.Status = StatusDone
	} else {
		for {
			if ctx.Err() != nil || res.Attempts >= s.MaxAttempts {
				break
			}
			res.Attempts++

			prompt := protocol.BuildTestImprovementPrompt(s.Task, s.Project.Root, quality.Tail(cov.Output))
			im := s.newIteration(res.Attempts, prompt)
			outcome, respTokens := s.iterate(ctx, prompt, func(ictx context.Context) bool {
				cov = s.Evaluator.EvaluateCoverage(ictx)
				return s.Gates.CoveragePassed(cov)
			})
			im.ResponseTokens = respTokens
			s.finishIteration(&pm, im, outcome)

			if outcome == outcomePassed {
				res.Status = StatusDone
				break
			}
		}
	}

	res.Coverage = cov
	pm.Status = string(res.Status)
	pm.End = time.Now()
	pm.Finalize()
	sm.Phases = append(sm.Phases, pm)

	logger.Log.Printf("Phase %s finished: %s after %d attempt(s), coverage %d%%, tests passed: %v",
		phaseCoverage, res.Status, res.Attempts, cov.Percentage, cov.TestsPassed)
	return res
}

// iterate runs one generate → decode → validate → write → evaluate
// cycle and reports how it ended. Every failure mode is local to the
// iteration; nothing here aborts the phase.
func (s *Session) iterate(ctx context.Context, prompt string, evaluate func(context.Context) bool) (string, int) {
	response, err := s.LLM.Generate(ctx, prompt)
	respTokens := llm_client.EstimateTokens(response)
	if err != nil {
		logger.Log.Printf("Generation failed: %v", err)
		return outcomeGenerationFailed, respTokens
	}

	cs, deps := protocol.Decode(response)
	if len(cs) == 0 {
		logger.Log.Printf("Response decoded to no actionable change")
		return outcomeNoChange, respTokens
	}
	if s.alreadySeen(response) {
		logger.Log.Printf("Model repeated a previous suggestion; skipping write and evaluation")
		return outcomeNonProgress, respTokens
	}
	s.remember(response)

	if !s.Gate.Validate(ctx, s.Task, response) {
		logger.Log.Printf("Validation gate rejected the proposed change set")
		return outcomeRejected, respTokens
	}

	if s.InstallDeps != nil && len(deps) > 0 {
		s.InstallDeps(ctx, deps)
	}

	ok, statuses := writer.WriteChangeSet(s.Project.Root, cs)
	written := 0
	for _, st := range statuses {
		if st.Written {
			written++
		} else {
			logger.Log.Printf("Failed to write %s: %s", st.Path, st.Err)
		}
	}
	if written == 0 {
		return outcomeWriteFailed, respTokens
	}
	if !ok {
		// Evaluate whatever landed; the partial report is still the most
		// informative diagnostic for the next attempt.
		logger.Log.Printf("Partial write: %d/%d files; evaluating the written files", written, len(statuses))
	}

	if evaluate(ctx) {
		return outcomePassed, respTokens
	}
	return outcomeGateFailed, respTokens
}

func (s *Session) newIteration(attempt int, prompt string) metrics.IterationMetrics {
	return metrics.IterationMetrics{
		Attempt:      attempt,
		Start:        time.Now(),
		PromptTokens: llm_client.EstimateTokens(prompt),
	}
}

func (s *Session) finishIteration(pm *metrics.PhaseMetrics, im metrics.IterationMetrics, outcome string) {
	im.End = time.Now()
	im.DurationMs = im.End.Sub(im.Start).Milliseconds()
	im.Outcome = outcome
	pm.Iterations = append(pm.Iterations, im)
}
