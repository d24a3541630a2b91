package display

import (
	"fmt"
	"strings"

	"forge/internal/agent"
	"forge/internal/metrics"
)

const maxOutputLength = 400

// FormatSummary renders the terminal state of a session for the
// operator: where the project lives and how each gate finished.
func FormatSummary(sum *agent.Summary) string {
	if sum == nil {
		return "No summary available."
	}
	var sb strings.Builder
	sb.WriteString("Session summary:\n")
	sb.WriteString("--------------------------------------------------\n")
	sb.WriteString(fmt.Sprintf("Session: %s\n", sum.SessionID))
	sb.WriteString(fmt.Sprintf("Task:    %s\n", formatValueForDisplay(sum.Task)))
	if sum.Project != nil {
		sb.WriteString(fmt.Sprintf("Project: %s\n", sum.Project.Root))
	}
	sb.WriteString(fmt.Sprintf("Quality:  %s after %d attempt(s)  (lint %.2f/10, complexity %d)\n",
		sum.Quality.Status, sum.Quality.Attempts,
		sum.Quality.Report.LintScore, sum.Quality.Report.Complexity))
	sb.WriteString(fmt.Sprintf("Coverage: %s after %d attempt(s)  (coverage %d%%, tests passed=%v)\n",
		sum.Coverage.Status, sum.Coverage.Attempts,
		sum.Coverage.Coverage.Percentage, sum.Coverage.Coverage.TestsPassed))
	sb.WriteString("--------------------------------------------------")
	return sb.String()
}

func FormatSessionMetrics(sm *metrics.SessionMetrics) string {
	if sm == nil {
		return "No metrics available."
	}
	var sb strings.Builder
	sb.WriteString("Session metrics:\n")
	sb.WriteString(fmt.Sprintf("- Total: %d ms  (prompt tokens=%d, response tokens=%d)\n",
		sm.DurationMs, sm.PromptTokens, sm.ResponseTokens))
	for _, p := range sm.Phases {
		sb.WriteString(fmt.Sprintf("  Phase %s: %d ms  [%s]\n",
			p.Phase, p.DurationMs, p.Status))
		for _, it := range p.Iterations {
			sb.WriteString(fmt.Sprintf("    attempt %-2d %5d ms  %6d tok  [%s]\n",
				it.Attempt, it.DurationMs, it.ResponseTokens, it.Outcome))
		}
	}
	return sb.String()
}

func formatValueForDisplay(value string) string {
	s := strings.ReplaceAll(value, "\n", "\\n")
	if len(s) > maxOutputLength {
		return s[:maxOutputLength] + "..."
	}
	return s
}
