package quality

import (
	"context"
	"os/exec"
)

// Evaluator shells out to the analysis tools of the generated project
// and turns their textual reports into typed scores.
type Evaluator struct {
	// Root is the project directory; every tool runs with it as the
	// working directory.
	Root string
}

// Evaluate runs the style normalizer, the linter and the complexity
// tool against one file. Tool failures degrade to worst-case scores in
// the report; they are never returned as errors.
func (e *Evaluator) Evaluate(ctx context.Context, file string) Report {
	rep := Report{File: file}

	// Normalize style first so the linter judges the cleaned-up file.
	_, _ = e.runTool(ctx, "uv", "run", "autopep8", "--in-place", "--aggressive", file)

	lintOut, _ := e.runTool(ctx, "uv", "run", "pylint",
		"--disable=missing-function-docstring,missing-module-docstring",
		"--max-line-length=120",
		file)
	rep.LintOutput = lintOut
	rep.LintScore = ParseLintScore(lintOut)

	cxOut, _ := e.runTool(ctx, "uv", "run", "complexipy", file)
	rep.ComplexityOutput = cxOut
	rep.Complexity = ParseComplexity(cxOut, file)

	return rep
}

// runTool captures combined stdout+stderr. A non-zero exit is expected
// from linters reporting findings, so the output is returned either way
// and the error is informative only.
func (e *Evaluator) runTool(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Root
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// toolOutputTail keeps diagnostic prompts from ballooning when a tool
// dumps very long reports.
const toolOutputTail = 16000

// Tail returns at most the last toolOutputTail bytes of a report.
func Tail(output string) string {
	if len(output) <= toolOutputTail {
		return output
	}
	return output[len(output)-toolOutputTail:]
}
