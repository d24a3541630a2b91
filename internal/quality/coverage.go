package quality

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// coverageRC excludes init-only files and the tests themselves from
// coverage so the percentage reflects the implementation.
const coverageRC = `[run]
omit =
    */__init__.py
    tests/*
    **/test_*.py

[report]
exclude_lines =
    pragma: no cover
    def __repr__
    if self.debug:
    if __name__ == .__main__.:
    raise NotImplementedError
    except ImportError:
`

// EvaluateCoverage runs the test suite with coverage instrumentation and
// parses the TOTAL line. A missing report or a failed tool run reads as
// 0% with tests failed, never as a pass.
func (e *Evaluator) EvaluateCoverage(ctx context.Context) CoverageReport {
	rcPath := filepath.Join(e.Root, ".coveragerc")
	if err := os.WriteFile(rcPath, []byte(coverageRC), 0o644); err != nil {
		return CoverageReport{Output: "could not write .coveragerc: " + err.Error()}
	}

	out, runErr := e.runTool(ctx, "uv", "run", "pytest",
		"--cov=.",
		"--cov-config=.coveragerc",
		"--cov-report=term-missing",
		"-vv")

	if strings.Contains(out, "No data to report.") {
		return CoverageReport{Output: out}
	}

	return CoverageReport{
		TestsPassed: runErr == nil && !strings.Contains(strings.ToLower(out), "failed"),
		Percentage:  ParseCoverage(out),
		Output:      out,
	}
}
