package quality

// Report carries the numeric scores for one evaluated file together
// with the raw tool output that produced them. Reports are produced
// fresh per evaluation and never mutated.
type Report struct {
	File             string
	LintScore        float64
	Complexity       int
	LintOutput       string
	ComplexityOutput string
}

// CoverageReport is the outcome of one instrumented test run.
type CoverageReport struct {
	TestsPassed bool
	Percentage  int
	Output      string
}

// Thresholds is the gate policy. Both conditions of each gate are
// required; a high lint score does not offset high complexity.
type Thresholds struct {
	MinLintScore  float64
	MaxComplexity int
	MinCoverage   int
}

func (t Thresholds) QualityPassed(r Report) bool {
	return r.LintScore >= t.MinLintScore && r.Complexity <= t.MaxComplexity
}

func (t Thresholds) CoveragePassed(c CoverageReport) bool {
	return c.TestsPassed && c.Percentage >= t.MinCoverage
}
