package quality

import (
	"regexp"
	"strconv"
)

var (
	lintScoreRe = regexp.MustCompile(`Your code has been rated at (\d+\.\d+)/10`)
	coverageRe  = regexp.MustCompile(`TOTAL\s+\d+\s+\d+\s+(\d+)%`)
)

// ParseLintScore extracts the pylint rating from a report. No match
// means the tool did not produce a rating, which scores 0 so it can
// never pass the gate by accident.
func ParseLintScore(output string) float64 {
	m := lintScoreRe.FindStringSubmatch(output)
	if m == nil {
		return 0
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return score
}

// ParseComplexity extracts the total cognitive complexity reported for
// the given file. The report header carries the file path, so the
// pattern is built per call.
func ParseComplexity(output, file string) int {
	re := regexp.MustCompile(`Total Cognitive Complexity in\s*` + regexp.QuoteMeta(file) + `:\s*(\d+)`)
	m := re.FindStringSubmatch(output)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// ParseCoverage extracts the total coverage percentage from a pytest
// --cov report. An absent TOTAL line means coverage was not collected
// and reads as 0%.
func ParseCoverage(output string) int {
	m := coverageRe.FindStringSubmatch(output)
	if m == nil {
		return 0
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return pct
}
