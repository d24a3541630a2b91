package quality

import "testing"

func TestParseLintScore(t *testing.T) {
	testCases := []struct {
		name     string
		output   string
		expected float64
	}{
		{
			name:     "Rating present",
			output:   "************* Module main\nYour code has been rated at 8.50/10 (previous run: 7.20/10)",
			expected: 8.5,
		},
		{
			name:     "Perfect score",
			output:   "Your code has been rated at 10.00/10",
			expected: 10.0,
		},
		{
			name:     "No rating line means zero",
			output:   "pylint: fatal error, unable to import module",
			expected: 0,
		},
		{
			name:     "Empty output",
			output:   "",
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseLintScore(tc.output); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestParseComplexity(t *testing.T) {
	testCases := []struct {
		name     string
		output   string
		file     string
		expected int
	}{
		{
			name:     "Report header with score",
			output:   "🧠 Total Cognitive Complexity in main.py: 12\nmain.py analyzed",
			file:     "main.py",
			expected: 12,
		},
		{
			name:     "Path is quoted literally",
			output:   "Total Cognitive Complexity in pkg/sub.py: 7",
			file:     "pkg/sub.py",
			expected: 7,
		},
		{
			name:     "Different file does not match",
			output:   "Total Cognitive Complexity in other.py: 99",
			file:     "main.py",
			expected: 0,
		},
		{
			name:     "Tool crash output",
			output:   "traceback (most recent call last)",
			file:     "main.py",
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseComplexity(tc.output, tc.file); got != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestParseCoverage(t *testing.T) {
	testCases := []struct {
		name     string
		output   string
		expected int
	}{
		{
			name:     "Total line present",
			output:   "main.py    50    10    80%\nTOTAL    50    10    80%",
			expected: 80,
		},
		{
			name:     "Missing total line means zero",
			output:   "collected 0 items",
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseCoverage(tc.output); got != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestThresholdBoundaries(t *testing.T) {
	gates := Thresholds{MinLintScore: 7.0, MaxComplexity: 15, MinCoverage: 80}

	qualityCases := []struct {
		name       string
		lint       float64
		complexity int
		expectPass bool
	}{
		{"Exactly at both thresholds passes", 7.0, 15, true},
		{"Lint just below fails", 6.99, 15, false},
		{"Complexity just above fails", 7.0, 16, false},
		{"Both out of range fails", 6.99, 16, false},
		{"Comfortably passing", 8.0, 10, true},
		{"High lint does not offset high complexity", 10.0, 40, false},
	}

	for _, tc := range qualityCases {
		t.Run(tc.name, func(t *testing.T) {
			rep := Report{LintScore: tc.lint, Complexity: tc.complexity}
			if got := gates.QualityPassed(rep); got != tc.expectPass {
				t.Errorf("QualityPassed(%v, %d) = %v, want %v", tc.lint, tc.complexity, got, tc.expectPass)
			}
		})
	}

	coverageCases := []struct {
		name       string
		passed     bool
		pct        int
		expectPass bool
	}{
		{"Exactly at threshold passes", true, 80, true},
		{"Just below fails", true, 79, false},
		{"Failing tests fail regardless of coverage", false, 100, false},
	}

	for _, tc := range coverageCases {
		t.Run(tc.name, func(t *testing.T) {
			cov := CoverageReport{TestsPassed: tc.passed, Percentage: tc.pct}
			if got := gates.CoveragePassed(cov); got != tc.expectPass {
				t.Errorf("CoveragePassed(%v, %d) = %v, want %v", tc.passed, tc.pct, got, tc.expectPass)
			}
		})
	}
}

func TestTail(t *testing.T) {
	short := "short report"
	if got := Tail(short); got != short {
		t.Errorf("short output should be unchanged, got %q", got)
	}

	long := make([]byte, toolOutputTail+100)
	for i := range long {
		long[i] = 'x'
	}
	if got := Tail(string(long)); len(got) != toolOutputTail {
		t.Errorf("expected tail of %d bytes, got %d", toolOutputTail, len(got))
	}
}
