package protocol

import (
	"fmt"
	"strings"
)

// Reference is the ingested material embedded into the implementation
// prompt: documentation, example code and CSV data.
type Reference struct {
	Docs string
	Code string
	Data string
}

func (r Reference) Empty() bool {
	return r.Docs == "" && r.Code == "" && r.Data == ""
}

// grammar rules shared by every generation prompt. The model is told the
// exact block format Decode expects.
func writeFormatRules(sb *strings.Builder) {
	sb.WriteString("CRITICAL: Use the following block format for file content:\n")
	sb.WriteString("    For implementation files, use:\n")
	sb.WriteString("    <<<main.py>>>\n")
	sb.WriteString("    file content here\n")
	sb.WriteString("    <<<end>>>\n\n")
	sb.WriteString("    For test files, use:\n")
	sb.WriteString("    <<<tests/test_main.py>>>\n")
	sb.WriteString("    test file content here\n")
	sb.WriteString("    <<<end>>>\n\n")
	sb.WriteString("    For pip dependencies, use:\n")
	sb.WriteString("    " + DepsStart + "\n")
	sb.WriteString("    package_name[optional_extra]; package_name; package_name\n")
	sb.WriteString("    " + DepsEnd + "\n\n")
	sb.WriteString(fmt.Sprintf("CRITICAL: Enclose your ENTIRE response between %s and %s markers.\n", EnvelopeStart, EnvelopeEnd))
	sb.WriteString("CRITICAL: Your response must ONLY contain the file blocks and the dependency block. No explanations, no markdown.\n")
}

// BuildImplementationPrompt asks for the initial solution plus test
// suite for the task.
func BuildImplementationPrompt(task, workdir string, ref Reference) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Create a comprehensive implementation for the task: %s\n", task))
	sb.WriteString("You must follow these rules strictly:\n")
	sb.WriteString("1. IMPORTANT: Never use pass statements in code or tests. Always provide a meaningful implementation.\n")
	sb.WriteString("2. IMPORTANT: Do not add any code comments to the files.\n")
	sb.WriteString("3. IMPORTANT: Follow PEP8, use snake_case naming, and provide meaningful docstrings.\n")
	sb.WriteString("4. CRITICAL: Create a main method to run the app in main.py; if it is a web app, run it on port 8080.\n")
	writeFormatRules(&sb)

	sb.WriteString(fmt.Sprintf("Working directory: %s\n", workdir))
	if ref.Docs != "" {
		sb.WriteString("Reference documentation:\n" + ref.Docs + "\n")
	}
	if ref.Code != "" {
		sb.WriteString("Reference code (use it to build a working solution):\n" + ref.Code + "\n")
	}
	if ref.Data != "" {
		sb.WriteString("CSV content (load this data in your implementation):\n" + ref.Data + "\n")
	}
	return sb.String()
}

// BuildImprovementPrompt embeds the current scores and raw tool reports
// as diagnostics for the next implementation attempt.
func BuildImprovementPrompt(task, workdir, file string, lintScore float64, complexity int, lintOutput, complexityOutput string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("The current pylint score for %s is %.2f/10.\n", file, lintScore))
	sb.WriteString(fmt.Sprintf("The current cognitive complexity score is %d.\n", complexity))
	sb.WriteString("Analyze the tool output below and improve the code implementation only.\n")
	sb.WriteString("Focus on reducing cognitive complexity while maintaining or improving the pylint score.\n\n")
	sb.WriteString("Pylint output:\n" + lintOutput + "\n\n")
	sb.WriteString("Complexity output:\n" + complexityOutput + "\n\n")
	sb.WriteString(fmt.Sprintf("Original task: %s\n\n", task))
	sb.WriteString("Follow these rules strictly:\n")
	sb.WriteString("1. CRITICAL: Only modify implementation files. Do not change the test files.\n")
	sb.WriteString("2. Address the warnings and errors reported above and handle edge cases.\n")
	writeFormatRules(&sb)
	sb.WriteString(fmt.Sprintf("Working directory: %s\n", workdir))
	return sb.String()
}

// BuildTestImprovementPrompt embeds the failing test run for the
// coverage phase.
func BuildTestImprovementPrompt(task, workdir, testOutput string) string {
	var sb strings.Builder

	sb.WriteString("Test output:\n" + testOutput + "\n\n")
	sb.WriteString(fmt.Sprintf("Original task: %s\n\n", task))
	sb.WriteString("Provide specific, minimal changes to improve the test suite, addressing only failing tests, missing coverage or obvious issues.\n")
	sb.WriteString("Follow these rules strictly:\n")
	sb.WriteString("1. CRITICAL: Only suggest changes to test files.\n")
	writeFormatRules(&sb)
	sb.WriteString(fmt.Sprintf("Working directory: %s\n", workdir))
	return sb.String()
}

// BuildValidationPrompt asks the model to judge a proposed change set
// against the original task with a single-token answer.
func BuildValidationPrompt(task, proposed string) string {
	var sb strings.Builder

	sb.WriteString("Review the proposed changes below and confirm whether they correctly address the original task: ")
	sb.WriteString(task)
	sb.WriteString("\n\nProposed changes:\n")
	sb.WriteString(proposed)
	sb.WriteString("\n\nIf the implementation is correct or mostly correct, respond with 'VALID'.\n")
	sb.WriteString("If the implementation is completely unrelated or fundamentally flawed, respond with 'INVALID'.\n")
	sb.WriteString("Do not provide any additional information or explanations beyond 'VALID' or 'INVALID'.\n")
	return sb.String()
}
