package protocol

import (
	"regexp"
	"strings"
)

// Wire format owned by this package. A response carries file blocks,
// optionally wrapped in a full-response envelope, plus an optional
// dependency block:
//
//	^^^start^^^
//	<<<relative/path.py>>>
//	file content
//	<<<end>>>
//	***uv_start***
//	package_a; package_b[extra]
//	***uv_end***
//	^^^end^^^
const (
	EnvelopeStart = "^^^start^^^"
	EnvelopeEnd   = "^^^end^^^"
	DepsStart     = "***uv_start***"
	DepsEnd       = "***uv_end***"
)

// ChangeSet maps relative file paths to full file content, as decoded
// from one LLM response.
type ChangeSet map[string]string

var (
	fileBlockRe = regexp.MustCompile(`(?s)<<<(.+?)>>>\n(.*?)<<<end>>>`)
	fenceOpenRe = regexp.MustCompile("```[a-zA-Z0-9]*\n")
	headerRe    = regexp.MustCompile(`(?m)^#+\s+.*$`)
	inlineRe    = regexp.MustCompile("`([^`]+)`")
)

// Decode extracts the change set and dependency specifiers from raw LLM
// output. It is total: malformed or partial input yields an empty
// ChangeSet, never an error. Commentary outside the response envelope is
// discarded; when no envelope is present the raw text is parsed as-is.
// The last block wins for a duplicated path.
func Decode(response string) (ChangeSet, []string) {
	body := stripEnvelope(response)
	deps := parseDependencies(body)

	cs := make(ChangeSet)
	for _, m := range fileBlockRe.FindAllStringSubmatch(body, -1) {
		path := strings.TrimSpace(m[1])
		if path == "" {
			continue
		}
		cs[path] = CleanMarkdown(m[2])
	}
	return cs, deps
}

// stripEnvelope returns the content strictly between the envelope
// markers when both are present, and the input unchanged otherwise.
func stripEnvelope(s string) string {
	start := strings.Index(s, EnvelopeStart)
	if start == -1 {
		return s
	}
	rest := start + len(EnvelopeStart)
	end := strings.Index(s[rest:], EnvelopeEnd)
	if end == -1 {
		return s
	}
	return strings.TrimSpace(s[rest : rest+end])
}

func parseDependencies(s string) []string {
	start := strings.Index(s, DepsStart)
	if start == -1 {
		return nil
	}
	rest := start + len(DepsStart)
	end := strings.Index(s[rest:], DepsEnd)
	if end == -1 {
		return nil
	}

	var deps []string
	for _, pkg := range strings.Split(s[rest:rest+end], ";") {
		if pkg = strings.TrimSpace(pkg); pkg != "" {
			deps = append(deps, pkg)
		}
	}
	return deps
}

// CleanMarkdown removes code-fence and markdown artifacts the model
// tends to leave inside file bodies: fence openers with a language tag,
// bare fences, markdown headers and inline backticks. The enclosed code
// is preserved verbatim. Header stripping also removes `# ...` lines;
// the prompt rules forbid comments in generated files, so those lines
// are artifacts, not code.
func CleanMarkdown(content string) string {
	content = fenceOpenRe.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "```", "")
	content = headerRe.ReplaceAllString(content, "")
	content = inlineRe.ReplaceAllString(content, "$1")
	return strings.TrimSpace(content)
}

// EncodeFileBlock renders one file in the wire format. Decoding an
// encoded block yields the same path and (trimmed) content back.
func EncodeFileBlock(path, content string) string {
	var sb strings.Builder
	sb.WriteString("<<<")
	sb.WriteString(path)
	sb.WriteString(">>>\n")
	sb.WriteString(content)
	sb.WriteString("\n<<<end>>>")
	return sb.String()
}

// EncodeChangeSet renders every file block, used when a proposed change
// set has to be embedded into a follow-up prompt.
func EncodeChangeSet(cs ChangeSet) string {
	blocks := make([]string, 0, len(cs))
	for path, content := range cs {
		blocks = append(blocks, EncodeFileBlock(path, content))
	}
	return strings.Join(blocks, "\n")
}
