package review

import (
	"context"
	"regexp"
	"strings"

	"forge/internal/protocol"
)

// Generator is the slice of the LLM provider the gate needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gate asks the model to judge a proposed change set against the
// original task before anything touches the disk. It is a soft gate: a
// rejection skips the change set, it does not abort the session.
type Gate struct {
	LLM Generator
}

// validTokenRe matches the literal token VALID. The word boundary keeps
// the VALID inside INVALID from counting as approval.
var validTokenRe = regexp.MustCompile(`(?i)\bVALID\b`)

// Validate returns true only when the model's answer carries the VALID
// token. Any adapter error or empty answer rejects.
func (g *Gate) Validate(ctx context.Context, task, proposed string) bool {
	prompt := protocol.BuildValidationPrompt(task, proposed)
	resp, err := g.LLM.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(resp) == "" {
		return false
	}
	return validTokenRe.MatchString(resp)
}
