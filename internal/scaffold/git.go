package scaffold

import (
	"context"
	"fmt"

	"forge/internal/logger"
)

// Commit stages and commits everything in the project. Version control
// is a best-effort collaborator: callers log the returned error and
// carry on.
func Commit(ctx context.Context, p *Project, message string) error {
	if out, err := run(ctx, p.Root, "git", "init", "-q"); err != nil {
		return fmt.Errorf("git init failed: %w\n%s", err, out)
	}
	if out, err := run(ctx, p.Root, "git", "add", "-A"); err != nil {
		return fmt.Errorf("git add failed: %w\n%s", err, out)
	}
	if out, err := run(ctx, p.Root, "git", "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit failed: %w\n%s", err, out)
	}
	logger.Log.Printf("Committed project %s: %s", p.Name, message)
	return nil
}
