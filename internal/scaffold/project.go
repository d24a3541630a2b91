package scaffold

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"forge/internal/logger"
)

// Project is the handle every later component works against: the
// scaffolded working directory and its generated identifier.
type Project struct {
	Root string
	Name string
}

// devDependencies are the analysis tools the quality gates shell out to.
var devDependencies = []string{"pytest", "pylint", "autopep8", "pytest-cov", "complexipy"}

func NewProjectName() string {
	return "project_" + uuid.New().String()[:8]
}

// EnsureUV verifies the uv package manager is installed. Without it no
// project can be scaffolded, so the session cannot proceed.
func EnsureUV(ctx context.Context) error {
	if _, err := run(ctx, "", "uv", "--version"); err != nil {
		return fmt.Errorf("uv is not installed or not on PATH: %w", err)
	}
	return nil
}

// Create scaffolds a fresh uv project under baseDir and installs the
// analysis toolchain into it.
func Create(ctx context.Context, baseDir string) (*Project, error) {
	name := NewProjectName()
	root := filepath.Join(baseDir, name)

	if out, err := run(ctx, baseDir, "uv", "init", name, "--no-workspace"); err != nil {
		return nil, fmt.Errorf("uv init failed: %w\n%s", err, out)
	}

	addArgs := append([]string{"add"}, devDependencies...)
	if out, err := run(ctx, root, "uv", addArgs...); err != nil {
		return nil, fmt.Errorf("could not add dev dependencies: %w\n%s", err, out)
	}

	// uv seeds the project with a hello.py nobody asked for.
	_ = os.Remove(filepath.Join(root, "hello.py"))
	_ = os.Remove(filepath.Join(root, "main.py"))

	testsDir := filepath.Join(root, "tests")
	if err := os.MkdirAll(testsDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create tests directory: %w", err)
	}
	initFile := filepath.Join(testsDir, "__init__.py")
	if err := os.WriteFile(initFile, []byte(""), 0o644); err != nil {
		return nil, fmt.Errorf("could not create tests/__init__.py: %w", err)
	}

	logger.Log.Printf("Scaffolded project %s at %s", name, root)
	return &Project{Root: root, Name: name}, nil
}

// InstallDependencies adds the packages a decoded dependency directive
// names. Failures are logged and skipped; a bad specifier must not sink
// the iteration.
func InstallDependencies(ctx context.Context, p *Project, specifiers []string) {
	for _, spec := range specifiers {
		if out, err := run(ctx, p.Root, "uv", "add", spec); err != nil {
			logger.Log.Printf("Failed to add dependency %q: %v\n%s", spec, err, out)
			continue
		}
		logger.Log.Printf("Added dependency %q", spec)
	}
}

func run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	return string(out), err
}
