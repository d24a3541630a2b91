package scaffold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"forge/internal/protocol"
)

const ingestConcurrency = 8

var (
	docExts  = []string{"txt", "md"}
	codeExts = []string{"php", "rs", "py", "js", "ts", "toml", "json", "rb", "yaml"}
	dataExts = []string{"csv"}
)

// IngestReference collects reference material from the optional docs,
// code and data directories. Empty dir arguments are skipped.
func IngestReference(ctx context.Context, docsDir, codeDir, dataDir string) (protocol.Reference, error) {
	var ref protocol.Reference
	var err error

	if docsDir != "" {
		if ref.Docs, err = ingest(ctx, docsDir, docExts); err != nil {
			return ref, fmt.Errorf("ingesting docs: %w", err)
		}
	}
	if codeDir != "" {
		if ref.Code, err = ingest(ctx, codeDir, codeExts); err != nil {
			return ref, fmt.Errorf("ingesting code: %w", err)
		}
	}
	if dataDir != "" {
		if ref.Data, err = ingest(ctx, dataDir, dataExts); err != nil {
			return ref, fmt.Errorf("ingesting data: %w", err)
		}
	}
	return ref, nil
}

// ingest concatenates every file under dir matching the extensions,
// recursively. Files are read in parallel but concatenated in a stable
// path order.
func ingest(ctx context.Context, dir string, exts []string) (string, error) {
	fsys := os.DirFS(dir)

	var paths []string
	for _, ext := range exts {
		matches, err := doublestar.Glob(fsys, "**/*."+ext)
		if err != nil {
			return "", fmt.Errorf("bad glob for extension %s: %w", ext, err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	contents := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ingestConcurrency)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(dir, p))
			if err != nil {
				return fmt.Errorf("could not read %s: %w", p, err)
			}
			contents[i] = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, c := range contents {
		sb.WriteString(c)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}
