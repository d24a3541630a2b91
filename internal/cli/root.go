package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"forge/internal/agent"
	"forge/internal/config"
	"forge/internal/display"
	"forge/internal/listener"
	"forge/internal/llm_client"
	"forge/internal/logger"
	"forge/internal/protocol"
	"forge/internal/quality"
	"forge/internal/review"
	"forge/internal/scaffold"
)

var (
	flagTaskFile string
	flagProvider string
	flagModel    string
	flagConfig   string
	flagDocs     string
	flagCode     string
	flagData     string
	flagZip      string
	flagCommit   bool
)

var rootCmd = &cobra.Command{
	Use:   "forge [task...]",
	Short: "An autonomous coding agent that builds and improves Python projects",
	Long: `Forge takes a natural-language task, scaffolds a Python project,
and drives an LLM through bounded improvement loops until the generated
code passes its lint, complexity and test-coverage gates.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			fmt.Println("Failed to load configuration:", err)
			os.Exit(1)
		}
		if flagProvider != "" {
			cfg.Provider.Backend = flagProvider
		}
		if flagModel != "" {
			cfg.Provider.Model = flagModel
		}

		if err := llm_client.Init(llm_client.Config{
			Backend:    cfg.Provider.Backend,
			Model:      cfg.Provider.Model,
			OllamaHost: cfg.Provider.OllamaHost,
		}); err != nil {
			fmt.Println("Failed to initialize LLM client:", err)
			os.Exit(1)
		}

		task, interactive, err := resolveTask(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if interactive {
			defer listener.Close()
			if !listener.AskYesNo(fmt.Sprintf("Build this? %q", task)) {
				fmt.Println("Cancelled.")
				return
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := scaffold.EnsureUV(ctx); err != nil {
			fmt.Println("uv is required but could not be found or installed:", err)
			os.Exit(1)
		}
		project, err := scaffold.Create(ctx, ".")
		if err != nil {
			fmt.Println("Failed to scaffold project:", err)
			os.Exit(1)
		}
		fmt.Printf("Project scaffolded at %s (backend: %s)\n", project.Root, llm_client.ActiveBackend())

		ref := protocol.Reference{}
		if flagDocs != "" || flagCode != "" || flagData != "" {
			ref, err = scaffold.IngestReference(ctx, flagDocs, flagCode, flagData)
			if err != nil {
				fmt.Println("Failed to ingest reference material:", err)
				os.Exit(1)
			}
		}

		session := &agent.Session{
			ID:        uuid.New().String()[:8],
			Task:      task,
			Project:   project,
			LLM:       llm_client.Active(),
			Evaluator: &quality.Evaluator{Root: project.Root},
			Gate:      &review.Gate{LLM: llm_client.Active()},
			Gates: quality.Thresholds{
				MinLintScore:  cfg.Gates.MinLintScore,
				MaxComplexity: cfg.Gates.MaxComplexity,
				MinCoverage:   cfg.Gates.MinCoverage,
			},
			MaxAttempts: cfg.Loop.MaxAttempts,
			Reference:   ref,
			InstallDeps: func(ictx context.Context, specifiers []string) {
				scaffold.InstallDependencies(ictx, project, specifiers)
			},
		}

		logger.Log.Printf("Session %s started for task %q", session.ID, task)
		summary := session.Run(ctx)

		fmt.Println(display.FormatSummary(summary))
		fmt.Println(display.FormatSessionMetrics(summary.Metrics))
		logger.Log.Printf("Session %s finished: quality=%s coverage=%s",
			summary.SessionID, summary.Quality.Status, summary.Coverage.Status)

		if flagCommit {
			if err := scaffold.Commit(ctx, project, "Initial implementation: "+task); err != nil {
				logger.Log.Printf("Git commit failed: %v", err)
			}
		}
		if flagZip != "" {
			if err := scaffold.Zip(project, flagZip); err != nil {
				fmt.Println("Failed to export archive:", err)
				os.Exit(1)
			}
			fmt.Printf("Project exported to %s\n", flagZip)
			if err := os.RemoveAll(project.Root); err != nil {
				logger.Log.Printf("Could not remove project directory after export: %v", err)
			}
		}
	},
}

// resolveTask picks the task from the positional arguments, then the
// task file, then an interactive prompt. The boolean reports whether
// the task came from the prompt.
func resolveTask(args []string) (string, bool, error) {
	if task := strings.TrimSpace(strings.Join(args, " ")); task != "" {
		return task, false, nil
	}
	if flagTaskFile != "" {
		data, err := os.ReadFile(flagTaskFile)
		if err != nil {
			return "", false, fmt.Errorf("could not read task file: %w", err)
		}
		task := strings.TrimSpace(string(data))
		if task == "" {
			return "", false, fmt.Errorf("task file %s is empty", flagTaskFile)
		}
		return task, false, nil
	}

	if err := listener.Init(); err != nil {
		return "", false, fmt.Errorf("failed to init terminal input: %w", err)
	}
	listener.PrintAbove("What should I build?")
	task := listener.GetInput()
	if task == "" {
		listener.Close()
		return "", false, fmt.Errorf("no task provided")
	}
	return task, true, nil
}

func init() {
	rootCmd.Flags().StringVar(&flagTaskFile, "file", "", "read the task from a file")
	rootCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM backend: ollama, gemini or openai")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "model name override for the selected backend")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to the configuration file")
	rootCmd.Flags().StringVar(&flagDocs, "docs", "", "directory of reference documents to ingest")
	rootCmd.Flags().StringVar(&flagCode, "code", "", "directory of reference code to ingest")
	rootCmd.Flags().StringVar(&flagData, "data", "", "directory of reference data to ingest")
	rootCmd.Flags().StringVar(&flagZip, "zip", "", "export the finished project as a zip archive")
	rootCmd.Flags().BoolVar(&flagCommit, "commit", false, "commit the finished project to a fresh git repository")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
