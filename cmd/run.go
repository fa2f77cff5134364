package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"drover/config"
	"drover/llm"
	"drover/session"
	"drover/store"
	"drover/streamers"
	"drover/streamers/cli"
	"drover/workflow"
	"drover/wsbridge"
)

var (
	runDocument      string
	runJournal       string
	runPrompt        string
	runDir           string
	runMaxIterations int
	runListen        string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Work through the task document with an agent",
	Long: `Run the iteration loop: load the task document, pick the highest
priority open task, hand it to the agent in a fresh session, journal the
outcome, and repeat until the document is done or the iteration budget is
spent.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		applyRunFlags(cmd, cfg)

		logger := newLogger()

		driver, err := buildDriver(context.Background(), cfg, runDir, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		runs, err := store.New(cfg.Storage.Backend, cfg.Storage.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening run store: %v\n", err)
			os.Exit(1)
		}
		defer runs.Close()

		var handler streamers.RunHandler = cli.NewRunHandler()
		if runListen != "" {
			hub := wsbridge.NewHub(logger)
			defer hub.Close()
			go func() {
				logger.Info("event bridge listening", "addr", runListen)
				if err := http.ListenAndServe(runListen, hub); err != nil {
					logger.Error("event bridge stopped", "error", err)
				}
			}()
			handler = streamers.MultiRunHandler{handler, wsbridge.NewHandler(hub)}
		}
		handler = streamers.NewStoringRunHandler(handler, runs, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := &workflow.Runner{
			Driver:        driver,
			Handler:       handler,
			Dir:           runDir,
			DocumentPath:  runDocument,
			JournalPath:   runJournal,
			PromptPath:    runPrompt,
			MaxIterations: runMaxIterations,
			Logger:        logger,
		}
		if err := runner.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "\nRun failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDocument, "document", "", "Path to the task document")
	runCmd.Flags().StringVar(&runJournal, "journal", "", "Path to the progress journal")
	runCmd.Flags().StringVar(&runPrompt, "prompt", "", "Path to a custom base prompt template")
	runCmd.Flags().StringVar(&runDir, "dir", "", "Working directory for the agent")
	runCmd.Flags().IntVar(&runMaxIterations, "max-iterations", 0, "Iteration budget")
	runCmd.Flags().StringVar(&runListen, "listen", "", "Serve run events to websocket clients on this address")
}

// applyRunFlags resolves the flag/config/default precedence: explicit flags
// win, then the config file, then built-in defaults.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if runDocument == "" {
		runDocument = cfg.Defaults.Document
	}
	if runJournal == "" {
		runJournal = cfg.Defaults.Journal
	}
	if runPrompt == "" {
		runPrompt = cfg.Defaults.Prompt
	}
	if runDir == "" {
		runDir = cfg.Agent.Dir
	}
	if !cmd.Flags().Changed("max-iterations") {
		runMaxIterations = cfg.Defaults.MaxIterations
	}
}

// buildDriver selects the session driver from the engine config.
func buildDriver(ctx context.Context, cfg *config.Config, dir string, logger hclog.Logger) (session.Driver, error) {
	switch cfg.Engine.Kind {
	case "api":
		provider, err := llm.New(ctx, cfg.Engine.Provider, cfg.Engine.ResolveAPIKey())
		if err != nil {
			return nil, err
		}
		return session.NewProviderDriver(provider, cfg.Engine.Model, logger), nil
	default:
		return session.NewAgentCLIDriver(cfg.Agent.Command, cfg.Agent.Args, dir, logger), nil
	}
}
