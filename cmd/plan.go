package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"drover/config"
	"drover/streamers/cli"
	"drover/workflow"
)

var (
	planOutput      string
	planDescription string
	planDir         string
	planForce       bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a task document with the agent",
	Long: `Run one planning conversation and one extraction pass, validate the
resulting task document, and save it after confirmation. Declining the
confirmation writes nothing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if planOutput == "" {
			planOutput = cfg.Defaults.Document
		}
		if planDir == "" {
			planDir = cfg.Agent.Dir
		}

		logger := newLogger()

		driver, err := buildDriver(context.Background(), cfg, planDir, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		planner := &workflow.Planner{
			Driver:      driver,
			Handler:     cli.NewPlanHandler(),
			Dir:         planDir,
			OutputPath:  planOutput,
			Description: planDescription,
			Force:       planForce,
			Logger:      logger,
		}
		if err := planner.Plan(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "\nPlan failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "Where to save the task document")
	planCmd.Flags().StringVarP(&planDescription, "description", "d", "", "Initial project description to seed planning")
	planCmd.Flags().StringVar(&planDir, "dir", "", "Working directory for the agent")
	planCmd.Flags().BoolVar(&planForce, "force", false, "Overwrite an existing task document")
}
