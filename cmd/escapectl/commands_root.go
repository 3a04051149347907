package main

import (
	"context"
	"fmt"

	"github.com/SallySoul/escape/internal/campaign"
	"github.com/SallySoul/escape/internal/loader"
	"github.com/SallySoul/escape/internal/model"
	"github.com/SallySoul/escape/internal/observability"
	"github.com/SallySoul/escape/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outputRoot  string
	rendererBin string
	compositor  string
	workers     int
	duration    int
	verbosity   string
	dryRun      bool
	verbose     bool
	ledgerPath  string
	metricsFile string

	logger  *zap.Logger
	metrics *observability.Metrics
)

var rootCmd = &cobra.Command{
	Use:           "escapectl",
	Short:         "Campaign orchestrator for the escape renderer",
	Long:          "escapectl sweeps parameter spaces of the escape renderer, one resumable workspace per job, and assembles the frames into animations and comparison grids",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = observability.NewLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		metrics = observability.NewMetrics()
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&outputRoot, "output", "o", ".", "Output root for job workspaces")
	flags.StringVar(&rendererBin, "renderer", "escape", "Renderer executable")
	flags.StringVar(&compositor, "compositor", "convert", "Image compositing executable")
	flags.IntVar(&workers, "workers", 1, "Renderer worker threads per job")
	flags.IntVar(&duration, "duration", 0, "Sampling seconds per job")
	flags.StringVar(&verbosity, "renderer-verbosity", "off", "Renderer log level")
	flags.BoolVar(&dryRun, "dry-run", false, "Log commands without creating workspaces or running tools")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every command line")
	flags.StringVar(&ledgerPath, "ledger", "", "SQLite ledger recording created workspaces")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write run metrics in Prometheus textfile format")

	registerStudyCommand(rootCmd)
	registerZoomCommand(rootCmd)
	registerOrbitCommand(rootCmd)
	registerGridCommand(rootCmd)
	registerRunCommand(rootCmd)
	registerPlanCommand(rootCmd)
	registerValidateCommand(rootCmd)
	registerStatusCommand(rootCmd)
}

// flagCampaign starts a campaign from the global flags
func flagCampaign(kind, name string) *model.Campaign {
	return &model.Campaign{
		APIVersion: "escape/v1",
		Kind:       kind,
		Metadata:   model.Metadata{Name: name},
		Output:     outputRoot,
		Tools: model.Tools{
			Renderer:   rendererBin,
			Compositor: compositor,
			Workers:    workers,
			Duration:   duration,
			Verbosity:  verbosity,
		},
	}
}

// applyOverrides lets explicitly set global flags win over a campaign file
func applyOverrides(cmd *cobra.Command, c *model.Campaign) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		c.Output = outputRoot
	}
	if flags.Changed("renderer") {
		c.Tools.Renderer = rendererBin
	}
	if flags.Changed("compositor") {
		c.Tools.Compositor = compositor
	}
	if flags.Changed("workers") {
		c.Tools.Workers = workers
	}
	if flags.Changed("duration") {
		c.Tools.Duration = duration
	}
	if flags.Changed("renderer-verbosity") {
		c.Tools.Verbosity = verbosity
	}
}

func loadCampaignFile(cmd *cobra.Command, path string) (*model.Campaign, *loader.Loader, error) {
	l, err := loader.NewLoader()
	if err != nil {
		return nil, nil, err
	}
	fmt.Println("□ Loading campaign...")
	c, err := l.LoadCampaign(path)
	if err != nil {
		return nil, nil, err
	}
	applyOverrides(cmd, c)
	return c, l, nil
}

func deps(l *loader.Loader) pipeline.Deps {
	return pipeline.Deps{
		Loader:  l,
		Options: campaign.Options{DryRun: dryRun, Verbose: verbose},
		Ledger:  ledgerPath,
		Logger:  logger,
		Metrics: metrics,
	}
}

// runCampaign executes c and reports progress on stdout
func runCampaign(ctx context.Context, c *model.Campaign, l *loader.Loader) error {
	if dryRun {
		fmt.Println("□ Dry-run mode enabled, no workspace will be created")
	}
	fmt.Printf("□ Running %s campaign into %s...\n", c.Kind, c.Output)

	result, err := pipeline.Run(ctx, c, deps(l))
	if metricsFile != "" {
		if merr := metrics.WriteTextfile(metricsFile); merr != nil {
			logger.Warn("failed to write metrics", zap.String("path", metricsFile), zap.Error(merr))
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("✓ %d jobs ran, %d skipped\n", result.Summary.Ran, result.Summary.Skipped)
	if result.Artifact != "" {
		fmt.Printf("✓ Saved to: %s\n", result.Artifact)
	}
	return nil
}
