// Package main is the CLI entry point for devclean.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/devclean/internal/config"
	"github.com/eliteGoblin/devclean/internal/domain"
	"github.com/eliteGoblin/devclean/internal/infra"
	"github.com/eliteGoblin/devclean/internal/policy"
	"github.com/eliteGoblin/devclean/internal/report"
	"github.com/eliteGoblin/devclean/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

var errDeletionFailures = errors.New("some directories could not be removed")

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "devclean [path]",
	Short: "Remove build artifacts from development trees",
	Long: `devclean walks a directory tree and removes regenerable build artifacts:
node_modules, Rust and Java target directories, Gradle build directories and
Python caches.

A directory is only removed when the manifest of its ecosystem (package.json,
Cargo.toml, pom.xml, build.gradle) sits next to it. Every candidate is checked
again right before it is deleted.`,
	Version:      Version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClean(cmd, args, flags.dryRun)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Scan, confirm and delete build artifacts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClean(cmd, args, flags.dryRun)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Report what would be deleted without deleting anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClean(cmd, args, true)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cleanable directory names and their markers",
	Long:  `Shows every directory name devclean recognizes, the manifest it requires, and the order rules are evaluated in.`,
	RunE:  runList,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

type cliFlags struct {
	targets    []string
	dryRun     bool
	verbose    bool
	maxDepth   int
	yes        bool
	parallel   bool
	workers    int
	configPath string
	noColor    bool
	jsonOutput bool
}

var flags cliFlags

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringSliceVarP(&flags.targets, "target", "t", nil, "Categories to clean: node, rust, python, java, all")
	pf.BoolVarP(&flags.dryRun, "dry-run", "n", false, "Show what would be deleted without deleting")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "List every candidate and log at debug level")
	pf.IntVarP(&flags.maxDepth, "max-depth", "d", domain.NoDepthLimit, "Maximum depth below the root to search (-1 = unlimited)")
	pf.BoolVarP(&flags.yes, "yes", "y", false, "Delete without asking for confirmation")
	pf.BoolVarP(&flags.parallel, "parallel", "j", true, "Delete candidates in parallel")
	pf.IntVar(&flags.workers, "workers", 0, "Parallel deletion workers (0 = one per CPU)")
	pf.StringVar(&flags.configPath, "config", "", "Config file (default: per-user or /etc location)")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	versionCmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers defaults, config file, environment and changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := flags.configPath
	explicit := path != ""
	if !explicit {
		path = infra.ConfigFile()
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("target") {
		cfg.Categories = flags.targets
	}
	if changed("max-depth") {
		cfg.MaxDepth = flags.maxDepth
	}
	if changed("parallel") {
		cfg.Parallel = flags.parallel
	}
	if changed("workers") {
		cfg.Workers = flags.workers
	}
	if flags.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

func runClean(cmd *cobra.Command, args []string, dryRun bool) error {
	report.ConfigureColor(os.Stdout, flags.noColor)
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	logger := createLogger(level).With(zap.String("run_id", uuid.NewString()))
	defer func() { _ = logger.Sync() }()

	execMode := infra.DetectExecMode()
	logger.Debug("exec mode",
		zap.Stringer("mode", execMode.Mode),
		zap.String("config_dir", execMode.ConfigDir),
		zap.Bool("root", execMode.IsRoot))

	fsManager := infra.NewFileSystemManagerWithHome(infra.GetRealUserHome())
	root := "."
	if len(args) == 1 {
		root = fsManager.ExpandHome(args[0])
	}

	scanCfg, err := config.Resolve(cfg, root, dryRun)
	if err != nil {
		return err
	}
	probe := infra.NewSystemProbe()
	scanCfg.Workers = probe.WorkerCount(scanCfg.Workers)

	logger.Debug("starting run",
		zap.String("root", scanCfg.RootPath),
		zap.Stringer("categories", scanCfg.Categories),
		zap.Int("max_depth", scanCfg.MaxDepth),
		zap.Int("workers", scanCfg.Workers),
		zap.Bool("dry_run", scanCfg.DryRun))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := policy.NewRegistry()
	verifier := usecase.NewVerifier(usecase.NewClassifier(registry, fsManager, logger), fsManager, logger)
	pipeline := usecase.NewPipeline(
		usecase.NewScanner(registry, fsManager, logger),
		usecase.NewSizer(fsManager, logger),
		usecase.NewCleaner(verifier, fsManager, scanCfg.Workers, logger),
		logger,
	)
	printer := report.NewPrinter(out, flags.verbose)

	summary, err := pipeline.Discover(ctx, scanCfg)
	if err != nil {
		return err
	}
	printer.Summary(summary)
	if len(summary.Candidates) == 0 {
		return nil
	}

	if dryRun {
		printer.Stats(pipeline.Execute(ctx, summary), report.FreeSpace{})
		return nil
	}

	proceed, err := confirm(ctx, printer, cmd.InOrStdin(), summary)
	if err != nil {
		return err
	}
	if !proceed {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	lock := infra.NewRunLock(scanCfg.RootPath)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	var free report.FreeSpace
	before, errBefore := probe.FreeSpace(scanCfg.RootPath)
	result := pipeline.Execute(ctx, summary)
	after, errAfter := probe.FreeSpace(scanCfg.RootPath)
	if errBefore == nil && errAfter == nil {
		free = report.FreeSpace{Before: before, After: after, Known: true}
	}
	printer.Stats(result, free)

	if ctx.Err() != nil {
		fmt.Fprintln(out, "Interrupted: remaining directories were left in place.")
	}
	if result.Count(domain.OutcomeFailed) > 0 {
		return errDeletionFailures
	}
	return nil
}

// confirm prompts on a terminal, and refuses to guess when nobody can answer.
func confirm(ctx context.Context, printer *report.Printer, in io.Reader, summary *domain.ScanSummary) (bool, error) {
	if flags.yes {
		return true, nil
	}
	if f, ok := in.(*os.File); ok && !report.IsTerminal(f) {
		return false, errors.New("stdin is not a terminal; pass --yes to delete without confirmation")
	}
	return printer.ConfirmContext(ctx, in, summary), nil
}

func runList(cmd *cobra.Command, args []string) error {
	report.ConfigureColor(os.Stdout, flags.noColor)
	registry := policy.NewRegistry()
	printer := report.NewPrinter(cmd.OutOrStdout(), flags.verbose)

	printer.Rules(registry.Rules())
	if flags.verbose {
		for _, p := range registry.GetAll() {
			fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s\n", p.ID(), p.Name())
		}
	}
	return nil
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	if flags.jsonOutput {
		_ = json.NewEncoder(out).Encode(versionInfo{Version: Version, Commit: Commit, BuildTime: BuildTime})
		return
	}
	fmt.Fprintf(out, "devclean %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
}

// createLogger logs to stderr so that reports on stdout stay clean.
func createLogger(level zapcore.Level) *zap.Logger {
	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(level)
	logCfg.Encoding = "console"
	logCfg.OutputPaths = []string{"stderr"}
	logCfg.ErrorOutputPaths = []string{"stderr"}
	logCfg.EncoderConfig.TimeKey = "time"
	logCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	logger, err := logCfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}
