package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/internal/progress"
	"github.com/panbanda/mood/internal/service/analysis"
	"github.com/panbanda/mood/pkg/loader"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// Test modules are left out unless asked for. A test class that subclasses
// production code adds to its NOC and to the MOOD totals.
const includeTestsUsage = "Include test modules (test_*.py, *_test.py, tests/); they are excluded by default, " +
	"so test classes count toward neither NOC nor the MOOD totals"

// Flags shared by the commands that read Python sources.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ref",
			Usage: "Analyze a git revision (branch, tag, commit) instead of the working tree",
		},
		&cli.BoolFlag{
			Name:  "include-tests",
			Usage: includeTestsUsage,
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Disable the parse cache",
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "Hide the progress bar",
		},
	}
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Report DIT, NOC and MOOD factors per class and for the whole code base",
		ArgsUsage: "[path|owner/repo[@ref]|git-url...]",
		Description: `Directories are scanned for .py modules; stubs (.pyi) and .pyw scripts are read
only when named on the command line. Test modules are excluded by default (see
--include-tests), so subclasses declared in tests do not raise NOC or the MOOD totals.`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, records, json, yaml, toon, markdown (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort classes by name, dit, noc, mif, mhf, aif or ahf (default: load order)",
			},
		}, sourceFlags()...),
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	sortKey := c.String("sort")
	if err := validateSort(sortKey); err != nil {
		return err
	}

	svc, logger, err := setup(c)
	if err != nil {
		return err
	}
	format, err := outputFormat(c, svc.Config())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loaded, err := loadSources(ctx, c, svc)
	if err != nil {
		return err
	}
	if loaded == nil {
		return nil
	}

	result, err := svc.Analyze(ctx, loaded.Classes)
	if err != nil {
		return err
	}
	result.SortBy(sortKey)

	logger.Info("analysis complete",
		zap.Int("files", loaded.Files),
		zap.Int("classes", len(result.Classes)),
		zap.Int("max_dit", result.MaxDIT()),
		zap.Int("cache_hits", loaded.CacheHits),
		zap.Int("skipped", len(loaded.Skipped)))

	formatter, err := output.NewFormatter(format, c.String("output"), colored(svc.Config()))
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.NewMoodReport(result, output.Skipped(loaded.Skipped)))
}

// loadSources resolves the command's paths, cloning remote repositories,
// and parses them. It returns a nil result, after telling the user, when
// there is nothing to analyze.
func loadSources(ctx context.Context, c *cli.Context, svc *analysis.Service) (*loader.Result, error) {
	showProgress := !c.Bool("no-progress")

	var cloneProgress io.Writer = io.Discard
	var fetching *progress.Tracker
	if showProgress {
		fetching = progress.NewSpinner("Fetching remote repositories...")
		cloneProgress = fetching
	}
	paths, cleanup, err := svc.Fetch(ctx, getPaths(c), cloneProgress)
	if fetching != nil {
		if err != nil {
			fetching.FinishError(err)
		} else {
			fetching.FinishSuccess()
		}
	}
	if err != nil {
		return nil, err
	}
	defer cleanup()

	in, err := svc.Resolve(paths, c.String("ref"))
	if err != nil {
		return nil, err
	}
	if len(in.Files) == 0 {
		if showProgress {
			progress.NewTracker("Parsing classes...", 0).FinishSkipped("no Python files found")
		} else {
			color.Yellow("No Python files found")
		}
		return nil, nil
	}

	opts := analysis.LoadOptions{NoCache: c.Bool("no-cache")}
	var tracker *progress.Tracker
	if showProgress {
		tracker = progress.NewTracker("Parsing classes...", len(in.Files))
		opts.OnProgress = tracker.Tick
	}

	loaded, err := svc.Load(ctx, in, opts)
	if tracker != nil {
		if err != nil {
			tracker.FinishError(err)
		} else {
			tracker.FinishSuccess()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	return loaded, nil
}
