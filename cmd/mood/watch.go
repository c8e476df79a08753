package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/internal/service/analysis"
	"github.com/panbanda/mood/pkg/watch"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Re-run the MOOD analysis whenever Python files change",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "Quiet period before a batch of changes triggers a rerun",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, records, json, yaml, toon, markdown (default from config)",
			},
			&cli.BoolFlag{
				Name:  "include-tests",
				Usage: includeTestsUsage,
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	if c.Args().Len() > 1 {
		return fmt.Errorf("watch takes a single directory, got %d paths", c.Args().Len())
	}
	root := getPaths(c)[0]
	if !isDir(root) {
		return fmt.Errorf("watch: %s is not a directory", root)
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

	rerun := func() {
		if err := watchRun(ctx, c, svc, root, format); err != nil {
			logger.Error("analysis failed", zap.Error(err))
		}
	}
	rerun()

	w, err := watch.NewWatcher(root, svc.Config(), c.Duration("debounce"))
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()
	w.SetLogger(logger)
	w.SetCallback(func(changed []string) {
		color.Cyan("\n%d file(s) changed, re-analyzing...", len(changed))
		rerun()
	})

	err = w.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchRun performs one full analysis of root and prints the report. The
// cache keeps reruns cheap for files that did not change.
func watchRun(ctx context.Context, c *cli.Context, svc *analysis.Service, root string, format output.Format) error {
	in, err := svc.Resolve([]string{root}, "")
	if err != nil {
		return err
	}
	res, err := svc.Run(ctx, in, analysis.LoadOptions{})
	if err != nil {
		return err
	}
	formatter := output.NewFormatterTo(c.App.Writer, format, colored(svc.Config()))
	return formatter.Output(output.NewMoodReport(res.Analysis, output.Skipped(res.Loaded.Skipped)))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
