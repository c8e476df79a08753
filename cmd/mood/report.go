package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/internal/report"
	"github.com/panbanda/mood/pkg/models"
	"github.com/urfave/cli/v2"
)

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Write a standalone HTML report with the metrics table and inheritance graph",
		ArgsUsage: "[path|owner/repo[@ref]|git-url...]",
		Description: `Generates a single HTML file. Pass --insights to merge a reviewer's
commentary (executive summary, findings, per-class notes) written as JSON:

  {
    "summary": {"executive_summary": "...", "key_findings": ["..."],
                "recommendations": {"high_priority": [{"title": "...", "description": "..."}]}},
    "hierarchy": {"section_insight": "...", "item_annotations": [{"class": "A1", "comment": "..."}]},
    "encapsulation": {"section_insight": "...", "item_annotations": []}
  }`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "mood-report.html",
				Usage:   "Output HTML file",
			},
			&cli.StringFlag{
				Name:  "insights",
				Usage: "JSON file with commentary to include",
			},
			&cli.BoolFlag{
				Name:  "no-graph",
				Usage: "Leave out the inheritance diagram",
			},
		}, sourceFlags()...),
		Action: runReportCmd,
	}
}

func runReportCmd(c *cli.Context) error {
	var insights *report.Insights
	if path := c.String("insights"); path != "" {
		var err error
		if insights, err = report.LoadInsights(path); err != nil {
			return err
		}
	}

	svc, _, err := setup(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loaded, err := loadSources(ctx, c, svc)
	if err != nil || loaded == nil {
		return err
	}
	analysis, err := svc.Analyze(ctx, loaded.Classes)
	if err != nil {
		return err
	}

	var graph *models.InheritanceGraph
	if !c.Bool("no-graph") {
		if graph, err = svc.Graph(loaded.Classes, false); err != nil {
			return err
		}
	}

	paths := getPaths(c)
	meta := report.Metadata{
		Repository:  repositoryName(paths[0]),
		GeneratedAt: time.Now().UTC(),
		MoodVersion: version,
		Paths:       paths,
		Ref:         c.String("ref"),
	}
	data := report.BuildData(meta, analysis, loaded.Files, output.Skipped(loaded.Skipped), graph, insights)

	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}
	out := c.String("output")
	if err := renderer.RenderToFile(data, out); err != nil {
		return err
	}
	color.Green("Report written to %s", out)
	return nil
}

// repositoryName names the report after the analyzed directory.
func repositoryName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if !isDir(abs) {
		abs = filepath.Dir(abs)
	}
	return filepath.Base(abs)
}
