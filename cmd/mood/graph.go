package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/panbanda/mood/internal/output"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Usage:     "Emit the class inheritance graph as Mermaid or Graphviz DOT",
		ArgsUsage: "[path|owner/repo[@ref]|git-url...]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "style",
				Value: "mermaid",
				Usage: "Diagram style: mermaid or dot",
			},
			&cli.BoolFlag{
				Name:  "external",
				Usage: "Show bases defined outside the analyzed files as dashed nodes",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text (diagram), markdown (fenced diagram), json, yaml, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
		}, sourceFlags()...),
		Action: runGraphCmd,
	}
}

func runGraphCmd(c *cli.Context) error {
	style, err := output.ParseGraphStyle(c.String("style"))
	if err != nil {
		return err
	}

	svc, logger, err := setup(c)
	if err != nil {
		return err
	}
	format := output.FormatText
	if c.String("format") != "" {
		if format, err = outputFormat(c, svc.Config()); err != nil {
			return err
		}
	}
	if format == output.FormatRecords {
		format = output.FormatText
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loaded, err := loadSources(ctx, c, svc)
	if err != nil || loaded == nil {
		return err
	}

	graph, err := svc.Graph(loaded.Classes, c.Bool("external"))
	if err != nil {
		return err
	}
	logger.Info("graph built", zap.Int("nodes", len(graph.Nodes)), zap.Int("edges", len(graph.Edges)))

	formatter, err := output.NewFormatter(format, c.String("output"), false)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(&output.GraphReport{Graph: graph, Style: style})
}
