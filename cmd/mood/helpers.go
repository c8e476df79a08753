package main

import (
	"fmt"
	"slices"

	"github.com/fatih/color"
	"github.com/panbanda/mood/internal/logging"
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/internal/service/analysis"
	"github.com/panbanda/mood/pkg/config"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// sortKeys are the accepted --sort values.
var sortKeys = []string{"name", "dit", "noc", "mif", "mhf", "aif", "ahf"}

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig reads --config, or the first config file found from the
// working directory, or the defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		return cfg, nil
	}
	cfg, path, err := config.LoadOrDefault()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// newLogger builds the stderr logger from config plus --verbose and
// --log-format, and keeps it for the app's After hook to flush.
func newLogger(c *cli.Context, cfg *config.Config) (*zap.Logger, error) {
	logCfg := cfg.Log
	if c.Bool("verbose") {
		logCfg.Level = "debug"
	}
	if f := c.String("log-format"); f != "" {
		logCfg.Encoding = f
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}
	c.App.Metadata["logger"] = logger
	return logger, nil
}

// setup loads config and logger and builds the analysis service.
func setup(c *cli.Context) (*analysis.Service, *zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	if c.IsSet("include-tests") {
		cfg.Analysis.IncludeTests = c.Bool("include-tests")
	}
	logger, err := newLogger(c, cfg)
	if err != nil {
		return nil, nil, err
	}
	return analysis.New(analysis.WithConfig(cfg), analysis.WithLogger(logger)), logger, nil
}

// outputFormat resolves --format against the configured default.
func outputFormat(c *cli.Context, cfg *config.Config) (output.Format, error) {
	name := c.String("format")
	if name == "" {
		name = cfg.Output.Format
	}
	if !slices.Contains(config.Formats, name) {
		return "", fmt.Errorf("unknown format %q: want one of %v", name, config.Formats)
	}
	return output.ParseFormat(name), nil
}

func colored(cfg *config.Config) bool {
	return cfg.Output.Color && !color.NoColor
}

func validateSort(key string) error {
	if key != "" && !slices.Contains(sortKeys, key) {
		return fmt.Errorf("unknown sort key %q: want one of %v", key, sortKeys)
	}
	return nil
}
