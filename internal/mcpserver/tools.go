package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/internal/service/analysis"
	"github.com/panbanda/mood/pkg/loader"
)

// AnalyzeInput is the base input for all tools.
type AnalyzeInput struct {
	Paths  []string          `json:"paths,omitempty" jsonschema:"Files or directories to analyze, or remote repositories (owner/repo[@ref] or a git URL). Defaults to current directory if empty."`
	Files  map[string]string `json:"files,omitempty" jsonschema:"Inline Python sources keyed by file name. When set, paths are ignored."`
	Ref    string            `json:"ref,omitempty" jsonschema:"Git revision to read files from instead of the working tree."`
	Format string            `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml, markdown or records."`
}

// MoodInput adds analysis options.
type MoodInput struct {
	AnalyzeInput
	IncludeTests bool   `json:"include_tests,omitempty" jsonschema:"Include test modules in analysis."`
	Sort         string `json:"sort,omitempty" jsonschema:"Sort classes by metric: name, dit, noc, mif, mhf, aif or ahf. Default is load order."`
	Top          int    `json:"top,omitempty" jsonschema:"Show only the first N classes after sorting. Totals still cover every class."`
}

// GraphInput adds graph options.
type GraphInput struct {
	AnalyzeInput
	Style    string `json:"style,omitempty" jsonschema:"Diagram style when no structured format is requested: mermaid (default) or dot."`
	External bool   `json:"external,omitempty" jsonschema:"Include bases defined outside the analyzed files as external nodes."`
}

// Helper functions

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(input AnalyzeInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "yaml", "yml":
		return output.FormatYAML
	case "markdown", "md":
		return output.FormatMarkdown
	case "records":
		return output.FormatRecords
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	var buf bytes.Buffer
	if err := output.NewFormatterTo(&buf, format, false).Output(data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// service builds an analysis service for one call over a copy of the
// server config.
func (s *Server) service(includeTests bool) *analysis.Service {
	cfg := *s.config
	if includeTests {
		cfg.Analysis.IncludeTests = true
	}
	return analysis.New(analysis.WithConfig(&cfg), analysis.WithLogger(s.logger))
}

func (s *Server) load(ctx context.Context, svc *analysis.Service, input AnalyzeInput) (*loader.Result, error) {
	in := analysis.Inline(input.Files)
	if len(input.Files) == 0 {
		paths, cleanup, err := svc.Fetch(ctx, getPaths(input), io.Discard)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		in, err = svc.Resolve(paths, input.Ref)
		if err != nil {
			return nil, err
		}
	}
	if len(in.Files) == 0 {
		return nil, errors.New("no Python files found")
	}
	return svc.Load(ctx, in, analysis.LoadOptions{})
}

// Tool handlers

func (s *Server) handleAnalyzeMood(ctx context.Context, req *mcp.CallToolRequest, input MoodInput) (*mcp.CallToolResult, any, error) {
	svc := s.service(input.IncludeTests)
	loaded, err := s.load(ctx, svc, input.AnalyzeInput)
	if err != nil {
		return toolError(err.Error())
	}

	result, err := svc.Analyze(ctx, loaded.Classes)
	if err != nil {
		return toolError(err.Error())
	}
	if input.Sort != "" {
		result.SortBy(input.Sort)
	}
	if input.Top > 0 && len(result.Classes) > input.Top {
		result.Classes = result.Classes[:input.Top]
	}

	return toolResult(output.NewMoodReport(result, output.Skipped(loaded.Skipped)), getFormat(input.AnalyzeInput))
}

func (s *Server) handleInheritanceGraph(ctx context.Context, req *mcp.CallToolRequest, input GraphInput) (*mcp.CallToolResult, any, error) {
	style, err := output.ParseGraphStyle(input.Style)
	if err != nil {
		return toolError(err.Error())
	}

	svc := s.service(false)
	loaded, err := s.load(ctx, svc, input.AnalyzeInput)
	if err != nil {
		return toolError(err.Error())
	}
	graph, err := svc.Graph(loaded.Classes, input.External)
	if err != nil {
		return toolError(err.Error())
	}

	report := &output.GraphReport{Graph: graph, Style: style}
	if input.Format == "" {
		return toolResult(report, output.FormatText)
	}
	format := getFormat(input.AnalyzeInput)
	if format == output.FormatRecords {
		return toolError(fmt.Sprintf("format %q is not available for graphs", input.Format))
	}
	return toolResult(report, format)
}
