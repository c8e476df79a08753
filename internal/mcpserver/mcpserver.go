// Package mcpserver exposes class metrics over the Model Context Protocol.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/mood/pkg/config"
	"go.uber.org/zap"
)

// Server wraps the MCP server and registers the mood tools.
type Server struct {
	server *mcp.Server
	config *config.Config
	logger *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the configuration tool calls start from.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithLogger sets the logger. MCP speaks over stdout, so it must write
// elsewhere.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP server with all tools and prompts registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mood",
			Version: version,
		},
		nil,
	)

	s := &Server{
		server: server,
		config: config.DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", zap.String("transport", "stdio"))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds the analysis tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_mood",
		Description: describeMood(),
	}, s.handleAnalyzeMood)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "inheritance_graph",
		Description: describeGraph(),
	}, s.handleInheritanceGraph)
}
