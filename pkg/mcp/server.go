package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	recipebox "github.com/unowned-ai/recipebox/pkg"
	"github.com/unowned-ai/recipebox/pkg/api"
	"github.com/unowned-ai/recipebox/pkg/recipes"
)

// RecipeMCPServer exposes the recipe store and the parse service as MCP
// tools over stdio.
type RecipeMCPServer struct {
	mcpServer *server.MCPServer
	gateway   *recipes.Gateway
	client    *api.Client
	log       *zap.Logger
}

// NewRecipeMCPServer builds the server around an open gateway. client may
// be nil when no parse service is configured; parse_recipe then reports an
// error instead of calling out.
func NewRecipeMCPServer(gateway *recipes.Gateway, client *api.Client, logger *zap.Logger) *RecipeMCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"Recipebox MCP Server",
		recipebox.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)
	return &RecipeMCPServer{
		mcpServer: s,
		gateway:   gateway,
		client:    client,
		log:       logger.Named("mcp"),
	}
}

// RegisterAllTools registers every recipebox tool.
func (s *RecipeMCPServer) RegisterAllTools() {
	RegisterPingTool(s.mcpServer)
	RegisterParseRecipeTool(s.mcpServer, s.gateway, s.client)
	RegisterListRecipesTool(s.mcpServer, s.gateway)
	RegisterGetRecipeTool(s.mcpServer, s.gateway)
	RegisterToggleFavoriteTool(s.mcpServer, s.gateway)
	RegisterMarkCookedTool(s.mcpServer, s.gateway)
	RegisterDeleteRecipeTool(s.mcpServer, s.gateway)
	RegisterPlanRecipeTool(s.mcpServer, s.gateway)
	RegisterWeekMenuTool(s.mcpServer, s.gateway)
	RegisterListTagsTool(s.mcpServer, s.gateway)
	s.log.Debug("tools registered")
}

// Start runs the stdio event loop. Register tools beforehand.
func (s *RecipeMCPServer) Start() error {
	s.log.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *RecipeMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}
