package main

import (
	"github.com/spf13/cobra"

	"github.com/unowned-ai/recipebox/pkg/api"
	"github.com/unowned-ai/recipebox/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the recipebox MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes the recipe store, the week
menu and recipe parsing as MCP tools via STDIO. Logs go to stderr.

Without RECIPEBOX_API_BASE_URL the server still starts; only parse_recipe is unavailable.

Example:

  recipebox mcp --db recipes.db 2> server.log`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, prefs, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		var client *api.Client
		if cfg.APIBaseURL == "" {
			logger.Warn("RECIPEBOX_API_BASE_URL not set, parse_recipe disabled")
		} else if client, err = newClient(prefs); err != nil {
			return err
		}

		srv := mcp.NewRecipeMCPServer(gateway, client, logger)
		srv.RegisterAllTools()
		return srv.Start()
	},
}
