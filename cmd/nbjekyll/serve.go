package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	nbmcp "github.com/gorewood/nbjekyll/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run nbjekyll as a Model Context Protocol (MCP) server over stdio, so
editors and agents can prepare and inspect notebooks.

Configure in your client's MCP settings:
  {
    "mcpServers": {
      "nbjekyll": {
        "command": "nbjekyll",
        "args": ["serve"]
      }
    }
  }

Available tools: prepare_notebook, inspect_notebook`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, appOptions{needTemplate: true})
			if err != nil {
				return fail(newPrinter(cmd), err)
			}
			defer a.close()

			return newMCPServer(a).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

// newMCPServer exposes a's exporter and options as MCP tools.
func newMCPServer(a *app) *mcp.Server {
	return nbmcp.NewServer(buildVersion(), nbmcp.Deps{Exporter: a.exporter, Options: a.opts})
}
