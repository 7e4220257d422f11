// Package mcp provides a Model Context Protocol server for nbjekyll.
// It exposes notebook preparation and inspection as MCP tools.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/nbjekyll/internal/export"
	"github.com/gorewood/nbjekyll/internal/preprocess"
)

// Deps are the services the tools run on.
type Deps struct {
	Exporter *export.Exporter
	// Options are the defaults for prepare_notebook.
	Options preprocess.Options
}

// NewServer creates an MCP server with all nbjekyll tools registered.
func NewServer(version string, deps Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "nbjekyll",
		Version: version,
	}, nil)
	registerTools(server, deps)
	return server
}

func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for tools that write notebooks.
// In-place runs replace the source, so they are marked destructive.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
		IdempotentHint:  true,
		OpenWorldHint:   boolPtr(false),
	}
}

func registerTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "prepare_notebook",
		Description: "Prepare a Jupyter notebook for a Jekyll blog. header_type markdown renders the front matter " +
			"as a presentation header and hides auxiliary raw cells; raw restores the YAML header and the hidden cells. " +
			"Writes to outfile, to the source with in_place, or to the name without its leading '<prefix>_' segment.",
		Annotations: writeAnnotations(),
	}, handlePrepare(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect_notebook",
		Description: "Summarize a notebook: cells with types, tags and nested hidden cells, the front matter and its header style, and the trust signature.",
		Annotations: readOnlyAnnotations(),
	}, handleInspect(deps))
}
