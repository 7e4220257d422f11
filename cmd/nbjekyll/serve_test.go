package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestNewServeCmd(t *testing.T) {
	cmd := newServeCmd()

	if cmd.Use != "serve" {
		t.Errorf("Use = %q, want %q", cmd.Use, "serve")
	}
	if cmd.RunE == nil {
		t.Error("RunE is nil")
	}
}

// TestServe_Tools builds the server the way the serve command does and
// calls its tools over an in-memory connection.
func TestServe_Tools(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, "_post.ipynb"), postNotebook)

	a, err := loadApp(newServeCmd(), appOptions{needTemplate: true})
	if err != nil {
		t.Fatalf("loadApp() error = %v", err)
	}
	t.Cleanup(a.close)

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := newMCPServer(a).Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"prepare_notebook", "inspect_notebook"} {
		if !names[want] {
			t.Errorf("tool %q not registered", want)
		}
	}

	prepared, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "prepare_notebook",
		Arguments: map[string]any{"path": "_post.ipynb"},
	})
	if err != nil || prepared.IsError {
		t.Fatalf("prepare_notebook: err = %v, result = %+v", err, prepared)
	}

	inspected, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "inspect_notebook",
		Arguments: map[string]any{"path": "post.ipynb"},
	})
	if err != nil || inspected.IsError {
		t.Fatalf("inspect_notebook: err = %v, result = %+v", err, inspected)
	}
	if inspected.StructuredContent == nil {
		t.Error("inspect_notebook returned no structured content")
	}
}

func TestCommandGroups(t *testing.T) {
	root := newRootCmd()
	want := map[string]string{
		"export":     "core",
		"inspect":    "core",
		"verify":     "core",
		"watch":      "core",
		"hooks":      "git",
		"signatures": "admin",
		"serve":      "admin",
	}
	for name, group := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
			continue
		}
		if cmd.GroupID != group {
			t.Errorf("%s group = %q, want %q", name, cmd.GroupID, group)
		}
	}
}
