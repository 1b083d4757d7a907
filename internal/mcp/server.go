// Package mcp implements the Model Context Protocol server, exposing
// mdaudit's analyzers to LLMs. This enables AI assistants to audit a
// documentation corpus and act on the findings through a standardised
// protocol.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jpl-au/mdaudit/internal/config"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// Serve starts the MCP server over stdio, enabling LLM integration.
// Uses stdio transport for compatibility with Claude Desktop and other MCP
// clients.
//
// Design: configuration is loaded once at startup, so every tool call in a
// session audits with the same thresholds and toolchains. Progress output is
// suppressed; stderr carries only the protocol log.
func Serve() error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}
	h := &handlers{cfg: cfg}

	s := server.NewMCPServer(
		"mdaudit",
		Version,
		server.WithToolCapabilities(true),
	)

	registerTools(s, h)

	slog.Info("mdaudit MCP server ready", "version", Version, "transport", "stdio")

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// handlers provides MCP request handlers with access to the loaded config.
type handlers struct {
	cfg *config.Config
}

// registerTools exposes the audit pipeline as MCP tools for LLM invocation.
func registerTools(s *server.MCPServer, h *handlers) {
	// Full pipeline: the scored report
	s.AddTool(
		mcp.NewTool("mdaudit_check",
			mcp.WithDescription("Audit a Markdown corpus: check code examples against toolchains, resolve cross-references, detect duplicated content, and score the result"),
			mcp.WithString("root", mcp.Required(), mcp.Description("Corpus root directory containing .md files")),
			mcp.WithNumber("jobs", mcp.Description("Concurrent document loads (default: 8)")),
			mcp.WithNumber("compile_jobs", mcp.Description("Concurrent compile checks (default: 4)")),
		),
		h.check,
	)

	// Code examples only
	s.AddTool(
		mcp.NewTool("mdaudit_examples",
			mcp.WithDescription("Check every fenced code block in a corpus against the configured language toolchains"),
			mcp.WithString("root", mcp.Required(), mcp.Description("Corpus root directory containing .md files")),
			mcp.WithNumber("compile_jobs", mcp.Description("Concurrent compile checks (default: 4)")),
			mcp.WithBoolean("failures_only", mcp.Description("Return only blocks that failed a check")),
		),
		h.examples,
	)

	// Link graph only
	s.AddTool(
		mcp.NewTool("mdaudit_links",
			mcp.WithDescription("Resolve every internal link in a corpus against minted heading anchors, reporting broken links with repair suggestions and orphan anchors"),
			mcp.WithString("root", mcp.Required(), mcp.Description("Corpus root directory containing .md files")),
		),
		h.links,
	)

	// Redundancy only
	s.AddTool(
		mcp.NewTool("mdaudit_redundancy",
			mcp.WithDescription("Detect exact duplicates, near duplicates, and conceptual overlap between blocks of a corpus"),
			mcp.WithString("root", mcp.Required(), mcp.Description("Corpus root directory containing .md files")),
			mcp.WithNumber("overlap", mcp.Description("Report pairs scoring at or above this (default: 0.7)")),
			mcp.WithNumber("near", mcp.Description("Near-duplicate threshold (default: 0.9)")),
		),
		h.redundancy,
	)

	// Run history
	s.AddTool(
		mcp.NewTool("mdaudit_history",
			mcp.WithDescription("List previous audit runs with their scores, newest first"),
			mcp.WithNumber("limit", mcp.Description("Maximum entries to return (default: 20)")),
		),
		h.listHistory,
	)
}
