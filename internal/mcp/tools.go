// tools.go implements the MCP tool handlers.
//
// Separated from server.go to keep registration and execution apart. The
// handlers delegate to internal/audit rather than driving the analyzers
// directly, so the MCP surface behaves identically to the CLI. All results
// are structured JSON for LLM consumption rather than rendered markdown.
//
// Design: errors return MCP tool error results rather than Go errors. This
// ensures the LLM receives actionable feedback it can parse and potentially
// retry, rather than causing the entire tool call to fail at the protocol
// level.

package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/mdaudit/internal/audit"
	"github.com/jpl-au/mdaudit/internal/example"
	"github.com/jpl-au/mdaudit/internal/history"
	"github.com/jpl-au/mdaudit/internal/linkgraph"
	"github.com/jpl-au/mdaudit/internal/redundancy"
)

// check handles mdaudit_check tool calls: the full pipeline.
func (h *handlers) check(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := audit.Options{
		Root:        root,
		LoadJobs:    getInt(req, "jobs", 0),
		CompileJobs: getInt(req, "compile_jobs", 0),
		Quiet:       true,
	}

	rep, err := audit.Run(ctx, h.cfg, opts)
	history.Event("mcp:check").Root(root).FromReport(rep).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rep)
}

// examples handles mdaudit_examples tool calls.
func (h *handlers) examples(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := audit.Options{
		Root:        root,
		CompileJobs: getInt(req, "compile_jobs", 0),
		Quiet:       true,
	}

	c, err := audit.LoadCorpus(h.cfg, opts)
	l := history.Event("mcp:examples").Root(root)
	if err != nil {
		l.Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	results, partial := audit.Examples(ctx, h.cfg, c, opts)
	if getBool(req, "failures_only", false) {
		var failures []example.Result
		for _, r := range results {
			if !r.Skipped && !r.Passed() {
				failures = append(failures, r)
			}
		}
		results = failures
	}
	l.Detail("blocks", len(results)).Write(nil)

	return jsonResult(struct {
		Partial bool             `json:"partial"`
		Results []example.Result `json:"results"`
	}{Partial: partial, Results: results})
}

// links handles mdaudit_links tool calls.
func (h *handlers) links(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	_, g, err := audit.Links(h.cfg, audit.Options{Root: root, Quiet: true})
	l := history.Event("mcp:links").Root(root)
	if err != nil {
		l.Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	l.Detail("links", len(g.Links)).Detail("broken", len(g.Broken)).Write(nil)

	return jsonResult(struct {
		Total    int                `json:"total"`
		Resolved int                `json:"resolved"`
		Broken   []linkgraph.Broken `json:"broken,omitempty"`
		Orphans  []linkgraph.Anchor `json:"orphans,omitempty"`
	}{Total: len(g.Links), Resolved: g.Resolved(), Broken: g.Broken, Orphans: g.Orphans})
}

// redundancy handles mdaudit_redundancy tool calls.
//
// Threshold parameters override the loaded config for this call only; the
// handler copies the config so concurrent tool calls never observe each
// other's overrides.
func (h *handlers) redundancy(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := h.cfg
	if overlap, near := getFloat(req, "overlap", 0), getFloat(req, "near", 0); overlap > 0 || near > 0 {
		t := cfg.ResolvedThresholds()
		if overlap > 0 {
			t.Overlap = overlap
		}
		if near > 0 {
			t.Near = near
		}
		if err := t.Validate(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		override := *cfg
		override.Thresholds = &t
		cfg = &override
	}

	_, pairs, err := audit.Redundancy(cfg, audit.Options{Root: root, Quiet: true})
	l := history.Event("mcp:redundancy").Root(root)
	if err != nil {
		l.Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	l.Detail("pairs", len(pairs)).Write(nil)

	return jsonResult(struct {
		Pairs            []redundancy.Pair `json:"pairs,omitempty"`
		DuplicatedBlocks int               `json:"duplicated_blocks"`
	}{Pairs: pairs, DuplicatedBlocks: redundancy.DuplicatedBlocks(pairs)})
}

// listHistory handles mdaudit_history tool calls.
func (h *handlers) listHistory(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := history.List(getInt(req, "limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(entries)
}

// getInt extracts an integer parameter from the MCP request arguments.
//
// JSON numbers decode as float64 in Go, so we type assert to float64 first
// and then convert. Returns the default if the parameter is missing or not a
// number; an LLM omitting an optional parameter shouldn't cause cryptic
// errors.
func getInt(req mcp.CallToolRequest, name string, def int) int {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

// getFloat extracts a float parameter from the MCP request arguments,
// returning the default when missing or mistyped.
func getFloat(req mcp.CallToolRequest, name string, def float64) float64 {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(float64); ok {
		return v
	}
	return def
}

// getBool extracts a boolean parameter from the MCP request arguments.
// Returns the default if missing or not a boolean, which handles cases where
// an LLM might accidentally pass "true" (string) instead of true (boolean).
func getBool(req mcp.CallToolRequest, name string, def bool) bool {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(bool); ok {
		return v
	}
	return def
}

// jsonResult serialises any value as pretty-printed JSON and wraps it in an
// MCP text result. LLMs parse structured output more reliably when it is
// formatted for readability; the token cost is worth the parsing accuracy.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
