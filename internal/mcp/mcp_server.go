// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/germtrack/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the germtrack MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Germination Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	documentOpt := mcp.WithString("document",
		mcp.Description("Trial document as JSON or YAML: a list of treatments, each with replicate names, optional seed totals and daily germination counts."),
		mcp.Required())
	seedTotalOpt := mcp.WithNumber("seed_total", mcp.Description("Seeds sown per replicate when the document omits them. Defaults to 25."))
	basisOpt := mcp.WithString("t50_basis", mcp.Description("Denominator for T50: seeds sown or seeds germinated. Defaults to 'sown'."), mcp.Enum("sown", "germinated"))
	treatmentOpt := mcp.WithString("treatment", mcp.Description("Comma-separated treatment names to keep. Defaults to all treatments."))

	// --- 1. Tool: analyze_germination ---
	s.AddTool(mcp.NewTool("analyze_germination",
		mcp.WithDescription("Compute per-replicate germination indices, per-treatment summaries, daily curves and index correlations."),
		documentOpt,
		seedTotalOpt,
		basisOpt,
		mcp.WithString("correlation_scope", mcp.Description("Pool all replicates into one correlation matrix or compute one per treatment. Defaults to 'global'."), mcp.Enum("global", "treatment")),
		treatmentOpt,
	), h.handleAnalyzeGermination)

	// --- 2. Tool: get_germination_curves ---
	s.AddTool(mcp.NewTool("get_germination_curves",
		mcp.WithDescription("Return the mean and standard deviation of cumulative germination per day for every treatment."),
		documentOpt,
		seedTotalOpt,
		treatmentOpt,
	), h.handleGetCurves)

	// --- 3. Tool: check_germination ---
	s.AddTool(mcp.NewTool("check_germination",
		mcp.WithDescription("Check that every treatment's mean germinability (G%) meets a minimum threshold."),
		documentOpt,
		seedTotalOpt,
		mcp.WithNumber("threshold", mcp.Description("Minimum mean germinability in percent (0-100)."), mcp.Required()),
		treatmentOpt,
	), h.handleCheckGermination)

	// --- 4. Tool: describe_parameters ---
	s.AddTool(mcp.NewTool("describe_parameters",
		mcp.WithDescription("Describe the formula, unit and undefined cases of every germination index."),
		basisOpt,
	), h.handleDescribeParameters)

	return s
}

// StartMCPServer starts the germtrack MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
