package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/germtrack/core"
	"github.com/huangsam/germtrack/internal/contract"
	"github.com/huangsam/germtrack/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// requestConfig clones the base config and applies the overrides shared by every analysis tool.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateAnalysis(cfg,
		request.GetInt("seed_total", 0),
		request.GetString("t50_basis", ""),
		request.GetString("correlation_scope", ""))
	if err != nil {
		return nil, err
	}
	if t := request.GetString("treatment", ""); t != "" {
		cfg.Treatments = splitTreatments(t)
	}
	return cfg, nil
}

// analyze runs the pipeline on the document carried by the request.
func (h *toolHandler) analyze(ctx context.Context, request mcp.CallToolRequest) (*contract.Config, *schema.AnalysisResult, *mcp.CallToolResult) {
	document, err := request.RequireString("document")
	if err != nil || strings.TrimSpace(document) == "" {
		return nil, nil, mcp.NewToolResultError("document is required")
	}
	cfg, err := h.requestConfig(request)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("invalid analysis parameters: %v", err))
	}
	result, err := core.GetAnalysisResultsFromReader(core.WithSuppressHeader(ctx), cfg, h.mgr, strings.NewReader(document))
	if err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err))
	}
	return cfg, result, nil
}

func (h *toolHandler) handleAnalyzeGermination(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, result, errResult := h.analyze(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(schema.RenderResult(result))
}

// treatmentCurve is the curve payload returned for one treatment.
type treatmentCurve struct {
	Name       string                 `json:"name"`
	Replicates int                    `json:"replicates"`
	Curve      []schema.DayStatRender `json:"curve"`
}

func (h *toolHandler) handleGetCurves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, result, errResult := h.analyze(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	curves := make([]treatmentCurve, len(result.Treatments))
	for i, tr := range result.Treatments {
		curves[i] = treatmentCurve{
			Name:       tr.Name,
			Replicates: tr.Summary.Replicates,
			Curve:      schema.RenderCurve(tr.Summary),
		}
	}
	return jsonResult(curves)
}

func (h *toolHandler) handleCheckGermination(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threshold, err := request.RequireFloat("threshold")
	if err != nil {
		return mcp.NewToolResultError("threshold is required"), nil
	}
	if threshold < 0 || threshold > 100 {
		return mcp.NewToolResultError(fmt.Sprintf("threshold must be between 0 and 100 (received %g)", threshold)), nil
	}

	cfg, result, errResult := h.analyze(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	cfg.GerminabilityThreshold = threshold

	check := core.NewCheckResultBuilder(ctx, cfg, h.mgr).
		WithAnalysis(result).
		BuildResult().
		GetResult()
	return jsonResult(schema.RenderCheck(check))
}

func (h *toolHandler) handleDescribeParameters(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	basis := schema.T50Basis(strings.ToLower(request.GetString("t50_basis", string(h.baseCfg.T50Basis))))
	if _, ok := schema.ValidT50Bases[basis]; !ok && basis != "" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid t50_basis '%s'. must be sown, germinated", basis)), nil
	}
	return jsonResult(core.FormulaDefinitions(basis))
}

// jsonResult wraps a payload as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// splitTreatments parses a comma-separated treatment filter.
func splitTreatments(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
