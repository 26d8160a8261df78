package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"url-summarizer/internal/domain/entity"
	"url-summarizer/internal/handler/http/respond"
	"url-summarizer/internal/observability/logging"
)

func (s *Server) registerTools() {
	scrapeTool := mcp.NewTool("scrape_url",
		mcp.WithDescription("指定されたURLのWebページをスクレイピングし、本文をMarkdownで返します"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("スクレイピング対象のURL"),
		),
	)
	s.mcpServer.AddTool(scrapeTool, s.handleScrapeURL)

	summarizeContentTool := mcp.NewTool("summarize_content",
		mcp.WithDescription("与えられたテキストを日本語で要約します"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("要約するテキスト"),
		),
		mcp.WithNumber("maxLength",
			mcp.Description("要約の目安文字数 (既定値 1000)"),
		),
	)
	s.mcpServer.AddTool(summarizeContentTool, s.handleSummarizeContent)

	summarizeURLTool := mcp.NewTool("summarize_url",
		mcp.WithDescription("URLのページを取得して日本語で要約します"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("要約対象のURL"),
		),
		mcp.WithNumber("maxLength",
			mcp.Description("要約の目安文字数 (既定値 1000)"),
		),
	)
	s.mcpServer.AddTool(summarizeURLTool, s.handleSummarizeURL)
}

func (s *Server) handleScrapeURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if err := entity.ValidateURL(url); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, err := s.pipeline.Fetch(ctx, url)
	if err != nil {
		return toolError(ctx, "scrape_url", err), nil
	}
	return mcp.NewToolResultText(content.Text), nil
}

func (s *Server) handleSummarizeContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := request.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("content parameter required"), nil
	}

	opts := entity.SummaryOptions{MaxLength: int(request.GetFloat("maxLength", 0))}
	summary, err := s.pipeline.SummarizeContent(ctx, content, opts)
	if err != nil {
		return toolError(ctx, "summarize_content", err), nil
	}
	return mcp.NewToolResultText(summary), nil
}

func (s *Server) handleSummarizeURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := entity.SummaryRequest{
		URL:       request.GetString("url", ""),
		MaxLength: int(request.GetFloat("maxLength", 0)),
	}
	if err := entity.ValidateURL(req.URL); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pipeline.Summarize(ctx, req)
	if err != nil {
		return toolError(ctx, "summarize_url", err), nil
	}
	return mcp.NewToolResultText(result.Summary), nil
}

// toolError reports a pipeline failure to the agent as a tool error rather
// than a protocol error.
func toolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	msg := respond.SanitizeError(err)
	logging.FromContext(ctx).Error("tool call failed",
		slog.String("tool", tool),
		slog.String("error", msg))
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %s", tool, msg))
}
