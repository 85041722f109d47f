package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchCompaniesTool returns the tool definition for search_companies
func searchCompaniesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_companies",
		Description: "Search listed Japanese companies by code, name or furigana. Separate multiple terms with commas or newlines.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "One or more search terms separated by commas or newlines",
				},
				"exact": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, match whole codes or names (株式会社 may be omitted) instead of substrings",
					"default":     false,
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of companies to return (0 returns all)",
					"default":     0,
					"minimum":     0,
				},
			},
			Required: []string{"query"},
		},
	}
}

// cacheStatsTool returns the tool definition for cache_stats
func cacheStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "cache_stats",
		Description: "Report loaded company count, search cache size and index statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// clearCacheTool returns the tool definition for clear_cache
func clearCacheTool() mcp.Tool {
	return mcp.Tool{
		Name:        "clear_cache",
		Description: "Drop every cached search result",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// reloadTool returns the tool definition for reload
func reloadTool() mcp.Tool {
	return mcp.Tool{
		Name:        "reload",
		Description: "Fetch the company list again and replace the loaded data",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
