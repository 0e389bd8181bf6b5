// Package mcptools adapts an MCP server's tool catalog into
// toolregistry.Tool entries, so a Session can dispatch calls to a
// remote MCP tool exactly like a built-in one — the Tool Registry
// never distinguishes a tool's origin.
//
// Grounded directly on the teacher's pkg/mcp/integration.go
// MCPToolConverter, which does the same ListTools→types.Tool conversion
// for the older pkg/provider/types.Tool shape (returning interface{}
// content parts); here Execute returns the single string this
// runtime's ToolExecutor contract requires, so MCP content blocks are
// flattened to text instead of carried as structured parts.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/digitallysavvy/go-ai/pkg/mcp"
	"github.com/digitallysavvy/go-ai/pkg/toolregistry"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

// RegisterAll connects client, lists its tools, and registers one
// toolregistry.Tool per MCP tool into reg; each registered Tool's
// Execute calls back into the MCP server via client.CallTool. Returns
// the names registered.
func RegisterAll(ctx context.Context, client *mcp.MCPClient, reg *toolregistry.Registry) ([]string, error) {
	mcpTools, err := client.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("mcptools: list tools: %w", err)
	}

	names := make([]string, 0, len(mcpTools))
	for _, mt := range mcpTools {
		reg.Register(toTool(client, mt))
		names = append(names, mt.Name)
	}
	return names, nil
}

// toTool wraps a single MCP tool as a types.Tool whose Execute proxies
// the call to the MCP server and flattens its CallToolResult content
// blocks into the single string this runtime's ToolExecutor returns.
func toTool(client *mcp.MCPClient, mt mcp.MCPTool) types.Tool {
	var schema interface{} = mt.InputSchema
	return types.Tool{
		Name:        mt.Name,
		Description: mt.Description,
		Parameters:  schema,
		Execute: func(ctx context.Context, args map[string]interface{}, opts types.ToolExecutionOptions) (string, error) {
			result, err := client.CallTool(ctx, mt.Name, args)
			if err != nil {
				return "", fmt.Errorf("mcptools: call %s: %w", mt.Name, err)
			}
			text := flattenContent(result.Content)
			if result.IsError {
				return text, fmt.Errorf("mcptools: %s reported an error: %s", mt.Name, text)
			}
			return text, nil
		},
	}
}

// flattenContent concatenates an MCP result's content blocks into a
// single string: text blocks verbatim, everything else (image/resource)
// as a compact JSON summary, since a Tool's return value is plain text.
func flattenContent(blocks []mcp.ToolResultContent) string {
	var parts []string
	for _, b := range blocks {
		switch b.Type {
		case "text":
			parts = append(parts, b.Text)
		default:
			summary, err := json.Marshal(b)
			if err != nil {
				continue
			}
			parts = append(parts, string(summary))
		}
	}
	return strings.Join(parts, "\n")
}
