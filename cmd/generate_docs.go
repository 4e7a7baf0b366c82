package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/mcp-todoist/internal/config"
	"github.com/teemow/mcp-todoist/internal/server"
	"github.com/teemow/mcp-todoist/internal/tools/todoist_tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var (
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, ensuring the documentation is always accurate and in sync
with the actual tool implementations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(outputFile string) error {
	// A server context without a token is enough to register the tools
	cfg := config.Default(version)
	serverContext, err := server.NewServerContext(context.Background(), cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	mcpSrv := newMCPServer(cfg)

	// Register all tools, including write operations
	if err := todoist_tools.RegisterTodoistTools(mcpSrv, serverContext, false); err != nil {
		return fmt.Errorf("failed to register Todoist tools: %w", err)
	}

	// Get the list of tools
	serverTools := mcpSrv.ListTools()

	// Extract mcp.Tool from each ServerTool
	tools := make([]mcp.Tool, 0, len(serverTools))
	for _, serverTool := range serverTools {
		tools = append(tools, serverTool.Tool)
	}

	// Generate markdown documentation
	markdown := generateToolsMarkdown(tools)

	// Write to output
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	} else {
		fmt.Print(markdown)
	}

	return nil
}

func generateToolsMarkdown(tools []mcp.Tool) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running mcp-todoist as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	// Group tools by category
	toolsByCategory := groupToolsByCategory(tools)

	// Table of contents
	sb.WriteString("## Table of Contents\n\n")
	categories := make([]string, 0, len(toolsByCategory))
	for category := range toolsByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		anchor := strings.ToLower(strings.ReplaceAll(category, " ", "-"))
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", category, anchor))
	}
	sb.WriteString("\n")

	// Referencing entities by name
	sb.WriteString("## Referencing Projects and Labels\n\n")
	sb.WriteString("Tools that act on a project or label accept either its id or its name:\n\n")
	sb.WriteString("- **Ids win:** when both `project_id` and `project_name` are given, the name is ignored\n")
	sb.WriteString("- **Names:** are matched case-insensitively against the first entity with that name\n")
	sb.WriteString("- **Read-only mode:** only the `list-*` tools are available\n\n")

	// Generate documentation for each category
	for _, category := range categories {
		categoryTools := toolsByCategory[category]
		sort.Slice(categoryTools, func(i, j int) bool {
			return categoryTools[i].Name < categoryTools[j].Name
		})

		sb.WriteString(fmt.Sprintf("## %s\n\n", category))

		for _, tool := range categoryTools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func groupToolsByCategory(tools []mcp.Tool) map[string][]mcp.Tool {
	categories := make(map[string][]mcp.Tool)

	for _, tool := range tools {
		category := getCategoryFromToolName(tool.Name)
		categories[category] = append(categories[category], tool)
	}

	return categories
}

// getCategoryFromToolName groups tools by the entity in their name, e.g.
// "create-task" belongs to "Task Tools".
func getCategoryFromToolName(name string) string {
	_, entity, ok := strings.Cut(name, "-")
	if !ok {
		return "Other"
	}

	switch strings.TrimSuffix(entity, "s") {
	case "task":
		return "Task Tools"
	case "project":
		return "Project Tools"
	case "label":
		return "Label Tools"
	default:
		return "Other"
	}
}

func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("### %s\n\n", tool.Name))
	if tool.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", tool.Description))
	}

	if len(tool.InputSchema.Properties) == 0 {
		sb.WriteString("This tool takes no arguments.\n")
		return sb.String()
	}

	sb.WriteString("**Arguments:**\n")

	// Sort properties for consistent output
	propNames := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		propNames = append(propNames, name)
	}
	sort.Strings(propNames)

	for _, name := range propNames {
		propMap, ok := tool.InputSchema.Properties[name].(map[string]any)
		if !ok {
			continue
		}

		requiredStr := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			requiredStr = "required"
		}

		sb.WriteString(fmt.Sprintf("- `%s` (%s, %s): ", name, getPropertyType(propMap), requiredStr))
		if desc, ok := propMap["description"].(string); ok {
			sb.WriteString(desc)
		}
		if constraints := describeConstraints(propMap); constraints != "" {
			sb.WriteString(" " + constraints)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func getPropertyType(prop map[string]any) string {
	t, ok := prop["type"].(string)
	if !ok {
		return "any"
	}
	if t == "array" {
		if items, ok := prop["items"].(map[string]any); ok {
			return getPropertyType(items) + "[]"
		}
	}
	return t
}

// describeConstraints renders allowed values, bounds and defaults.
func describeConstraints(prop map[string]any) string {
	var parts []string
	if enum, ok := prop["enum"].([]string); ok && len(enum) > 0 {
		parts = append(parts, "one of `"+strings.Join(enum, "`, `")+"`")
	}
	minimum, hasMin := prop["minimum"]
	maximum, hasMax := prop["maximum"]
	switch {
	case hasMin && hasMax:
		parts = append(parts, fmt.Sprintf("%v to %v", minimum, maximum))
	case hasMin:
		parts = append(parts, fmt.Sprintf("at least %v", minimum))
	}
	if def, ok := prop["default"]; ok {
		parts = append(parts, fmt.Sprintf("default `%v`", def))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, "; ") + ")"
}
