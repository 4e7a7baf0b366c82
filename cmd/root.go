package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mcp-todoist application
var rootCmd = &cobra.Command{
	Use:   "mcp-todoist",
	Short: "MCP server for managing Todoist tasks, projects and labels",
	Long: `mcp-todoist is a Model Context Protocol (MCP) server that lets AI
assistants read and manage your Todoist tasks, projects and labels.

Set TODOIST_API_TOKEN to your Todoist API token before starting the server.
Running without a subcommand starts the server on stdio.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mcp-todoist version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
