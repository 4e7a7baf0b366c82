package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/mcp-todoist/internal/config"
	"github.com/teemow/mcp-todoist/internal/operations"
	"github.com/teemow/mcp-todoist/internal/server"
	"github.com/teemow/mcp-todoist/internal/todoist"
)

func newCheckCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the Todoist API token",
		Long: `Load the configuration and list the Todoist projects once to verify
that the API token is accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sc, err := server.NewServerContext(cmd.Context(), cfg, newLogger(cfg))
			if err != nil {
				return fmt.Errorf("failed to create server context: %w", err)
			}
			defer func() {
				_ = sc.Shutdown()
			}()

			remote, err := sc.Remote()
			if err != nil {
				return todoist.Normalize("check", err)
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), cfg, remote)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to a YAML configuration file. Can also use MCP_TODOIST_CONFIG env var.")

	return cmd
}

func runCheck(ctx context.Context, out io.Writer, cfg *config.Config, remote operations.Remote) error {
	if ctx == nil {
		ctx = context.Background()
	}

	projects, err := remote.GetProjects(ctx)
	if err != nil {
		return todoist.Normalize("check", err)
	}

	fmt.Fprintf(out, "Connected to Todoist at %s\n", cfg.APIURL)
	fmt.Fprintf(out, "Projects: %d\n", len(projects))
	return nil
}
