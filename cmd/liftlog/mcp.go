package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/meltforce/liftlog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve workout history over MCP on stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout. Requests use the
credentials stored by 'liftlog login'.

AVAILABLE TOOLS:

  get_history           Completed sessions, newest first
  get_session           One session grouped by exercise
  list_exercises        Catalog entries, most recently used first
  get_last_set          Most recent set of an exercise
  get_training_summary  Weekly or monthly volume

AVAILABLE RESOURCES:

  liftlog://recent_sessions   The last three sessions with their sets`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.ServeStdio(mcp.New(app.client, Version, app.log))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
