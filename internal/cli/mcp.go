package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvasnytsia/famplan/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Run a Model Context Protocol server that exposes the planner's task
operations as tools, so an AI assistant can list, create, complete,
and delete tasks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}

		server := mcp.NewServer(Store, appVersion)
		if err := server.Run(cmd.Context()); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
