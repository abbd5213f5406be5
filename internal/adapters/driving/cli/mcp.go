package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driving/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so an AI assistant can run
refresh_section, push_to_tracker and list_anchors.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead, e.g. for the MCP Inspector.

Examples:
  # Stdio mode (default)
  actionsync serve

  # HTTP mode
  actionsync serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "actionsync": {
        "command": "/path/to/actionsync",
        "args": ["serve"]
      }
    }
  }`,
	Args:        cobra.NoArgs,
	Annotations: documentAnnotation,
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if actionService == nil {
		return errors.New("action item service not configured")
	}

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Actions: actionService,
	}
	if anchorService != nil {
		ports.Anchors = anchorService
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
