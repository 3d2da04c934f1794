package cmd

import (
	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Marquee MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents rank actors, resolve dataset
URLs and search actor posts via standard tools. Logs go to stderr.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		clock := contract.SystemClock{}
		return mcp.StartMCPServer(rootCtx, cfg, mcp.Deps{
			Fetcher:  newFetcher(cfg, clock),
			Searcher: newSearcher(cfg),
			Clock:    clock,
		})
	},
}
