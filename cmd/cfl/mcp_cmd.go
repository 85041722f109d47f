package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/igusev/cfl/internal/logger"
	"github.com/igusev/cfl/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve company lookups as MCP tools over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout.

Tools:
  search_companies  search by code, name or furigana
  cache_stats       session, cache and index statistics
  clear_cache       drop memoized search results
  reload            fetch the company list again

Logs go to stderr so stdout stays reserved for the protocol.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(sourceOverride)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	sess := newSession(cfg)
	if list, err := sess.Load(cmd.Context()); err != nil {
		// The server still starts; the reload tool can recover
		logger.Warn("Initial load failed: %v", err)
	} else {
		logger.Debug("Loaded %d companies (updated %s)", list.Len(), list.UpdateTime)
	}

	return mcp.NewServer(sess, version).Serve(cmd.Context())
}
