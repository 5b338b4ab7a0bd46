package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/pagelens/pagelens/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing page search and question answering tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, loaded, err := openChunkStore(context.Background(), cfg)
		if err != nil {
			return err
		}
		if !loaded {
			fmt.Fprintln(os.Stderr, "Warning: chunk index is empty. Run `pagelens ingest` first.")
		}

		retriever, generator, err := buildPipeline(cfg, store)
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "pagelens MCP server started on stdio (%d chunks indexed)\n", store.Count())

		srv := mcpserver.NewServer(retriever, generator, cfg.SearchLimit)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
