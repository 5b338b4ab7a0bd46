package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/chunkstore"
	"github.com/pagelens/pagelens/internal/progress"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Ingest page snapshots into the chunk index",
	Long: `Walks a directory of markdown page snapshots, splits each one into
heading-scoped chunks, embeds them, and persists the index for ask, chat,
serve, and mcp to search.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSlice("include", nil, "glob patterns to include (default **/*.md)")
	ingestCmd.Flags().StringSlice("exclude", nil, "glob patterns to exclude")
	ingestCmd.Flags().Bool("replace", false, "re-ingest pages already in the index")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	replace, _ := cmd.Flags().GetBool("replace")

	files, err := chunkstore.FindSnapshots(args[0], include, exclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No snapshot files found.")
		return nil
	}

	store, _, err := openChunkStore(ctx, cfg)
	if err != nil {
		return err
	}

	reporter := progress.NewReporter()
	reporter.Start(len(files))

	var totalChunks int
	for i, f := range files {
		reporter.Update(i+1, f.RelPath)

		chunks, err := chunkstore.ChunkSnapshot(f)
		if err != nil {
			reporter.Finish()
			return err
		}
		if len(chunks) == 0 {
			continue
		}

		if replace {
			if err := store.DeleteByPage(ctx, f.RelPath); err != nil {
				reporter.Finish()
				return fmt.Errorf("removing stale chunks for %s: %w", f.RelPath, err)
			}
		}

		if err := store.AddChunks(ctx, chunks); err != nil {
			reporter.Finish()
			return fmt.Errorf("indexing %s: %w", f.RelPath, err)
		}
		totalChunks += len(chunks)
	}
	reporter.Finish()

	indexDir := filepath.Join(cfg.DataDir, "index")
	if err := store.Persist(ctx, indexDir); err != nil {
		return fmt.Errorf("persisting chunk index: %w", err)
	}

	fmt.Printf("Ingested %d snapshots (%d chunks) into %s\n", len(files), totalChunks, indexDir)
	return nil
}
