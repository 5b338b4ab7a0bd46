package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-off question about the ingested page content",
	Long:  `Retrieves the most relevant page chunks, generates a cited answer, and prints it along with the numbered sources.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().Int("limit", 0, "maximum number of sources (default from config)")
	askCmd.Flags().Bool("no-stream", false, "print the answer only when complete")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, loaded, err := openChunkStore(ctx, cfg)
	if err != nil {
		return err
	}
	if !loaded || store.Count() == 0 {
		fmt.Println("Chunk index is empty. Run `pagelens ingest <dir>` first.")
		return nil
	}

	retriever, generator, err := buildPipeline(cfg, store)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 1 {
		limit = cfg.SearchLimit
	}
	noStream, _ := cmd.Flags().GetBool("no-stream")

	sess := session.New(retriever, generator, session.Options{
		SearchLimit: limit,
		Timeout:     cfg.TurnTimeout(),
	})

	var ev session.TurnEvents
	streamed := false
	if !noStream {
		ev.OnStreamChunk = func(chunk, accumulated string) {
			streamed = true
			fmt.Print(chunk)
		}
		ev.OnStreamComplete = func() {
			fmt.Println()
		}
	}

	turn, err := sess.Ask(ctx, args[0], ev)
	if err != nil {
		return err
	}

	// Error turns never stream; print their content directly.
	if noStream || !streamed {
		fmt.Println(turn.Assistant.Content)
	}

	if len(turn.Assistant.Sources) > 0 {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Sources:")
		for i, r := range turn.Assistant.Sources {
			trail := strings.Join(r.Chunk.Metadata.HeadingPath, " > ")
			fmt.Fprintf(os.Stderr, "  [%d] %s (%.0f%%)\n", i+1, trail, r.Score*100)
		}
	}

	return nil
}
