package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/db"
	"github.com/pagelens/pagelens/internal/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat over the ingested page content",
	Long: `Opens a conversational loop: each question is answered from the chunk
index with inline citations, and older turns are summarized automatically so
the conversation never grows unbounded. Type /clear to reset the
conversation and /exit to leave.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("page-url", "", "page URL to associate with the session")
	chatCmd.Flags().Bool("no-persist", false, "do not record the session in the local database")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
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

	pageURL, _ := cmd.Flags().GetString("page-url")
	noPersist, _ := cmd.Flags().GetBool("no-persist")

	var sessStore *session.Store
	if !noPersist {
		database, err := db.Open(filepath.Join(cfg.DataDir, "sessions.db"))
		if err != nil {
			return fmt.Errorf("opening session database: %w", err)
		}
		defer database.Close()
		sessStore = session.NewStore(database)
	}

	sess := session.New(retriever, generator, session.Options{
		PageURL:     pageURL,
		SearchLimit: cfg.SearchLimit,
		Timeout:     cfg.TurnTimeout(),
		Store:       sessStore,
	})

	fmt.Printf("pagelens chat (%d chunks indexed). /clear resets, /exit quits.\n\n", store.Count())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/clear":
			sess.Clear()
			fmt.Println("Conversation cleared.")
			continue
		}

		ev := session.TurnEvents{
			OnStreamChunk: func(chunk, accumulated string) {
				fmt.Print(chunk)
			},
			OnStreamComplete: func() {
				fmt.Print("\n\n")
			},
		}

		turn, err := sess.Ask(ctx, line, ev)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		// Error turns never stream, so nothing was printed yet.
		if strings.HasPrefix(turn.Assistant.Content, "Error:") {
			fmt.Printf("%s\n\n", turn.Assistant.Content)
		}
	}
}
