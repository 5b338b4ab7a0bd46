package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/db"
	"github.com/pagelens/pagelens/internal/server"
	"github.com/pagelens/pagelens/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP/WebSocket server for the browser sidebar",
	Long: `Starts the local server the sidebar extension talks to: POST /api/search
for one-shot answers and GET /ws for streamed ones, plus session history
endpoints backed by the local database.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8385, "port to listen on")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow all CORS origins (development only)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, loaded, err := openChunkStore(ctx, cfg)
	if err != nil {
		return err
	}
	if !loaded {
		fmt.Fprintln(os.Stderr, "Warning: chunk index is empty; answers will fall back until `pagelens ingest` runs.")
	}

	retriever, generator, err := buildPipeline(cfg, store)
	if err != nil {
		return err
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "sessions.db"))
	if err != nil {
		return fmt.Errorf("opening session database: %w", err)
	}
	defer database.Close()

	port, _ := cmd.Flags().GetInt("port")
	allowAll, _ := cmd.Flags().GetBool("allow-all-origins")

	srv := server.New(server.Config{
		Port:        port,
		SearchLimit: cfg.SearchLimit,
		TurnTimeout: cfg.TurnTimeout(),
		AllowAll:    allowAll,
	}, retriever, generator, session.NewStore(database))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Printf("pagelens server listening on :%d (%d chunks indexed)\n", port, store.Count())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		fmt.Println("\nShutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
