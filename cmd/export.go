package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/db"
	"github.com/pagelens/pagelens/internal/history"
	"github.com/pagelens/pagelens/internal/session"
)

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export a chat session as a standalone HTML transcript",
	Long:  `Renders a stored session as a self-contained HTML page with the answers, citations, and sources. Without arguments, lists the stored sessions.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file (default <session-id>.html)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "sessions.db"))
	if err != nil {
		return fmt.Errorf("opening session database: %w", err)
	}
	defer database.Close()

	store := session.NewStore(database)

	if len(args) == 0 {
		return listSessions(store)
	}

	sessionID := args[0]
	msgs, err := store.LoadMessages(sessionID)
	if err != nil {
		return fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	if len(msgs) == 0 {
		return fmt.Errorf("session %s has no messages", sessionID)
	}

	html, err := history.ExportHTML(fmt.Sprintf("pagelens session %s", sessionID), msgs)
	if err != nil {
		return fmt.Errorf("rendering transcript: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = sessionID + ".html"
	}
	if err := os.WriteFile(output, []byte(html), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Printf("Exported %d messages to %s\n", len(msgs), output)
	return nil
}

func listSessions(store *session.Store) error {
	sessions, err := store.ListSessions()
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No stored sessions.")
		return nil
	}

	fmt.Printf("%-38s %-20s %s\n", "SESSION", "UPDATED", "PAGE")
	for _, s := range sessions {
		page := s.PageURL
		if page == "" {
			page = "-"
		}
		fmt.Printf("%-38s %-20s %s\n", s.ID, s.UpdatedAt.Format("2006-01-02 15:04:05"), page)
	}
	return nil
}
